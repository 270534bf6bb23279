package http

import (
	"html/template"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

// NewRouter configura el router de Gin con middlewares, plantillas y rutas.
func NewRouter(logger *zap.Logger, chatH *ChatHandler) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: request id, logging y recovery.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())
	r.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	r.GET("/", chatH.Home)
	r.GET("/chat/:id", chatH.ViewChat)
	r.GET("/new_chat", chatH.NewChat)
	r.POST("/send/:id", chatH.SendMessage)

	return r
}

// requestIDMiddleware reutiliza el X-Request-ID entrante o genera uno nuevo.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}
