package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chatbot-llm/internal/service"
)

// ChatHandler mantiene dependencias para las vistas de chat.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler con dependencias necesarias.
func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{logger: logger, chatSvc: chatSvc}
}

// Home maneja GET /: redirige al chat más reciente o crea uno.
func (h *ChatHandler) Home(c *gin.Context) {
	id, err := h.chatSvc.LatestOrCreate(c.Request.Context())
	if err != nil {
		h.fail(c, "open latest chat failed", err)
		return
	}
	c.Redirect(http.StatusFound, chatPath(id))
}

// ViewChat maneja GET /chat/:id.
func (h *ChatHandler) ViewChat(c *gin.Context) {
	id, ok := chatIDParam(c)
	if !ok {
		return
	}

	chats, err := h.chatSvc.ListChats(c.Request.Context())
	if err != nil {
		h.fail(c, "list chats failed", err)
		return
	}
	messages, err := h.chatSvc.GetMessages(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "list messages failed", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Chats":       chats,
		"Messages":    messages,
		"CurrentChat": id,
	})
}

// NewChat maneja GET /new_chat.
func (h *ChatHandler) NewChat(c *gin.Context) {
	id, err := h.chatSvc.CreateChat(c.Request.Context())
	if err != nil {
		h.fail(c, "create chat failed", err)
		return
	}
	c.Redirect(http.StatusFound, chatPath(id))
}

// SendMessage maneja POST /send/:id con el campo de formulario "message".
func (h *ChatHandler) SendMessage(c *gin.Context) {
	id, ok := chatIDParam(c)
	if !ok {
		return
	}

	if _, err := h.chatSvc.SendMessage(c.Request.Context(), id, c.PostForm("message")); err != nil {
		h.fail(c, "send message failed", err)
		return
	}
	c.Redirect(http.StatusFound, chatPath(id))
}

func (h *ChatHandler) fail(c *gin.Context, msg string, err error) {
	h.logger.Error(msg, zap.Error(err), zap.String("request_id", c.GetString("request_id")))
	c.String(http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
}

// chatIDParam solo acepta ids enteros; cualquier otra cosa es 404.
func chatIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return 0, false
	}
	return id, true
}

func chatPath(id int64) string {
	return "/chat/" + strconv.FormatInt(id, 10)
}
