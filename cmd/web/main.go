package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"chatbot-llm/internal/config"
	apihttp "chatbot-llm/internal/http"
	"chatbot-llm/internal/llm"
	"chatbot-llm/internal/repository"
	"chatbot-llm/internal/service"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer store.Close()

	llmClient := llm.NewHTTPClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout, logger)
	assembler := service.NewConversationAssembler(store.Messages)
	chatSvc := service.NewChatService(store.Chats, store.Messages, assembler, llmClient, logger)

	chatHandler := apihttp.NewChatHandler(logger, chatSvc)
	router := apihttp.NewRouter(logger, chatHandler)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("model", cfg.LLMModel))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zcfg := zap.NewProductionConfig()
	zcfg.Level = lvl
	return zcfg.Build()
}
