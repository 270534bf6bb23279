package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"chatbot-llm/internal/config"
	"chatbot-llm/internal/db"
)

// Store reúne los repositorios del backend elegido y su cierre.
type Store struct {
	Chats    ChatRepository
	Messages MessageRepository
	close    func()
}

// Close libera las conexiones del backend.
func (s *Store) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Open conecta con el backend indicado por cfg.DatabaseURL y asegura el esquema
// antes de devolver los repositorios.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Store, error) {
	if cfg.UsesPostgres() {
		pool, err := db.NewPool(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		if err := db.EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		logger.Info("store ready", zap.String("backend", "postgres"))
		return &Store{
			Chats:    NewPgChatRepository(pool, cfg.DBWriteTimeout),
			Messages: NewPgMessageRepository(pool, cfg.DBWriteTimeout),
			close:    pool.Close,
		}, nil
	}

	sqlite, err := db.OpenSQLite(ctx, cfg.DatabaseURL, cfg.DBWriteTimeout)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSQLiteSchema(ctx, sqlite.Writer); err != nil {
		sqlite.Close()
		return nil, err
	}
	logger.Info("store ready", zap.String("backend", "sqlite"), zap.String("path", cfg.DatabaseURL))
	return &Store{
		Chats:    NewSQLiteChatRepository(sqlite),
		Messages: NewSQLiteMessageRepository(sqlite),
		close: func() {
			if err := sqlite.Close(); err != nil {
				logger.Warn("sqlite close", zap.Error(err))
			}
		},
	}, nil
}
