package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatbot-llm/internal/db"
	"chatbot-llm/internal/domain"
)

// ChatRepository define el contrato de persistencia para chats.
type ChatRepository interface {
	// List devuelve todos los chats, el más reciente primero.
	List(ctx context.Context) ([]domain.Chat, error)
	// CreateWithGreeting inserta el chat y su mensaje de bienvenida con el mismo timestamp.
	CreateWithGreeting(ctx context.Context, chat domain.Chat, greeting string) (int64, error)
}

// PgChatRepository implementa ChatRepository usando pgxpool.
type PgChatRepository struct {
	pool         *pgxpool.Pool
	writeTimeout time.Duration
}

func NewPgChatRepository(pool *pgxpool.Pool, writeTimeout time.Duration) *PgChatRepository {
	return &PgChatRepository{pool: pool, writeTimeout: writeTimeout}
}

func (r *PgChatRepository) List(ctx context.Context) ([]domain.Chat, error) {
	const query = `
		SELECT id, title, created_at
		FROM chats
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.Chat
	for rows.Next() {
		var c domain.Chat
		if err := rows.Scan(&c.ID, &c.Title, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return chats, nil
}

func (r *PgChatRepository) CreateWithGreeting(ctx context.Context, chat domain.Chat, greeting string) (int64, error) {
	const insertChat = `
		INSERT INTO chats (title, created_at)
		VALUES ($1, $2)
		RETURNING id
	`
	const insertGreeting = `
		INSERT INTO messages (chat_id, sender, text, created_at)
		VALUES ($1, $2, $3, $4)
	`

	var id int64
	err := db.WithWriteTx(ctx, r.pool, r.writeTimeout, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, insertChat, chat.Title, chat.CreatedAt).Scan(&id); err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
		if _, err := tx.Exec(ctx, insertGreeting, id, domain.SenderAI, greeting, chat.CreatedAt); err != nil {
			return fmt.Errorf("insert greeting: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
