package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"chatbot-llm/internal/db"
	"chatbot-llm/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	// ListByChatID devuelve los mensajes del chat en orden cronológico.
	ListByChatID(ctx context.Context, chatID int64) ([]domain.Message, error)
	// ListRecentByChatID devuelve hasta limit mensajes, el más reciente primero.
	// El llamador debe invertir el resultado para obtener orden cronológico.
	ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool         *pgxpool.Pool
	writeTimeout time.Duration
}

func NewPgMessageRepository(pool *pgxpool.Pool, writeTimeout time.Duration) *PgMessageRepository {
	return &PgMessageRepository{pool: pool, writeTimeout: writeTimeout}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (chat_id, sender, text, created_at)
		VALUES ($1, $2, $3, $4)
	`

	return db.WithWriteTx(ctx, r.pool, r.writeTimeout, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, query,
			message.ChatID,
			message.Sender,
			message.Text,
			message.CreatedAt,
		)
		return err
	})
}

func (r *PgMessageRepository) ListByChatID(ctx context.Context, chatID int64) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, sender, text, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	return scanPgMessages(rows)
}

func (r *PgMessageRepository) ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, sender, text, created_at
		FROM messages
		WHERE chat_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, chatID, limit)
	if err != nil {
		return nil, err
	}
	return scanPgMessages(rows)
}

func scanPgMessages(rows pgx.Rows) ([]domain.Message, error) {
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		err := rows.Scan(
			&msg.ID,
			&msg.ChatID,
			&msg.Sender,
			&msg.Text,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}
