package repository

import (
	"context"
	"database/sql"

	"chatbot-llm/internal/db"
	"chatbot-llm/internal/domain"
)

// SQLiteMessageRepository implementa MessageRepository sobre el archivo SQLite.
type SQLiteMessageRepository struct {
	store *db.SQLite
}

func NewSQLiteMessageRepository(store *db.SQLite) *SQLiteMessageRepository {
	return &SQLiteMessageRepository{store: store}
}

func (r *SQLiteMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO messages (chat_id, sender, text, created_at)
		VALUES (?, ?, ?, ?)
	`
	_, err := r.store.Writer.ExecContext(ctx, query,
		message.ChatID,
		message.Sender,
		message.Text,
		message.CreatedAt,
	)
	return err
}

func (r *SQLiteMessageRepository) ListByChatID(ctx context.Context, chatID int64) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, sender, text, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.store.Reader.QueryContext(ctx, query, chatID)
	if err != nil {
		return nil, err
	}
	return scanSQLMessages(rows)
}

func (r *SQLiteMessageRepository) ListRecentByChatID(ctx context.Context, chatID int64, limit int) ([]domain.Message, error) {
	const query = `
		SELECT id, chat_id, sender, text, created_at
		FROM messages
		WHERE chat_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`

	rows, err := r.store.Reader.QueryContext(ctx, query, chatID, limit)
	if err != nil {
		return nil, err
	}
	return scanSQLMessages(rows)
}

func scanSQLMessages(rows *sql.Rows) ([]domain.Message, error) {
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.Sender, &msg.Text, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}
