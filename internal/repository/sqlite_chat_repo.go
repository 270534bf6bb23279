package repository

import (
	"context"
	"fmt"

	"chatbot-llm/internal/db"
	"chatbot-llm/internal/domain"
)

// SQLiteChatRepository implementa ChatRepository sobre el archivo SQLite.
type SQLiteChatRepository struct {
	store *db.SQLite
}

func NewSQLiteChatRepository(store *db.SQLite) *SQLiteChatRepository {
	return &SQLiteChatRepository{store: store}
}

func (r *SQLiteChatRepository) List(ctx context.Context) ([]domain.Chat, error) {
	const query = `
		SELECT id, title, created_at
		FROM chats
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.store.Reader.QueryContext(ctx, query)
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

func (r *SQLiteChatRepository) CreateWithGreeting(ctx context.Context, chat domain.Chat, greeting string) (int64, error) {
	tx, err := r.store.Writer.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO chats (title, created_at) VALUES (?, ?)`,
		chat.Title, chat.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert chat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender, text, created_at) VALUES (?, ?, ?, ?)`,
		id, domain.SenderAI, greeting, chat.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert greeting: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return id, nil
}
