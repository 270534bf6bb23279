package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SQLite no aplica la foreign key salvo PRAGMA foreign_keys=ON, que nunca se activa:
// la relación queda declarada, no verificada.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT,
		created_at TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		chat_id INTEGER,
		sender TEXT,
		text TEXT,
		created_at TEXT,
		FOREIGN KEY(chat_id) REFERENCES chats(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at, id)`,
}

// En PostgreSQL la foreign key se aplicaría siempre, así que chat_id queda sin constraint
// para mantener la misma semántica que el archivo SQLite.
var postgresSchema = []string{
	`CREATE TABLE IF NOT EXISTS chats (
		id BIGSERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS messages (
		id BIGSERIAL PRIMARY KEY,
		chat_id BIGINT NOT NULL,
		sender TEXT NOT NULL,
		text TEXT NOT NULL,
		created_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_chat_created ON messages(chat_id, created_at, id)`,
}

// EnsureSQLiteSchema crea las tablas si no existen. Es idempotente.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range sqliteSchema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure sqlite schema: %w", err)
		}
	}
	return nil
}

// EnsurePostgresSchema crea las tablas si no existen. Es idempotente.
func EnsurePostgresSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range postgresSchema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure postgres schema: %w", err)
		}
	}
	return nil
}
