package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"chatbot-llm/internal/config"
	"chatbot-llm/internal/db"
	"chatbot-llm/internal/domain"
)

// Requiere un PostgreSQL desechable: las tablas se vacían al empezar.
func TestPgRepositories(t *testing.T) {
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	pool, err := db.NewPool(ctx, &config.Config{DatabaseURL: url})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, db.EnsurePostgresSchema(ctx, pool))
	require.NoError(t, db.EnsurePostgresSchema(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE chats, messages RESTART IDENTITY`)
	require.NoError(t, err)

	chats := NewPgChatRepository(pool, time.Second)
	messages := NewPgMessageRepository(pool, time.Second)

	first, err := chats.CreateWithGreeting(ctx, domain.Chat{Title: "a", CreatedAt: "2024-05-01 10:00:00"}, domain.Greeting)
	require.NoError(t, err)
	second, err := chats.CreateWithGreeting(ctx, domain.Chat{Title: "b", CreatedAt: "2024-05-01 10:00:05"}, domain.Greeting)
	require.NoError(t, err)

	list, err := chats.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, second, list[0].ID)
	require.Equal(t, first, list[1].ID)

	require.NoError(t, messages.Create(ctx, domain.Message{ChatID: first, Sender: domain.SenderUser, Text: "hola", CreatedAt: "2024-05-01 10:00:01"}))
	require.NoError(t, messages.Create(ctx, domain.Message{ChatID: first, Sender: domain.SenderAI, Text: "buenas", CreatedAt: "2024-05-01 10:00:01"}))

	msgs, err := messages.ListByChatID(ctx, first)
	require.NoError(t, err)
	require.Equal(t, []string{domain.Greeting, "hola", "buenas"}, texts(msgs))

	recent, err := messages.ListRecentByChatID(ctx, first, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"buenas", "hola"}, texts(recent))

	empty, err := messages.ListByChatID(ctx, 12345)
	require.NoError(t, err)
	require.Empty(t, empty)
}
