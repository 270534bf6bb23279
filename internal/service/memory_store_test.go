package service

import (
	"context"
	"sort"

	"chatbot-llm/internal/domain"
	"chatbot-llm/internal/repository"
)

// memoryStore imita el orden (created_at, id) de los repositorios reales.
type memoryStore struct {
	chats    []domain.Chat
	messages []domain.Message
	nextID   int64

	createErr  error
	recentErr  error
	recentCall int
}

func newMemoryStore() *memoryStore { return &memoryStore{} }

func (m *memoryStore) id() int64 {
	m.nextID++
	return m.nextID
}

func (m *memoryStore) List(_ context.Context) ([]domain.Chat, error) {
	out := append([]domain.Chat(nil), m.chats...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt > out[j].CreatedAt
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (m *memoryStore) CreateWithGreeting(_ context.Context, chat domain.Chat, greeting string) (int64, error) {
	if m.createErr != nil {
		return 0, m.createErr
	}
	chat.ID = m.id()
	m.chats = append(m.chats, chat)
	m.messages = append(m.messages, domain.Message{
		ID: m.id(), ChatID: chat.ID, Sender: domain.SenderAI, Text: greeting, CreatedAt: chat.CreatedAt,
	})
	return chat.ID, nil
}

func (m *memoryStore) Create(_ context.Context, message domain.Message) error {
	if m.createErr != nil {
		return m.createErr
	}
	message.ID = m.id()
	m.messages = append(m.messages, message)
	return nil
}

func (m *memoryStore) byChat(chatID int64) []domain.Message {
	var out []domain.Message
	for _, msg := range m.messages {
		if msg.ChatID == chatID {
			out = append(out, msg)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt != out[j].CreatedAt {
			return out[i].CreatedAt < out[j].CreatedAt
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (m *memoryStore) ListByChatID(_ context.Context, chatID int64) ([]domain.Message, error) {
	return m.byChat(chatID), nil
}

func (m *memoryStore) ListRecentByChatID(_ context.Context, chatID int64, limit int) ([]domain.Message, error) {
	m.recentCall++
	if m.recentErr != nil {
		return nil, m.recentErr
	}
	asc := m.byChat(chatID)
	var out []domain.Message
	for i := len(asc) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, asc[i])
	}
	return out, nil
}

func (m *memoryStore) countSender(chatID int64, sender string) int {
	n := 0
	for _, msg := range m.messages {
		if msg.ChatID == chatID && msg.Sender == sender {
			n++
		}
	}
	return n
}

var (
	_ repository.ChatRepository    = (*memoryStore)(nil)
	_ repository.MessageRepository = (*memoryStore)(nil)
)
