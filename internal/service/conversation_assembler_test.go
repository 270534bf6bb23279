package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"chatbot-llm/internal/domain"
)

func seedMessages(store *memoryStore, chatID int64, n int) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := 1; i <= n; i++ {
		sender := domain.SenderUser
		if i%2 == 0 {
			sender = domain.SenderAI
		}
		store.Create(context.Background(), domain.Message{
			ChatID:    chatID,
			Sender:    sender,
			Text:      "msg" + itoa(i),
			CreatedAt: domain.FormatTimestamp(base.Add(time.Duration(i) * time.Second)),
		})
	}
}

func TestConversationAssembler_Window(t *testing.T) {
	t.Run("recorta a los ultimos 10 en orden cronologico", func(t *testing.T) {
		store := newMemoryStore()
		seedMessages(store, 1, 12)
		a := NewConversationAssembler(store)

		window, err := a.Window(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(window) != 10 {
			t.Fatalf("expected 10 messages, got %d", len(window))
		}
		for i, m := range window {
			want := "msg" + itoa(i+3)
			if m.Text != want {
				t.Fatalf("position %d: expected %s, got %s", i, want, m.Text)
			}
		}
	})

	t.Run("pocos mensajes", func(t *testing.T) {
		store := newMemoryStore()
		seedMessages(store, 1, 3)
		seedMessages(store, 2, 5)
		a := NewConversationAssembler(store)

		window, err := a.Window(context.Background(), 1)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(window) != 3 || window[0].Text != "msg1" || window[2].Text != "msg3" {
			t.Fatalf("unexpected window: %+v", window)
		}
	})

	t.Run("error del repositorio", func(t *testing.T) {
		store := newMemoryStore()
		store.recentErr = errors.New("db down")
		a := NewConversationAssembler(store)

		if _, err := a.Window(context.Background(), 1); err == nil {
			t.Fatalf("expected error")
		}
	})
}

func TestRenderConversation(t *testing.T) {
	msgs := []domain.Message{
		{Sender: domain.SenderAI, Text: "Hi"},
		{Sender: domain.SenderUser, Text: "Hello"},
		{Sender: "system", Text: "raro"},
	}
	got := RenderConversation(msgs)
	want := "AI: Hi\nUser: Hello\nAI: raro\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}

	if RenderConversation(nil) != "" {
		t.Fatalf("expected empty block for no messages")
	}
}

func TestConversationAssembler_BuildPrompt(t *testing.T) {
	store := newMemoryStore()
	ctx := context.Background()
	store.Create(ctx, domain.Message{ChatID: 1, Sender: domain.SenderAI, Text: "Hi", CreatedAt: "2024-05-01 10:00:00"})
	store.Create(ctx, domain.Message{ChatID: 1, Sender: domain.SenderUser, Text: "Hello", CreatedAt: "2024-05-01 10:00:05"})
	a := NewConversationAssembler(store)

	prompt, err := a.BuildPrompt(ctx, 1, "Hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := "\nYou are a friendly AI assistant.\n" +
		"Always reply in short, direct sentences.\n" +
		"Do NOT give extra explanations.\n\n" +
		"Conversation so far:\n" +
		"AI: Hi\nUser: Hello\n\n\n" +
		"User: Hello\n"
	if prompt != want {
		t.Fatalf("unexpected prompt:\n%q\nwant:\n%q", prompt, want)
	}
	if !containsAllInOrder(prompt, []string{"AI: Hi", "User: Hello", "User: Hello"}) {
		t.Fatalf("expected history then new message, got: %s", prompt)
	}
}

func TestConversationAssembler_BuildPromptRebuildsEachTime(t *testing.T) {
	store := newMemoryStore()
	seedMessages(store, 1, 2)
	a := NewConversationAssembler(store)
	ctx := context.Background()

	first, _ := a.BuildPrompt(ctx, 1, "x")
	store.Create(ctx, domain.Message{ChatID: 1, Sender: domain.SenderUser, Text: "nuevo", CreatedAt: "2030-01-01 00:00:00"})
	second, _ := a.BuildPrompt(ctx, 1, "x")

	if strings.Contains(first, "nuevo") || !strings.Contains(second, "User: nuevo") {
		t.Fatalf("expected prompt to reflect current history")
	}
	if store.recentCall != 2 {
		t.Fatalf("expected one repository read per prompt, got %d", store.recentCall)
	}
}

func containsAllInOrder(text string, parts []string) bool {
	idx := 0
	for _, p := range parts {
		pos := strings.Index(text[idx:], p)
		if pos == -1 {
			return false
		}
		idx += pos + len(p)
	}
	return true
}

func itoa(i int) string {
	return fmt.Sprintf("%d", i)
}
