package service

import (
	"context"
	"fmt"
	"strings"

	"chatbot-llm/internal/domain"
	"chatbot-llm/internal/repository"
)

// ContextWindowSize es la cantidad de mensajes recientes que entran al prompt.
// Es un corte por cantidad, no por tokens: mensajes largos no se truncan.
const ContextWindowSize = 10

const promptTemplate = `
You are a friendly AI assistant.
Always reply in short, direct sentences.
Do NOT give extra explanations.

Conversation so far:
%s

User: %s
`

// ConversationAssembler arma el prompt a partir del historial persistido y el mensaje nuevo.
type ConversationAssembler struct {
	messageRepo repository.MessageRepository
	windowSize  int
}

func NewConversationAssembler(messageRepo repository.MessageRepository) *ConversationAssembler {
	return &ConversationAssembler{messageRepo: messageRepo, windowSize: ContextWindowSize}
}

// Window devuelve los últimos mensajes del chat en orden cronológico.
// El repositorio los entrega del más reciente al más antiguo; acá se invierten.
func (a *ConversationAssembler) Window(ctx context.Context, chatID int64) ([]domain.Message, error) {
	recent, err := a.messageRepo.ListRecentByChatID(ctx, chatID, a.windowSize)
	if err != nil {
		return nil, fmt.Errorf("list recent messages: %w", err)
	}
	for i, j := 0, len(recent)-1; i < j; i, j = i+1, j-1 {
		recent[i], recent[j] = recent[j], recent[i]
	}
	return recent, nil
}

// BuildPrompt arma el prompt completo para el turno. Se reconstruye en cada llamada.
func (a *ConversationAssembler) BuildPrompt(ctx context.Context, chatID int64, userMessage string) (string, error) {
	window, err := a.Window(ctx, chatID)
	if err != nil {
		return "", err
	}
	return RenderPrompt(RenderConversation(window), userMessage), nil
}

// RenderConversation formatea cada mensaje como "User: ..." o "AI: ...", uno por línea.
func RenderConversation(messages []domain.Message) string {
	var b strings.Builder
	for _, m := range messages {
		role := "AI"
		if m.IsUser() {
			role = "User"
		}
		b.WriteString(role)
		b.WriteString(": ")
		b.WriteString(m.Text)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderPrompt envuelve la conversación en las instrucciones fijas y agrega el mensaje nuevo al final.
func RenderPrompt(conversation, userMessage string) string {
	return fmt.Sprintf(promptTemplate, conversation, userMessage)
}
