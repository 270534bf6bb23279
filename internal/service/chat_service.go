package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"chatbot-llm/internal/domain"
	"chatbot-llm/internal/llm"
	"chatbot-llm/internal/repository"
)

var ErrChatServiceNotConfigured = errors.New("chat service not configured")

type turnState string

const (
	turnReceived            turnState = "RECEIVED"
	turnPersistedUserMsg    turnState = "PERSISTED_USER_MSG"
	turnWindowBuilt         turnState = "WINDOW_BUILT"
	turnCompletionRequested turnState = "COMPLETION_REQUESTED"
	turnPersistedAIMsg      turnState = "PERSISTED_AI_MSG"
	turnDone                turnState = "DONE"
)

// Turn es el resultado de procesar un mensaje del usuario.
// Skipped indica que el mensaje venía vacío y no se escribió nada.
type Turn struct {
	User    domain.Message
	Reply   domain.Message
	Prompt  string
	Skipped bool
}

// ChatService orquesta chats, mensajes y la llamada al LLM.
type ChatService struct {
	chats     repository.ChatRepository
	messages  repository.MessageRepository
	assembler *ConversationAssembler
	llmClient llm.LLMClient
	logger    *zap.Logger
	now       func() time.Time
}

func NewChatService(
	chats repository.ChatRepository,
	messages repository.MessageRepository,
	assembler *ConversationAssembler,
	llmClient llm.LLMClient,
	logger *zap.Logger,
) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		chats:     chats,
		messages:  messages,
		assembler: assembler,
		llmClient: llmClient,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *ChatService) configured() bool {
	return s != nil && s.chats != nil && s.messages != nil && s.assembler != nil && s.llmClient != nil
}

// ListChats devuelve todos los chats, el más reciente primero.
func (s *ChatService) ListChats(ctx context.Context) ([]domain.Chat, error) {
	if !s.configured() {
		return nil, ErrChatServiceNotConfigured
	}
	return s.chats.List(ctx)
}

// CreateChat crea un chat titulado con el timestamp actual y lo siembra con el saludo.
func (s *ChatService) CreateChat(ctx context.Context) (int64, error) {
	if !s.configured() {
		return 0, ErrChatServiceNotConfigured
	}
	ts := domain.FormatTimestamp(s.now())
	id, err := s.chats.CreateWithGreeting(ctx, domain.Chat{
		Title:     domain.ChatTitle(ts),
		CreatedAt: ts,
	}, domain.Greeting)
	if err != nil {
		return 0, fmt.Errorf("create chat: %w", err)
	}
	s.logger.Info("chat created", zap.Int64("chat_id", id))
	return id, nil
}

// LatestOrCreate devuelve el chat más reciente o crea uno si no hay ninguno.
func (s *ChatService) LatestOrCreate(ctx context.Context) (int64, error) {
	chats, err := s.ListChats(ctx)
	if err != nil {
		return 0, fmt.Errorf("list chats: %w", err)
	}
	if len(chats) > 0 {
		return chats[0].ID, nil
	}
	return s.CreateChat(ctx)
}

// GetMessages devuelve los mensajes del chat en orden cronológico.
// Un chat inexistente devuelve una lista vacía.
func (s *ChatService) GetMessages(ctx context.Context, chatID int64) ([]domain.Message, error) {
	if !s.configured() {
		return nil, ErrChatServiceNotConfigured
	}
	return s.messages.ListByChatID(ctx, chatID)
}

// SendMessage persiste el mensaje del usuario, pide la respuesta al LLM y la persiste.
// No hay rollback: si el LLM falla, el mensaje del usuario queda guardado sin respuesta.
func (s *ChatService) SendMessage(ctx context.Context, chatID int64, text string) (Turn, error) {
	if !s.configured() {
		return Turn{}, ErrChatServiceNotConfigured
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Turn{Skipped: true}, nil
	}

	log := s.logger.With(zap.Int64("chat_id", chatID))
	log.Debug("turn", zap.String("state", string(turnReceived)))

	ts := domain.FormatTimestamp(s.now())
	turn := Turn{
		User: domain.Message{ChatID: chatID, Sender: domain.SenderUser, Text: text, CreatedAt: ts},
	}
	if err := s.messages.Create(ctx, turn.User); err != nil {
		return Turn{}, fmt.Errorf("save user message: %w", err)
	}
	log.Debug("turn", zap.String("state", string(turnPersistedUserMsg)))

	prompt, err := s.assembler.BuildPrompt(ctx, chatID, text)
	if err != nil {
		return turn, fmt.Errorf("build prompt: %w", err)
	}
	turn.Prompt = prompt
	log.Debug("turn", zap.String("state", string(turnWindowBuilt)), zap.Int("prompt_len", len(prompt)))

	log.Debug("turn", zap.String("state", string(turnCompletionRequested)))
	response, err := s.llmClient.Generate(ctx, prompt)
	if err != nil {
		log.Error("completion failed, user message left without reply", zap.Error(err))
		return turn, fmt.Errorf("llm generate: %w", err)
	}

	turn.Reply = domain.Message{ChatID: chatID, Sender: domain.SenderAI, Text: cleanReply(response), CreatedAt: ts}
	if err := s.messages.Create(ctx, turn.Reply); err != nil {
		return turn, fmt.Errorf("save ai message: %w", err)
	}
	log.Debug("turn", zap.String("state", string(turnPersistedAIMsg)))
	log.Debug("turn", zap.String("state", string(turnDone)))

	return turn, nil
}
