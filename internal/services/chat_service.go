package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-tracker/internal/assistant"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

// ChatHistoryLimit caps how many stored messages History returns
const ChatHistoryLimit = 100

var ErrEmptyMessage = errors.New("message must not be empty")

// ChatService answers questions with the rule-based assistant and keeps the conversation
type ChatService struct {
	transactions repositories.TransactionRepositoryInterface
	messages     repositories.ChatMessageRepositoryInterface
	assistant    *assistant.Assistant
	auditLogger  AuditLoggerInterface
	metrics      MetricsRecorderInterface
	logger       *slog.Logger
	location     *time.Location
	now          func() time.Time
}

func NewChatService(
	transactions repositories.TransactionRepositoryInterface,
	messages repositories.ChatMessageRepositoryInterface,
	bot *assistant.Assistant,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	loc *time.Location,
	logger *slog.Logger,
) ChatServiceInterface {
	if bot == nil {
		bot = assistant.New()
	}
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ChatService{
		transactions: transactions,
		messages:     messages,
		assistant:    bot,
		auditLogger:  auditLogger,
		metrics:      metrics,
		logger:       logger,
		location:     loc,
		now:          time.Now,
	}
}

// Ask answers message from the user's full transaction set and stores both turns.
// A failed write is logged; the reply is still returned.
func (s *ChatService) Ask(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error) {
	started := time.Now()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	transactions, _, err := s.transactions.GetWithFilters(ctx, models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	now := s.now().In(s.location)
	answer := s.assistant.Reply(message, assistant.FactsFrom(transactions, now))

	question := &models.ChatMessage{
		UserID:    userID,
		Role:      models.ChatRoleUser,
		Content:   message,
		CreatedAt: now,
	}
	reply := &models.ChatMessage{
		UserID:    userID,
		Role:      models.ChatRoleAssistant,
		Content:   answer.Text,
		Intent:    string(answer.Intent),
		CreatedAt: now.Add(time.Millisecond),
	}

	if err := s.messages.Create(ctx, question, reply); err != nil {
		s.logger.WarnContext(ctx, "failed to store chat messages",
			"error", err,
			"user_id", userID)
	}

	elapsed := time.Since(started)
	s.metrics.IncrementCounter(MetricChatIntent, map[string]string{"intent": string(answer.Intent)})
	s.metrics.RecordProcessingTime(MetricChatDuration, elapsed)
	s.auditLogger.LogChatAnswered(ctx, userID, string(answer.Intent), elapsed.Milliseconds())

	return reply, nil
}

// History returns the stored conversation, oldest first. An empty history
// yields the assistant's welcome message.
func (s *ChatService) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	messages, err := s.messages.ListByUser(ctx, userID, ChatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}

	if len(messages) == 0 {
		return []models.ChatMessage{{
			UserID:    userID,
			Role:      models.ChatRoleAssistant,
			Content:   assistant.WelcomeMessage,
			CreatedAt: s.now().In(s.location),
		}}, nil
	}

	return messages, nil
}

func (s *ChatService) ClearHistory(ctx context.Context, userID uuid.UUID) error {
	deleted, err := s.messages.DeleteByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to clear chat history: %w", err)
	}

	s.logger.InfoContext(ctx, "chat history cleared",
		"user_id", userID,
		"deleted", deleted)

	return nil
}
