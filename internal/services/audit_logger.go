package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type contextKey string

// RequestIDContextKey carries the request id on request contexts.
const RequestIDContextKey contextKey = "request_id"

// WithRequestID returns a context carrying the request id used as correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDContextKey, requestID)
}

type AuditLogger struct {
	logger *slog.Logger
}

func NewAuditLogger(logger *slog.Logger) AuditLoggerInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditLogger{
		logger: logger,
	}
}

func (al *AuditLogger) LogUserRegistered(ctx context.Context, userID uuid.UUID, email string) {
	al.logger.InfoContext(ctx, "user registered",
		slog.String("event_type", "user_registered"),
		slog.String("user_id", userID.String()),
		slog.String("email", email),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogLoginSucceeded(ctx context.Context, userID uuid.UUID) {
	al.logger.InfoContext(ctx, "login succeeded",
		slog.String("event_type", "login_succeeded"),
		slog.String("user_id", userID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogLoginFailed(ctx context.Context, email, reason string) {
	al.logger.WarnContext(ctx, "login failed",
		slog.String("event_type", "login_failed"),
		slog.String("email", email),
		slog.String("reason", reason),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogAccountLocked(ctx context.Context, userID uuid.UUID, failedAttempts int) {
	al.logger.WarnContext(ctx, "account locked",
		slog.String("event_type", "account_locked"),
		slog.String("user_id", userID.String()),
		slog.Int("failed_attempts", failedAttempts),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionCreated(ctx context.Context, userID, transactionID uuid.UUID, transactionType, amount string) {
	al.logger.InfoContext(ctx, "transaction created",
		slog.String("event_type", "transaction_created"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.String("transaction_type", transactionType),
		slog.String("amount", amount),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionsImported(ctx context.Context, userID uuid.UUID, count int) {
	al.logger.InfoContext(ctx, "transactions imported",
		slog.String("event_type", "transactions_imported"),
		slog.String("user_id", userID.String()),
		slog.Int("count", count),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionUpdated(ctx context.Context, userID, transactionID uuid.UUID) {
	al.logger.InfoContext(ctx, "transaction updated",
		slog.String("event_type", "transaction_updated"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogTransactionDeleted(ctx context.Context, userID, transactionID uuid.UUID) {
	al.logger.InfoContext(ctx, "transaction deleted",
		slog.String("event_type", "transaction_deleted"),
		slog.String("user_id", userID.String()),
		slog.String("transaction_id", transactionID.String()),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogChatAnswered(ctx context.Context, userID uuid.UUID, intent string, durationMs int64) {
	al.logger.InfoContext(ctx, "chat answered",
		slog.String("event_type", "chat_answered"),
		slog.String("user_id", userID.String()),
		slog.String("intent", intent),
		slog.Int64("duration_ms", durationMs),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func (al *AuditLogger) LogProfileUpdated(ctx context.Context, userID uuid.UUID, fields []string) {
	al.logger.InfoContext(ctx, "profile updated",
		slog.String("event_type", "profile_updated"),
		slog.String("user_id", userID.String()),
		slog.Any("fields", fields),
		slog.Time("timestamp", time.Now()),
		slog.String("correlation_id", getCorrelationID(ctx)),
	)
}

func getCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	if requestID, ok := ctx.Value(RequestIDContextKey).(string); ok {
		return requestID
	}

	return ""
}
