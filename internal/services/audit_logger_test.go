package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferedAuditLogger() (AuditLoggerInterface, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return NewAuditLogger(logger), buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	return entry
}

func TestAuditLogger_CarriesCorrelationID(t *testing.T) {
	auditLogger, buf := newBufferedAuditLogger()
	userID := uuid.New()
	ctx := WithRequestID(context.Background(), "req-123")

	auditLogger.LogTransactionCreated(ctx, userID, uuid.New(), "expense", "42.00")

	entry := decodeLine(t, buf)
	assert.Equal(t, "transaction_created", entry["event_type"])
	assert.Equal(t, userID.String(), entry["user_id"])
	assert.Equal(t, "42.00", entry["amount"])
	assert.Equal(t, "req-123", entry["correlation_id"])
}

func TestAuditLogger_LoginFailedIsWarning(t *testing.T) {
	auditLogger, buf := newBufferedAuditLogger()

	auditLogger.LogLoginFailed(context.Background(), "maria@example.com", "invalid_password")

	entry := decodeLine(t, buf)
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "invalid_password", entry["reason"])
	assert.Equal(t, "", entry["correlation_id"])
}

func TestAuditLogger_NilLoggerFallsBackToDefault(t *testing.T) {
	assert.NotPanics(t, func() {
		NewAuditLogger(nil).LogChatAnswered(context.Background(), uuid.New(), "balance", 3)
	})
}
