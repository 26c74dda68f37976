package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"
	"finance-tracker/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendServiceError(t *testing.T) {
	_, parseErr := models.ParseDate("2026-13-45")
	require.Error(t, parseErr)

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"wrapped not found", fmt.Errorf("get: %w", services.ErrTransactionNotFound), http.StatusNotFound, "TRANSACTION_001"},
		{"weak password", services.ErrPasswordNoNumber, http.StatusBadRequest, "VALIDATION_007"},
		{"locked", services.ErrAccountLocked, http.StatusTooManyRequests, "AUTH_005"},
		{"batch too large", services.ErrBatchTooLarge, http.StatusBadRequest, "TRANSACTION_004"},
		{"invalid type", models.ErrInvalidTransactionType, http.StatusBadRequest, "TRANSACTION_003"},
		{"bad period", reporting.ErrInvalidPeriod, http.StatusBadRequest, "VALIDATION_003"},
		{"unparseable date", parseErr, http.StatusBadRequest, "VALIDATION_006"},
		{"unknown", fmt.Errorf("boom"), http.StatusInternalServerError, "SYSTEM_001"},
	}

	e := newTestEcho()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, rec := newContext(e, http.MethodGet, "/", nil, nil)
			c.Set(TraceIDContextKey, "trace-1")

			require.NoError(t, sendServiceError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)

			resp := decodeError(rec)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "trace-1", resp.Error.TraceID)
		})
	}
}

func TestSendServiceError_BatchItemDetails(t *testing.T) {
	e := newTestEcho()
	c, rec := newContext(e, http.MethodPost, "/transactions/bulk", nil, nil)

	err := &services.BatchItemError{Index: 3, Err: models.ErrInvalidAmount}
	require.NoError(t, sendServiceError(c, err))

	resp := decodeError(rec)
	assert.Equal(t, "TRANSACTION_002", resp.Error.Code)
	assert.Equal(t, []string{"transactions[3]: " + models.ErrInvalidAmount.Error()}, resp.Error.Details)
}

func TestSendServiceError_WeakPasswordDetails(t *testing.T) {
	e := newTestEcho()
	c, rec := newContext(e, http.MethodPost, "/user/register", nil, nil)

	require.NoError(t, sendServiceError(c, services.ErrPasswordTooShort))

	resp := decodeError(rec)
	assert.Equal(t, []string{services.ErrPasswordTooShort.Error()}, resp.Error.Details)
}
