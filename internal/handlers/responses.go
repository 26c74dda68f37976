package handlers

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"finance-tracker/internal/errors"
	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// All handlers report failures through SendError (4xx, known codes) or
// SendSystemError (5xx, internal details hidden). Service errors go through
// sendServiceError, which picks the code with errors.Is.

const (
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"
)

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is an alias for the standardized error response type
type ErrorResponse = errors.ErrorResponse

// getTraceID extracts the trace ID from the Echo context
func getTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// SendError sends a standardized error response with trace ID from context
func SendError(c echo.Context, code errors.ErrorCode, opts ...errors.ErrorOption) error {
	traceID := getTraceID(c)
	errorResponse := errors.NewErrorResponse(code, traceID, opts...)
	return c.JSON(errorResponse.GetHTTPStatus(), errorResponse)
}

// SendSystemError wraps a system error with generic message and logs the internal error
func SendSystemError(c echo.Context, err error) error {
	traceID := getTraceID(c)
	errorResponse, internalErr := errors.WrapSystemError(err, traceID)
	slog.ErrorContext(c.Request().Context(), "request failed",
		"trace_id", traceID,
		"path", c.Request().URL.Path,
		"method", c.Request().Method,
		"error", internalErr)
	return c.JSON(http.StatusInternalServerError, errorResponse)
}

type errorMapping struct {
	target error
	code   errors.ErrorCode
}

var serviceErrorCodes = []errorMapping{
	{services.ErrInvalidCredentials, errors.AuthInvalidCredentials},
	{services.ErrAccountLocked, errors.AuthAccountLocked},
	{services.ErrUserAlreadyExists, errors.AuthEmailTaken},
	{services.ErrEmailAlreadyExists, errors.AuthEmailTaken},
	{services.ErrForbidden, errors.AuthForbidden},
	{services.ErrProfileNotFound, errors.ProfileNotFound},
	{services.ErrTransactionNotFound, errors.TransactionNotFound},
	{services.ErrBatchTooLarge, errors.TransactionBatchTooLarge},
	{services.ErrEmptyBatch, errors.ValidationRequiredField},
	{services.ErrUnknownCategory, errors.ValidationUnknownCategory},
	{services.ErrEmptyUpdate, errors.ValidationGeneral},
	{services.ErrEmptyMessage, errors.ValidationRequiredField},
	{models.ErrInvalidAmount, errors.TransactionInvalidAmount},
	{models.ErrInvalidTransactionType, errors.TransactionInvalidType},
	{models.ErrDescriptionRequired, errors.ValidationRequiredField},
	{models.ErrCategoryRequired, errors.ValidationRequiredField},
	{models.ErrDateRequired, errors.ValidationRequiredField},
	{models.ErrDescriptionTooLong, errors.ValidationOutOfRange},
	{models.ErrCategoryTooLong, errors.ValidationOutOfRange},
	{models.ErrNotesTooLong, errors.ValidationOutOfRange},
	{models.ErrUserNameRequired, errors.ValidationRequiredField},
	{models.ErrUserEmailRequired, errors.ValidationRequiredField},
	{models.ErrUserEmailInvalid, errors.ValidationInvalidEmail},
	{reporting.ErrInvalidPeriod, errors.ValidationInvalidFormat},
	{reporting.ErrInvalidDateRange, errors.ValidationInvalidDate},
}

// sendServiceError translates a service error into the API error envelope.
// Unknown errors become SYSTEM_001.
func sendServiceError(c echo.Context, err error) error {
	if services.IsPasswordPolicyError(err) {
		return SendError(c, errors.ValidationWeakPassword, errors.WithDetails(err.Error()))
	}

	var parseErr *time.ParseError
	if stderrors.As(err, &parseErr) {
		return SendError(c, errors.ValidationInvalidDate, errorDetails(err)...)
	}

	for _, m := range serviceErrorCodes {
		if stderrors.Is(err, m.target) {
			return SendError(c, m.code, errorDetails(err)...)
		}
	}

	return SendSystemError(c, err)
}

// errorDetails points at the rejected item of a bulk request
func errorDetails(err error) []errors.ErrorOption {
	var itemErr *services.BatchItemError
	if stderrors.As(err, &itemErr) {
		return []errors.ErrorOption{errors.WithDetails(fmt.Sprintf("transactions[%d]: %s", itemErr.Index, itemErr.Err.Error()))}
	}
	return nil
}
