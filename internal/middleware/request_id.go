package middleware

import (
	"finance-tracker/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// TraceIDHeader is the header name for the trace ID
	TraceIDHeader = "X-Trace-ID"
	// TraceIDContextKey is the context key for storing the trace ID
	TraceIDContextKey = "trace_id"

	maxTraceIDLength = 128
)

// RequestID assigns each request a trace ID, reusing X-Trace-ID or X-Request-ID
// when the caller sends a sane one. The ID is echoed in the response header,
// stored on the echo context and carried on the request context so audit
// events can use it as correlation id.
func RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			traceID := incomingTraceID(req.Header.Get(TraceIDHeader), req.Header.Get(echo.HeaderXRequestID))
			if traceID == "" {
				traceID = uuid.New().String()
			}

			c.Set(TraceIDContextKey, traceID)
			c.Response().Header().Set(TraceIDHeader, traceID)
			c.SetRequest(req.WithContext(services.WithRequestID(req.Context(), traceID)))
			return next(c)
		}
	}
}

func incomingTraceID(candidates ...string) string {
	for _, id := range candidates {
		if id != "" && len(id) <= maxTraceIDLength && printable(id) {
			return id
		}
	}
	return ""
}

func printable(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x21 || s[i] > 0x7e {
			return false
		}
	}
	return true
}

// GetTraceID extracts the trace ID from the Echo context
// Returns empty string if not found
func GetTraceID(c echo.Context) string {
	traceID, ok := c.Get(TraceIDContextKey).(string)
	if !ok {
		return ""
	}
	return traceID
}
