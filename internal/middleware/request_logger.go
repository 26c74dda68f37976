package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RequestLogger logs one line per request and feeds the HTTP metrics
type RequestLogger struct {
	logger   *slog.Logger
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRequestLogger registers http_requests_total and
// http_request_duration_seconds on reg. A nil reg leaves them unregistered.
func NewRequestLogger(logger *slog.Logger, reg prometheus.Registerer) *RequestLogger {
	if logger == nil {
		logger = slog.Default()
	}
	factory := promauto.With(reg)

	return &RequestLogger{
		logger: logger,
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Middleware must run inside RequestID so the trace id is available
func (rl *RequestLogger) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				// let the HTTP error handler write the response so the status is final
				c.Error(err)
			}

			req := c.Request()
			status := c.Response().Status
			latency := time.Since(start)
			route := c.Path()
			if route == "" {
				route = "unmatched"
			}

			rl.requests.WithLabelValues(req.Method, route, strconv.Itoa(status)).Inc()
			rl.duration.WithLabelValues(req.Method, route).Observe(latency.Seconds())

			level := slog.LevelInfo
			switch {
			case status >= 500:
				level = slog.LevelError
			case status >= 400:
				level = slog.LevelWarn
			}

			rl.logger.LogAttrs(req.Context(), level, "request",
				slog.String("trace_id", GetTraceID(c)),
				slog.String("method", req.Method),
				slog.String("path", req.URL.Path),
				slog.Int("status", status),
				slog.Duration("latency", latency),
				slog.String("ip", clientIP(c)),
				slog.Int64("bytes_out", c.Response().Size),
			)

			return nil
		}
	}
}
