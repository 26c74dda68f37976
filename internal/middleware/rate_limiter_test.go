package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedHandler(rl *RateLimiter) echo.HandlerFunc {
	return rl.Middleware()(func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
}

func request(e *echo.Echo, handler echo.HandlerFunc, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	_ = handler(e.NewContext(req, rec))
	return rec.Code
}

func TestRateLimiter_BurstThenLimited(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 4)
	frozen := time.Now()
	rl.now = func() time.Time { return frozen }
	handler := rateLimitedHandler(rl)

	for i := 0; i < 4; i++ {
		assert.Equal(t, http.StatusOK, request(e, handler, "192.168.1.2:12345"), "request %d within burst", i)
	}
	assert.Equal(t, http.StatusTooManyRequests, request(e, handler, "192.168.1.2:12345"))

	frozen = frozen.Add(time.Second)
	assert.Equal(t, http.StatusOK, request(e, handler, "192.168.1.2:12345"))
}

func TestRateLimiter_ResponseBody(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	handler := rateLimitedHandler(rl)

	request(e, handler, "10.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:1"
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "SYSTEM_006")
}

func TestRateLimiter_DifferentIPs(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(1, 1)
	handler := rateLimitedHandler(rl)

	assert.Equal(t, http.StatusOK, request(e, handler, "192.168.1.10:1"))
	assert.Equal(t, http.StatusTooManyRequests, request(e, handler, "192.168.1.10:1"))
	assert.Equal(t, http.StatusOK, request(e, handler, "192.168.1.11:1"))
}

func TestRateLimiter_IndependentInstances(t *testing.T) {
	e := echo.New()
	api := NewRateLimiter(1, 1)
	login := NewLoginRateLimiter(2)

	assert.Equal(t, http.StatusOK, request(e, rateLimitedHandler(api), "10.1.1.1:1"))
	assert.Equal(t, http.StatusOK, request(e, rateLimitedHandler(login), "10.1.1.1:1"))
	assert.Equal(t, http.StatusOK, request(e, rateLimitedHandler(login), "10.1.1.1:1"))
	assert.Equal(t, http.StatusTooManyRequests, request(e, rateLimitedHandler(login), "10.1.1.1:1"))
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		headers    map[string]string
		remoteAddr string
		expected   string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.1, 10.0.0.1"}, "10.0.0.2:1", "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.2"}, "10.0.0.2:1", "203.0.113.2"},
		{"remote addr", nil, "192.168.1.100:12345", "192.168.1.100"},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, clientIP(e.NewContext(req, httptest.NewRecorder())))
		})
	}
}

func TestRateLimiter_Prune(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	start := time.Now()
	rl.now = func() time.Time { return start }

	rl.Allow("stale")
	rl.now = func() time.Time { return start.Add(visitorTTL + time.Second) }
	rl.Allow("fresh")

	rl.prune()
	assert.Equal(t, 1, rl.size())
}

func TestRateLimiter_CleanupStopsWithContext(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		rl.Cleanup(ctx, time.Millisecond)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cleanup did not stop")
	}
}

func TestRateLimiter_Concurrency(t *testing.T) {
	rl := NewRateLimiter(0.001, 50)
	var allowed int64
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("203.0.113.9") {
				atomic.AddInt64(&allowed, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(50), allowed)
}
