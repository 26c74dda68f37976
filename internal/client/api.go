package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"finance-tracker/internal/dto"
	apperrors "finance-tracker/internal/errors"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// ErrUnauthorized is returned for 401 and 403 responses.
var ErrUnauthorized = errors.New("session is missing or no longer valid")

const defaultTimeout = 10 * time.Second

// APIError is a non-auth error envelope returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details []string
	TraceID string
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("%s (%d): %s: %s", e.Code, e.Status, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("%s (%d): %s", e.Code, e.Status, e.Message)
}

// TokenSource yields the bearer token for an outgoing request, or "".
type TokenSource func(ctx context.Context) string

type authTransport struct {
	token TokenSource
	base  http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())

	if t.token != nil {
		if token := t.token(req.Context()); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("Accept", "application/json")
	if req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return t.base.RoundTrip(req)
}

// APIClient talks to the finance tracker REST API.
type APIClient struct {
	baseURL string
	client  *http.Client
	breaker *breaker
	logger  *slog.Logger
}

type APIOption func(*apiOptions)

type apiOptions struct {
	transport http.RoundTripper
	logger    *slog.Logger
	breaker   BreakerConfig
}

// WithTransport replaces http.DefaultTransport as the base round tripper.
func WithTransport(rt http.RoundTripper) APIOption {
	return func(o *apiOptions) {
		o.transport = rt
	}
}

func WithLogger(logger *slog.Logger) APIOption {
	return func(o *apiOptions) {
		o.logger = logger
	}
}

func WithBreaker(config BreakerConfig) APIOption {
	return func(o *apiOptions) {
		o.breaker = config
	}
}

func NewAPIClient(baseURL string, token TokenSource, opts ...APIOption) *APIClient {
	o := apiOptions{
		transport: http.DefaultTransport,
		logger:    slog.Default(),
		breaker:   DefaultBreakerConfig(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Transport: &authTransport{token: token, base: o.transport},
			Timeout:   defaultTimeout,
		},
		breaker: newBreaker(o.breaker),
		logger:  o.logger,
	}
}

func (c *APIClient) buildRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	return req, nil
}

// do sends the request and decodes a 2xx body into out when out is not nil.
func (c *APIClient) do(ctx context.Context, method, path string, body, out any) error {
	req, err := c.buildRequest(ctx, method, path, body)
	if err != nil {
		return err
	}

	if !c.breaker.allow() {
		return ErrServerUnavailable
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.breaker.failure()
		c.logger.Error("api request failed",
			"method", method,
			"path", path,
			"error", err,
		)
		return err
	}

	payload, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		c.breaker.failure()
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusInternalServerError {
		c.breaker.failure()
		if state := c.breaker.current(); state == breakerOpen {
			c.logger.Warn("api circuit opened", "status", resp.StatusCode)
		}
	} else {
		c.breaker.success()
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil || len(payload) == 0 {
			return nil
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", method, path, err)
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		apiErr := decodeAPIError(resp.StatusCode, payload)
		c.logger.Warn("api request rejected",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"code", apiErr.Code,
		)
		return fmt.Errorf("%w: %s", ErrUnauthorized, apiErr.Message)

	default:
		apiErr := decodeAPIError(resp.StatusCode, payload)
		c.logger.Error("api error response",
			"method", method,
			"path", path,
			"status", resp.StatusCode,
			"code", apiErr.Code,
			"trace_id", apiErr.TraceID,
		)
		return apiErr
	}
}

func decodeAPIError(status int, payload []byte) *APIError {
	var envelope apperrors.ErrorResponse
	if err := json.Unmarshal(payload, &envelope); err != nil || envelope.Error.Code == "" {
		return &APIError{
			Status:  status,
			Code:    string(apperrors.SystemUnexpectedError),
			Message: strings.TrimSpace(string(payload)),
		}
	}

	return &APIError{
		Status:  status,
		Code:    envelope.Error.Code,
		Message: envelope.Error.Message,
		Details: envelope.Error.Details,
		TraceID: envelope.Error.TraceID,
	}
}

func (c *APIClient) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var resp dto.LoginResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/user/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Register(ctx context.Context, req dto.RegisterRequest) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodPost, "/user/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/user/logout", nil, nil)
}

func (c *APIClient) Profile(ctx context.Context) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) UpdateProfile(ctx context.Context, req dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	var resp dto.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/user/profile", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Categories(ctx context.Context) (models.CategorySet, error) {
	var set models.CategorySet
	if err := c.do(ctx, http.MethodGet, "/categories", nil, &set); err != nil {
		return models.CategorySet{}, err
	}
	return set, nil
}

// ListTransactions fetches the caller's transactions matching q.
func (c *APIClient) ListTransactions(ctx context.Context, q dto.TransactionQuery) ([]dto.TransactionResponse, error) {
	var resp dto.ListTransactionsResponse
	if err := c.do(ctx, http.MethodGet, "/transactions"+encodeQuery(q), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *APIClient) CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPost, "/transactions", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) BulkCreateTransactions(ctx context.Context, reqs []dto.CreateTransactionRequest) ([]dto.TransactionResponse, error) {
	var resp dto.ListTransactionsResponse
	body := dto.BulkCreateTransactionsRequest{Transactions: reqs}
	if err := c.do(ctx, http.MethodPost, "/transactions/bulk", body, &resp); err != nil {
		return nil, err
	}
	return resp.Transactions, nil
}

func (c *APIClient) UpdateTransaction(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error) {
	var resp dto.TransactionResponse
	if err := c.do(ctx, http.MethodPut, "/transactions/"+id.String(), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/transactions/"+id.String(), nil, nil)
}

func (c *APIClient) Dashboard(ctx context.Context, q dto.TransactionQuery) (*dto.DashboardResponse, error) {
	var resp dto.DashboardResponse
	if err := c.do(ctx, http.MethodGet, "/dashboard/summary"+encodeQuery(q), nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *APIClient) Chat(ctx context.Context, message string) (*dto.ChatResponse, error) {
	var resp dto.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", dto.ChatRequest{Message: message}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func encodeQuery(q dto.TransactionQuery) string {
	values := url.Values{}
	set := func(key, value string) {
		if value != "" {
			values.Set(key, value)
		}
	}
	set("period", q.Period)
	set("start_date", q.StartDate)
	set("end_date", q.EndDate)
	set("category", q.Category)
	set("type", q.Type)

	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}
