package client

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"finance-tracker/internal/assistant"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"

	"github.com/google/uuid"
)

// Backend is the subset of the REST API the State drives.
type Backend interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (*dto.ProfileResponse, error)
	Categories(ctx context.Context) (models.CategorySet, error)
	ListTransactions(ctx context.Context, q dto.TransactionQuery) ([]dto.TransactionResponse, error)
	CreateTransaction(ctx context.Context, req dto.CreateTransactionRequest) (*dto.TransactionResponse, error)
	UpdateTransaction(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (*dto.TransactionResponse, error)
	DeleteTransaction(ctx context.Context, id uuid.UUID) error
}

// State is the client-side view of the user's data: the transaction list,
// the category set and the profile, mirrored into a LocalCache.
type State struct {
	mu           sync.RWMutex
	backend      Backend
	cache        *LocalCache
	assistant    *assistant.Assistant
	logger       *slog.Logger
	now          func() time.Time
	transactions []dto.TransactionResponse
	categories   models.CategorySet
	profile      *dto.ProfileResponse
}

type StateOption func(*State)

// WithClock overrides the clock used for windows and the assistant.
func WithClock(now func() time.Time) StateOption {
	return func(s *State) {
		s.now = now
	}
}

func WithAssistant(a *assistant.Assistant) StateOption {
	return func(s *State) {
		s.assistant = a
	}
}

func NewState(backend Backend, cache *LocalCache, logger *slog.Logger, opts ...StateOption) *State {
	if logger == nil {
		logger = slog.Default()
	}
	s := &State{
		backend:      backend,
		cache:        cache,
		assistant:    assistant.New(),
		logger:       logger,
		now:          time.Now,
		transactions: []dto.TransactionResponse{},
		categories:   emptyCategories(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func emptyCategories() models.CategorySet {
	return models.CategorySet{Income: []string{}, Expense: []string{}}
}

// Restore loads the cached transactions and profile into memory.
func (s *State) Restore(ctx context.Context) {
	txs := s.cache.GetLocalTransactions(ctx)
	profile := s.cache.GetProfile(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = txs
	s.profile = profile
}

// IsAuthenticated reports whether a session token is stored.
func (s *State) IsAuthenticated(ctx context.Context) bool {
	return s.cache.GetToken(ctx) != ""
}

// Login authenticates, stores the token and profile, then refreshes the data.
func (s *State) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	resp, err := s.backend.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SaveToken(ctx, resp.AccessToken); err != nil {
		return nil, err
	}

	if profile, err := s.backend.Profile(ctx); err != nil {
		s.logger.Warn("failed to load profile after login", "error", err)
	} else {
		if err := s.cache.SaveProfile(ctx, *profile); err != nil {
			s.logger.Warn("failed to cache profile", "error", err)
		}
		s.mu.Lock()
		s.profile = profile
		s.mu.Unlock()
	}

	s.Refresh(ctx)
	return resp, nil
}

// Logout ends the session and drops everything cached for the user.
func (s *State) Logout(ctx context.Context) {
	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("logout request failed", "error", err)
	}

	s.clearSession(ctx)
	if err := s.cache.ClearLocalTransactions(ctx); err != nil {
		s.logger.Warn("failed to clear cached transactions", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.transactions = []dto.TransactionResponse{}
}

func (s *State) clearSession(ctx context.Context) {
	if err := s.cache.ClearToken(ctx); err != nil {
		s.logger.Warn("failed to clear session token", "error", err)
	}
	if err := s.cache.ClearProfile(ctx); err != nil {
		s.logger.Warn("failed to clear cached profile", "error", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = nil
}

// checkAuth drops the session when err is an auth failure.
func (s *State) checkAuth(ctx context.Context, err error) error {
	if errors.Is(err, ErrUnauthorized) {
		s.logger.Info("session rejected by server, clearing token")
		s.clearSession(ctx)
	}
	return err
}

// Refresh reloads categories and transactions from the server. Failures are
// logged: categories fall back to an empty set and the transaction list is kept.
func (s *State) Refresh(ctx context.Context) {
	categories, err := s.backend.Categories(ctx)
	if err != nil {
		s.logger.Error("failed to load categories", "error", s.checkAuth(ctx, err))
		categories = emptyCategories()
	}
	if categories.Income == nil {
		categories.Income = []string{}
	}
	if categories.Expense == nil {
		categories.Expense = []string{}
	}

	s.mu.Lock()
	s.categories = categories
	s.mu.Unlock()

	txs, err := s.backend.ListTransactions(ctx, dto.TransactionQuery{})
	if err != nil {
		s.logger.Error("failed to load transactions", "error", s.checkAuth(ctx, err))
		return
	}
	if txs == nil {
		txs = []dto.TransactionResponse{}
	}

	s.mu.Lock()
	s.transactions = txs
	s.mu.Unlock()

	if err := s.cache.SaveLocalTransactions(ctx, txs); err != nil {
		s.logger.Warn("failed to cache transactions", "error", err)
	}
}

// AddTransaction creates the transaction on the server, then appends it locally.
func (s *State) AddTransaction(ctx context.Context, req dto.CreateTransactionRequest) (dto.TransactionResponse, error) {
	created, err := s.backend.CreateTransaction(ctx, req)
	if err != nil {
		return dto.TransactionResponse{}, s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	s.transactions = append(s.transactions, *created)
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.SaveLocalTransactions(ctx, snapshot); err != nil {
		s.logger.Warn("failed to cache transactions", "error", err)
	}
	return *created, nil
}

// UpdateTransaction patches the transaction on the server, then replaces it
// locally. A transaction missing from the local list is appended.
func (s *State) UpdateTransaction(ctx context.Context, id uuid.UUID, req dto.UpdateTransactionRequest) (dto.TransactionResponse, error) {
	updated, err := s.backend.UpdateTransaction(ctx, id, req)
	if err != nil {
		return dto.TransactionResponse{}, s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	found := false
	for i := range s.transactions {
		if s.transactions[i].ID == id {
			s.transactions[i] = *updated
			found = true
			break
		}
	}
	if !found {
		s.logger.Warn("updated transaction was not loaded locally", "id", id)
		s.transactions = append(s.transactions, *updated)
	}
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	if err := s.cache.SaveLocalTransactions(ctx, snapshot); err != nil {
		s.logger.Warn("failed to cache transactions", "id", id, "error", err)
	}
	return *updated, nil
}

// DeleteTransaction deletes on the server, then removes the transaction locally.
func (s *State) DeleteTransaction(ctx context.Context, id uuid.UUID) error {
	if err := s.backend.DeleteTransaction(ctx, id); err != nil {
		return s.checkAuth(ctx, err)
	}

	s.mu.Lock()
	kept := s.transactions[:0]
	for _, tx := range s.transactions {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	s.transactions = kept
	s.mu.Unlock()

	if err := s.cache.DeleteLocalTransaction(ctx, id); err != nil {
		s.logger.Warn("failed to delete cached transaction", "id", id, "error", err)
	}
	return nil
}

// ClearTransactions empties the local list without touching the server.
func (s *State) ClearTransactions(ctx context.Context) error {
	s.mu.Lock()
	s.transactions = []dto.TransactionResponse{}
	s.mu.Unlock()

	return s.cache.SaveLocalTransactions(ctx, []dto.TransactionResponse{})
}

func (s *State) snapshotLocked() []dto.TransactionResponse {
	out := make([]dto.TransactionResponse, len(s.transactions))
	copy(out, s.transactions)
	return out
}

// Transactions returns a copy of the in-memory list.
func (s *State) Transactions() []dto.TransactionResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *State) Categories() models.CategorySet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.CategorySet{
		Income:  append([]string{}, s.categories.Income...),
		Expense: append([]string{}, s.categories.Expense...),
	}
}

func (s *State) Profile() *dto.ProfileResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// parsed converts the list for aggregation, skipping entries that do not parse.
func (s *State) parsed() []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		m, err := tx.ToModel()
		if err != nil {
			s.logger.Warn("skipping unreadable transaction", "id", tx.ID, "error", err)
			continue
		}
		out = append(out, m)
	}
	return out
}

// Summary aggregates the whole in-memory list.
func (s *State) Summary() reporting.Summary {
	return reporting.Summarize(s.parsed())
}

// Filter returns the transactions matching q, in list order.
func (s *State) Filter(q dto.TransactionQuery) ([]dto.TransactionResponse, error) {
	filter, err := q.ToFilter()
	if err != nil {
		return nil, err
	}
	return dto.NewTransactionResponses(reporting.Apply(s.parsed(), filter, s.now())), nil
}

// Report builds the dashboard view for q from the local list.
func (s *State) Report(q dto.TransactionQuery) (reporting.Report, error) {
	filter, err := q.ToFilter()
	if err != nil {
		return reporting.Report{}, err
	}
	return reporting.Build(s.parsed(), filter, s.now()), nil
}

// Ask answers a chat query from the local list without calling the server.
func (s *State) Ask(query string) assistant.Answer {
	return s.assistant.Reply(query, assistant.FactsFrom(s.parsed(), s.now()))
}
