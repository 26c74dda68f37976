package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"finance-tracker/internal/dto"

	"github.com/google/uuid"
)

const (
	KeyTransactions = "financeai_transactions"
	KeyProfile      = "financeai_profile"
	KeyToken        = "authToken"
	KeyTheme        = "theme"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

var (
	ErrTransactionNotCached = errors.New("transaction not found in local cache")
	ErrInvalidTheme         = errors.New("theme must be light or dark")
	ErrInvalidImport        = errors.New("invalid JSON file format")
)

// LocalCache stores the client's transactions, profile, token and theme in a LocalStore.
// Reads never fail: unreadable values are logged and treated as absent.
type LocalCache struct {
	store  LocalStore
	logger *slog.Logger
}

func NewLocalCache(store LocalStore, logger *slog.Logger) *LocalCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalCache{store: store, logger: logger}
}

func (c *LocalCache) readJSON(ctx context.Context, key string, out any) bool {
	raw, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.logger.Error("failed to read local cache", "key", key, "error", err)
		return false
	}
	if !ok || raw == "" {
		return false
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		c.logger.Error("corrupt local cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (c *LocalCache) writeJSON(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return c.store.Set(ctx, key, string(raw))
}

// GetLocalTransactions returns the cached list, or an empty list.
func (c *LocalCache) GetLocalTransactions(ctx context.Context) []dto.TransactionResponse {
	var txs []dto.TransactionResponse
	if !c.readJSON(ctx, KeyTransactions, &txs) || txs == nil {
		return []dto.TransactionResponse{}
	}
	return txs
}

func (c *LocalCache) SaveLocalTransactions(ctx context.Context, txs []dto.TransactionResponse) error {
	if txs == nil {
		txs = []dto.TransactionResponse{}
	}
	return c.writeJSON(ctx, KeyTransactions, txs)
}

// AddLocalTransaction appends tx to the cached list.
func (c *LocalCache) AddLocalTransaction(ctx context.Context, tx dto.TransactionResponse) error {
	return c.SaveLocalTransactions(ctx, append(c.GetLocalTransactions(ctx), tx))
}

// UpdateLocalTransaction replaces the cached transaction with the same id.
func (c *LocalCache) UpdateLocalTransaction(ctx context.Context, tx dto.TransactionResponse) error {
	txs := c.GetLocalTransactions(ctx)
	for i := range txs {
		if txs[i].ID == tx.ID {
			txs[i] = tx
			return c.SaveLocalTransactions(ctx, txs)
		}
	}
	return ErrTransactionNotCached
}

// DeleteLocalTransaction removes id from the cache. Missing ids are not an error.
func (c *LocalCache) DeleteLocalTransaction(ctx context.Context, id uuid.UUID) error {
	txs := c.GetLocalTransactions(ctx)
	kept := txs[:0]
	for _, tx := range txs {
		if tx.ID != id {
			kept = append(kept, tx)
		}
	}
	return c.SaveLocalTransactions(ctx, kept)
}

func (c *LocalCache) ClearLocalTransactions(ctx context.Context) error {
	return c.store.Delete(ctx, KeyTransactions)
}

// GetProfile returns the cached profile, or nil.
func (c *LocalCache) GetProfile(ctx context.Context) *dto.ProfileResponse {
	var profile dto.ProfileResponse
	if !c.readJSON(ctx, KeyProfile, &profile) {
		return nil
	}
	return &profile
}

func (c *LocalCache) SaveProfile(ctx context.Context, profile dto.ProfileResponse) error {
	return c.writeJSON(ctx, KeyProfile, profile)
}

func (c *LocalCache) ClearProfile(ctx context.Context) error {
	return c.store.Delete(ctx, KeyProfile)
}

// GetToken returns the stored session token, or "".
func (c *LocalCache) GetToken(ctx context.Context) string {
	token, _, err := c.store.Get(ctx, KeyToken)
	if err != nil {
		c.logger.Error("failed to read session token", "error", err)
		return ""
	}
	return token
}

func (c *LocalCache) SaveToken(ctx context.Context, token string) error {
	return c.store.Set(ctx, KeyToken, token)
}

func (c *LocalCache) ClearToken(ctx context.Context) error {
	return c.store.Delete(ctx, KeyToken)
}

// GetTheme returns the stored theme, light when unset or unknown.
func (c *LocalCache) GetTheme(ctx context.Context) string {
	theme, _, err := c.store.Get(ctx, KeyTheme)
	if err != nil {
		c.logger.Error("failed to read theme", "error", err)
	}
	if theme != ThemeDark {
		return ThemeLight
	}
	return theme
}

func (c *LocalCache) SaveTheme(ctx context.Context, theme string) error {
	if theme != ThemeLight && theme != ThemeDark {
		return ErrInvalidTheme
	}
	return c.store.Set(ctx, KeyTheme, theme)
}

// ExportJSON renders the cached transactions as indented JSON.
func (c *LocalCache) ExportJSON(ctx context.Context) ([]byte, error) {
	return json.MarshalIndent(c.GetLocalTransactions(ctx), "", "  ")
}

// ImportJSON parses an exported transaction list and replaces the cache with it.
func (c *LocalCache) ImportJSON(ctx context.Context, data []byte) ([]dto.TransactionResponse, error) {
	var txs []dto.TransactionResponse
	if err := json.Unmarshal(data, &txs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	for i := range txs {
		if _, err := txs[i].ToModel(); err != nil {
			return nil, fmt.Errorf("%w: transaction %d: %v", ErrInvalidImport, i, err)
		}
	}
	if err := c.SaveLocalTransactions(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}
