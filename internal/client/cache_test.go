package client

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"finance-tracker/internal/dto"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func newCachedTransaction(txType, category, amount, date string) dto.TransactionResponse {
	at := time.Date(2026, 10, 14, 12, 30, 0, 0, time.UTC)
	return dto.TransactionResponse{
		ID:          uuid.New(),
		Description: gofakeit.Sentence(3),
		Amount:      amount,
		Type:        txType,
		Category:    category,
		Date:        date,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
}

type LocalCacheSuite struct {
	suite.Suite
	newStore func(t *testing.T) LocalStore
	store    LocalStore
	cache    *LocalCache
	ctx      context.Context
}

func TestLocalCache_MemoryStore(t *testing.T) {
	suite.Run(t, &LocalCacheSuite{newStore: func(*testing.T) LocalStore { return NewMemoryStore() }})
}

func TestLocalCache_SQLiteStore(t *testing.T) {
	suite.Run(t, &LocalCacheSuite{newStore: func(t *testing.T) LocalStore {
		store, err := NewSQLiteStore(":memory:")
		require.NoError(t, err)
		t.Cleanup(func() { _ = store.Close() })
		return store
	}})
}

func (s *LocalCacheSuite) SetupTest() {
	s.store = s.newStore(s.T())
	s.cache = NewLocalCache(s.store, nil)
	s.ctx = context.Background()
}

func (s *LocalCacheSuite) TestTransactions_RoundTrip() {
	txs := []dto.TransactionResponse{
		newCachedTransaction("income", "Salário", "3000.00", "2026-10-01"),
		newCachedTransaction("expense", "Moradia", "1250.00", "2026-10-05"),
	}
	txs[1].Notes = "aluguel"

	s.Require().NoError(s.cache.SaveLocalTransactions(s.ctx, txs))
	s.Equal(txs, s.cache.GetLocalTransactions(s.ctx))
}

func (s *LocalCacheSuite) TestTransactions_EmptyWhenUnset() {
	txs := s.cache.GetLocalTransactions(s.ctx)
	s.NotNil(txs)
	s.Empty(txs)
}

func (s *LocalCacheSuite) TestTransactions_CorruptEntryIsEmpty() {
	s.Require().NoError(s.store.Set(s.ctx, KeyTransactions, "{not json"))

	txs := s.cache.GetLocalTransactions(s.ctx)
	s.NotNil(txs)
	s.Empty(txs)
}

func (s *LocalCacheSuite) TestAddUpdateDelete() {
	first := newCachedTransaction("expense", "Lazer", "80.00", "2026-10-10")
	second := newCachedTransaction("income", "Freelance", "500.00", "2026-10-11")

	s.Require().NoError(s.cache.AddLocalTransaction(s.ctx, first))
	s.Require().NoError(s.cache.AddLocalTransaction(s.ctx, second))

	txs := s.cache.GetLocalTransactions(s.ctx)
	s.Require().Len(txs, 2)
	s.Equal(first.ID, txs[0].ID)
	s.Equal(second.ID, txs[1].ID)

	first.Amount = "45.00"
	first.Description = "Cinema"
	s.Require().NoError(s.cache.UpdateLocalTransaction(s.ctx, first))
	txs = s.cache.GetLocalTransactions(s.ctx)
	s.Equal("45.00", txs[0].Amount)
	s.Equal("Cinema", txs[0].Description)

	missing := newCachedTransaction("expense", "Lazer", "1.00", "2026-10-10")
	s.ErrorIs(s.cache.UpdateLocalTransaction(s.ctx, missing), ErrTransactionNotCached)

	s.Require().NoError(s.cache.DeleteLocalTransaction(s.ctx, first.ID))
	txs = s.cache.GetLocalTransactions(s.ctx)
	s.Require().Len(txs, 1)
	s.Equal(second.ID, txs[0].ID)

	s.NoError(s.cache.DeleteLocalTransaction(s.ctx, uuid.New()))
	s.Len(s.cache.GetLocalTransactions(s.ctx), 1)

	s.Require().NoError(s.cache.ClearLocalTransactions(s.ctx))
	s.Empty(s.cache.GetLocalTransactions(s.ctx))
}

func (s *LocalCacheSuite) TestProfile() {
	s.Nil(s.cache.GetProfile(s.ctx))

	profile := dto.ProfileResponse{
		ID:       uuid.New(),
		Name:     "Maria Silva",
		Email:    "maria@example.com",
		Position: "Analista",
	}
	s.Require().NoError(s.cache.SaveProfile(s.ctx, profile))

	got := s.cache.GetProfile(s.ctx)
	s.Require().NotNil(got)
	s.Equal(profile.Email, got.Email)
	s.Equal(profile.Position, got.Position)

	s.Require().NoError(s.cache.ClearProfile(s.ctx))
	s.Nil(s.cache.GetProfile(s.ctx))
}

func (s *LocalCacheSuite) TestToken() {
	s.Empty(s.cache.GetToken(s.ctx))

	s.Require().NoError(s.cache.SaveToken(s.ctx, "token-1"))
	s.Require().NoError(s.cache.SaveToken(s.ctx, "token-2"))
	s.Equal("token-2", s.cache.GetToken(s.ctx))

	s.Require().NoError(s.cache.ClearToken(s.ctx))
	s.Empty(s.cache.GetToken(s.ctx))
	s.NoError(s.cache.ClearToken(s.ctx))
}

func (s *LocalCacheSuite) TestTheme() {
	s.Equal(ThemeLight, s.cache.GetTheme(s.ctx))

	s.Require().NoError(s.cache.SaveTheme(s.ctx, ThemeDark))
	s.Equal(ThemeDark, s.cache.GetTheme(s.ctx))

	s.ErrorIs(s.cache.SaveTheme(s.ctx, "sepia"), ErrInvalidTheme)
	s.Equal(ThemeDark, s.cache.GetTheme(s.ctx))
}

func (s *LocalCacheSuite) TestExportImport() {
	txs := []dto.TransactionResponse{
		newCachedTransaction("income", "Salário", "3000.00", "2026-10-01"),
		newCachedTransaction("expense", "Contas", "200.00", "2026-10-03"),
	}
	s.Require().NoError(s.cache.SaveLocalTransactions(s.ctx, txs))

	exported, err := s.cache.ExportJSON(s.ctx)
	s.Require().NoError(err)
	s.Contains(string(exported), "\n  {")

	s.Require().NoError(s.cache.ClearLocalTransactions(s.ctx))

	imported, err := s.cache.ImportJSON(s.ctx, exported)
	s.Require().NoError(err)
	s.Equal(txs, imported)
	s.Equal(txs, s.cache.GetLocalTransactions(s.ctx))
}

func (s *LocalCacheSuite) TestImport_Invalid() {
	original := []dto.TransactionResponse{newCachedTransaction("income", "Salário", "10.00", "2026-10-01")}
	s.Require().NoError(s.cache.SaveLocalTransactions(s.ctx, original))

	_, err := s.cache.ImportJSON(s.ctx, []byte("not json"))
	s.ErrorIs(err, ErrInvalidImport)

	bad := []dto.TransactionResponse{newCachedTransaction("income", "Salário", "abc", "2026-10-01")}
	raw, err := json.Marshal(bad)
	s.Require().NoError(err)
	_, err = s.cache.ImportJSON(s.ctx, raw)
	s.ErrorIs(err, ErrInvalidImport)

	s.Equal(original, s.cache.GetLocalTransactions(s.ctx))
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	path := t.TempDir() + "/local.db"
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(ctx, KeyTheme, ThemeDark))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ThemeDark, value)

	require.NoError(t, reopened.Delete(ctx, KeyTheme))
	_, ok, err = reopened.Get(ctx, KeyTheme)
	require.NoError(t, err)
	assert.False(t, ok)
}
