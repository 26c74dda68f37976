package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"golang.org/x/sync/singleflight"
)

// DefaultCategoryCacheTTL bounds how long a loaded taxonomy is served from memory.
const DefaultCategoryCacheTTL = 5 * time.Minute

const categoriesKey = "categories"

// CategoryService serves the category taxonomy from the database with a short-lived cache.
// Concurrent cache misses share a single database read.
type CategoryService struct {
	repo     repositories.CategoryRepositoryInterface
	logger   *slog.Logger
	ttl      time.Duration
	now      func() time.Time
	group    singleflight.Group
	mu       sync.RWMutex
	cached   *models.CategorySet
	loadedAt time.Time
}

// NewCategoryService creates a new CategoryServiceInterface instance
func NewCategoryService(repo repositories.CategoryRepositoryInterface, ttl time.Duration, logger *slog.Logger) CategoryServiceInterface {
	if ttl <= 0 {
		ttl = DefaultCategoryCacheTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{
		repo:   repo,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// GetCategories returns the income and expense labels in display order.
// An empty table falls back to the built-in defaults.
func (s *CategoryService) GetCategories(ctx context.Context) (models.CategorySet, error) {
	if set, ok := s.fromCache(); ok {
		return set, nil
	}

	v, err, _ := s.group.Do(categoriesKey, func() (interface{}, error) {
		return s.load(ctx)
	})
	if err != nil {
		return models.CategorySet{}, err
	}

	return cloneSet(v.(models.CategorySet)), nil
}

// IsValid reports whether name is a category of transactionType
func (s *CategoryService) IsValid(ctx context.Context, transactionType, name string) (bool, error) {
	set, err := s.GetCategories(ctx)
	if err != nil {
		return false, err
	}
	return set.Contains(transactionType, name), nil
}

// EnsureDefaults seeds missing default categories and drops the cache
func (s *CategoryService) EnsureDefaults(ctx context.Context) (int64, error) {
	inserted, err := s.repo.EnsureDefaults(ctx, models.DefaultCategories())
	if err != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", err)
	}

	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()

	if inserted > 0 {
		s.logger.InfoContext(ctx, "seeded default categories", "inserted", inserted)
	}

	return inserted, nil
}

func (s *CategoryService) fromCache() (models.CategorySet, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.cached == nil || s.now().Sub(s.loadedAt) >= s.ttl {
		return models.CategorySet{}, false
	}
	return cloneSet(*s.cached), true
}

func (s *CategoryService) load(ctx context.Context) (models.CategorySet, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return models.CategorySet{}, fmt.Errorf("failed to load categories: %w", err)
	}

	set := models.CategorySet{Income: []string{}, Expense: []string{}}
	for _, c := range categories {
		switch c.Type {
		case models.TransactionTypeIncome:
			set.Income = append(set.Income, c.Name)
		case models.TransactionTypeExpense:
			set.Expense = append(set.Expense, c.Name)
		}
	}

	if len(set.Income) == 0 && len(set.Expense) == 0 {
		s.logger.WarnContext(ctx, "category table is empty, serving defaults")
		set = models.CategorySet{
			Income:  append([]string(nil), models.DefaultIncomeCategories...),
			Expense: append([]string(nil), models.DefaultExpenseCategories...),
		}
	}

	s.mu.Lock()
	s.cached = &set
	s.loadedAt = s.now()
	s.mu.Unlock()

	return set, nil
}

func cloneSet(set models.CategorySet) models.CategorySet {
	return models.CategorySet{
		Income:  append([]string{}, set.Income...),
		Expense: append([]string{}, set.Expense...),
	}
}
