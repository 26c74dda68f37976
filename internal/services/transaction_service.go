package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnknownCategory     = errors.New("category is not valid for this transaction type")
	ErrBatchTooLarge       = fmt.Errorf("a bulk request accepts at most %d transactions", dto.MaxBulkTransactions)
	ErrEmptyBatch          = errors.New("a bulk request needs at least one transaction")
	ErrEmptyUpdate         = errors.New("no fields to update")
)

// BatchItemError reports which item of a bulk request was rejected
type BatchItemError struct {
	Index int
	Err   error
}

func (e *BatchItemError) Error() string {
	return fmt.Sprintf("transaction %d: %v", e.Index, e.Err)
}

func (e *BatchItemError) Unwrap() error {
	return e.Err
}

// TransactionService manages the income and expense records of a user
type TransactionService struct {
	repo        repositories.TransactionRepositoryInterface
	categories  CategoryServiceInterface
	auditLogger AuditLoggerInterface
	metrics     MetricsRecorderInterface
	logger      *slog.Logger
	location    *time.Location
	now         func() time.Time
}

// NewTransactionService creates a new transaction service. Relative periods are
// resolved in loc.
func NewTransactionService(
	repo repositories.TransactionRepositoryInterface,
	categories CategoryServiceInterface,
	auditLogger AuditLoggerInterface,
	metrics MetricsRecorderInterface,
	loc *time.Location,
	logger *slog.Logger,
) TransactionServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &TransactionService{
		repo:        repo,
		categories:  categories,
		auditLogger: auditLogger,
		metrics:     metrics,
		logger:      logger,
		location:    loc,
		now:         time.Now,
	}
}

// List returns the user's transactions passing filter, newest first
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, filter reporting.Filter) ([]models.Transaction, error) {
	transactions, _, err := s.repo.GetWithFilters(ctx, repositoryFilters(userID, filter))
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return reporting.Apply(transactions, filter, s.now().In(s.location)), nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// Create validates and stores a single transaction
func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	tx, err := s.prepare(ctx, userID, req)
	if err != nil {
		s.recordOperation("create", "rejected")
		return nil, err
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		s.recordOperation("create", "failed")
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	s.auditLogger.LogTransactionCreated(ctx, userID, tx.ID, tx.Type, tx.Amount.StringFixed(2))
	s.recordOperation("create", "success")
	s.recordAmount(tx)

	return tx, nil
}

// CreateBulk stores every transaction of reqs or none of them
func (s *TransactionService) CreateBulk(ctx context.Context, userID uuid.UUID, reqs []dto.CreateTransactionRequest) ([]models.Transaction, error) {
	if len(reqs) == 0 {
		return nil, ErrEmptyBatch
	}
	if len(reqs) > dto.MaxBulkTransactions {
		s.recordOperation("bulk_create", "rejected")
		return nil, ErrBatchTooLarge
	}

	transactions := make([]models.Transaction, 0, len(reqs))
	for i := range reqs {
		tx, err := s.prepare(ctx, userID, &reqs[i])
		if err != nil {
			s.recordOperation("bulk_create", "rejected")
			return nil, &BatchItemError{Index: i, Err: err}
		}
		transactions = append(transactions, *tx)
	}

	if err := s.repo.CreateBatch(ctx, transactions); err != nil {
		s.recordOperation("bulk_create", "failed")
		return nil, fmt.Errorf("failed to create transactions: %w", err)
	}

	s.auditLogger.LogTransactionsImported(ctx, userID, len(transactions))
	s.recordOperation("bulk_create", "success")
	for i := range transactions {
		s.recordAmount(&transactions[i])
	}

	return transactions, nil
}

// Update merges req into the stored transaction and validates the result
func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := req.Apply(tx); err != nil {
		return nil, err
	}
	if err := s.validate(ctx, tx); err != nil {
		s.recordOperation("update", "rejected")
		return nil, err
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		s.recordOperation("update", "failed")
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.auditLogger.LogTransactionUpdated(ctx, userID, tx.ID)
	s.recordOperation("update", "success")

	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		s.recordOperation("delete", "failed")
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	s.auditLogger.LogTransactionDeleted(ctx, userID, id)
	s.recordOperation("delete", "success")

	return nil
}

func (s *TransactionService) prepare(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error) {
	tx, err := req.ToModel(userID)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) validate(ctx context.Context, tx *models.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	ok, err := s.categories.IsValid(ctx, tx.Type, tx.Category)
	if err != nil {
		return fmt.Errorf("failed to check category: %w", err)
	}
	if !ok {
		return ErrUnknownCategory
	}
	return nil
}

func (s *TransactionService) recordOperation(operation, status string) {
	s.metrics.IncrementCounter(MetricTransactionOperation, map[string]string{
		"operation": operation,
		"status":    status,
	})
}

func (s *TransactionService) recordAmount(tx *models.Transaction) {
	s.metrics.RecordGauge(MetricTransactionAmount, tx.Amount.InexactFloat64(), map[string]string{"type": tx.Type})
}

// repositoryFilters pushes the category and type filters down to the query.
// Date windows depend on the clock and are applied in memory.
func repositoryFilters(userID uuid.UUID, filter reporting.Filter) models.TransactionFilters {
	filters := models.TransactionFilters{UserID: userID}
	if filter.Category != "" && filter.Category != reporting.FilterAll {
		filters.Category = filter.Category
	}
	if filter.Type != "" && filter.Type != reporting.FilterAll {
		filters.Type = filter.Type
	}
	return filters
}
