package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

// DashboardService builds the aggregated views of a user's finances
type DashboardService struct {
	repo     repositories.TransactionRepositoryInterface
	metrics  MetricsRecorderInterface
	logger   *slog.Logger
	location *time.Location
	now      func() time.Time
}

func NewDashboardService(
	repo repositories.TransactionRepositoryInterface,
	metrics MetricsRecorderInterface,
	loc *time.Location,
	logger *slog.Logger,
) DashboardServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardService{
		repo:     repo,
		metrics:  metrics,
		logger:   logger,
		location: loc,
		now:      time.Now,
	}
}

// Summary filters the user's transactions and totals what remains
func (s *DashboardService) Summary(ctx context.Context, userID uuid.UUID, filter reporting.Filter) (reporting.Report, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordProcessingTime(MetricDashboardDuration, time.Since(start))
	}()

	transactions, err := s.load(ctx, userID)
	if err != nil {
		return reporting.Report{}, err
	}

	report := reporting.Build(transactions, filter, s.now().In(s.location))

	s.logger.DebugContext(ctx, "dashboard summary built",
		"user_id", userID,
		"period", filter.Window.Period,
		"transactions", len(report.Transactions))

	return report, nil
}

// Monthly summarizes the current calendar month and returns its first day
func (s *DashboardService) Monthly(ctx context.Context, userID uuid.UUID) (reporting.Summary, time.Time, error) {
	start := time.Now()
	defer func() {
		s.metrics.RecordProcessingTime(MetricDashboardDuration, time.Since(start))
	}()

	transactions, err := s.load(ctx, userID)
	if err != nil {
		return reporting.Summary{}, time.Time{}, err
	}

	now := s.now().In(s.location)
	month := reporting.Window{Period: reporting.PeriodMonth}
	report := reporting.Build(transactions, reporting.Filter{Window: month}, now)

	return report.Summary, *report.Range.Start, nil
}

func (s *DashboardService) load(ctx context.Context, userID uuid.UUID) ([]models.Transaction, error) {
	transactions, _, err := s.repo.GetWithFilters(ctx, models.TransactionFilters{UserID: userID})
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}
	return transactions, nil
}
