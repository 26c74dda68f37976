package services

import (
	"context"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"

	"github.com/google/uuid"
)

type AuthServiceInterface interface {
	Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error)
	Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error)
	Logout(ctx context.Context, userID *uuid.UUID, ipAddress, userAgent string)
}

type TokenServiceInterface interface {
	GenerateAccessToken(user *models.User) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*models.CustomClaims, error)
	ExtractTokenFromHeader(authHeader string) (string, error)
}

type PasswordServiceInterface interface {
	ValidatePassword(password string) error
	HashPassword(password string) (string, error)
	ComparePassword(password, hash string) bool
}

// TransactionServiceInterface defines the income/expense operations of a single user
type TransactionServiceInterface interface {
	List(ctx context.Context, userID uuid.UUID, filter reporting.Filter) ([]models.Transaction, error)
	Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateTransactionRequest) (*models.Transaction, error)
	CreateBulk(ctx context.Context, userID uuid.UUID, reqs []dto.CreateTransactionRequest) ([]models.Transaction, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateTransactionRequest) (*models.Transaction, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CategoryServiceInterface exposes the category taxonomy
type CategoryServiceInterface interface {
	GetCategories(ctx context.Context) (models.CategorySet, error)
	IsValid(ctx context.Context, transactionType, name string) (bool, error)
	EnsureDefaults(ctx context.Context) (int64, error)
}

// DashboardServiceInterface aggregates a user's transactions
type DashboardServiceInterface interface {
	Summary(ctx context.Context, userID uuid.UUID, filter reporting.Filter) (reporting.Report, error)
	Monthly(ctx context.Context, userID uuid.UUID) (reporting.Summary, time.Time, error)
}

// ChatServiceInterface answers questions about a user's finances and keeps the conversation
type ChatServiceInterface interface {
	Ask(ctx context.Context, userID uuid.UUID, message string) (*models.ChatMessage, error)
	History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error)
	ClearHistory(ctx context.Context, userID uuid.UUID) error
}

type ProfileServiceInterface interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error)
	GetProfileByEmail(ctx context.Context, userID uuid.UUID, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error)
	GetActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}

// AuditServiceInterface defines the contract for audit logging operations
type AuditServiceInterface interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	GetUserActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
	LogRegister(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogLogin(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogLogout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogFailedLogin(ctx context.Context, userID *uuid.UUID, email, reason, ipAddress, userAgent string) error
	LogAccountLocked(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error
	LogProfileUpdate(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string, changes map[string]interface{}) error
	LogEmailUpdate(ctx context.Context, userID uuid.UUID, oldEmail, newEmail, ipAddress, userAgent string) error
}

type MetricsRecorderInterface interface {
	IncrementCounter(name string, tags map[string]string)
	RecordProcessingTime(name string, duration time.Duration)
	RecordGauge(name string, value float64, tags map[string]string)
}

type AuditLoggerInterface interface {
	LogUserRegistered(ctx context.Context, userID uuid.UUID, email string)
	LogLoginSucceeded(ctx context.Context, userID uuid.UUID)
	LogLoginFailed(ctx context.Context, email, reason string)
	LogAccountLocked(ctx context.Context, userID uuid.UUID, failedAttempts int)
	LogTransactionCreated(ctx context.Context, userID, transactionID uuid.UUID, transactionType, amount string)
	LogTransactionsImported(ctx context.Context, userID uuid.UUID, count int)
	LogTransactionUpdated(ctx context.Context, userID, transactionID uuid.UUID)
	LogTransactionDeleted(ctx context.Context, userID, transactionID uuid.UUID)
	LogChatAnswered(ctx context.Context, userID uuid.UUID, intent string, durationMs int64)
	LogProfileUpdated(ctx context.Context, userID uuid.UUID, fields []string)
}
