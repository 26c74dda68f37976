package repositories

import (
	"context"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// UserRepositoryInterface defines the contract for user repository operations
type UserRepositoryInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByEmailExcluding(ctx context.Context, email string, excludeUserID uuid.UUID) (*models.User, error)
	UpdateFields(ctx context.Context, userID uuid.UUID, fields map[string]interface{}) error
	UpdateLoginState(ctx context.Context, user *models.User) error
}

// TransactionRepositoryInterface defines the contract for transaction repository operations.
// Every read and write is scoped to the owning user.
type TransactionRepositoryInterface interface {
	Create(ctx context.Context, transaction *models.Transaction) error
	CreateBatch(ctx context.Context, transactions []models.Transaction) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error)
	GetWithFilters(ctx context.Context, filters models.TransactionFilters) ([]models.Transaction, int64, error)
	Update(ctx context.Context, transaction *models.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

// CategoryRepositoryInterface defines the contract for the category taxonomy
type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]models.Category, error)
	EnsureDefaults(ctx context.Context, categories []models.Category) (int64, error)
}

// AuditLogRepositoryInterface defines the contract for audit log repository operations
type AuditLogRepositoryInterface interface {
	Create(ctx context.Context, log *models.AuditLog) error
	GetByUserID(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error)
}

// ChatMessageRepositoryInterface stores assistant conversations
type ChatMessageRepositoryInterface interface {
	Create(ctx context.Context, messages ...*models.ChatMessage) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error)
}
