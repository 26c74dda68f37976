package repositories

import (
	"context"
	"fmt"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type chatMessageRepository struct {
	db *gorm.DB
}

func NewChatMessageRepository(db *gorm.DB) ChatMessageRepositoryInterface {
	return &chatMessageRepository{
		db: db,
	}
}

// Create stores the messages of one exchange atomically.
func (r *chatMessageRepository) Create(ctx context.Context, messages ...*models.ChatMessage) error {
	if len(messages) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, message := range messages {
			if err := tx.Create(message).Error; err != nil {
				return fmt.Errorf("failed to create chat message: %w", err)
			}
		}
		return nil
	})
}

// ListByUser returns the latest limit messages in chronological order.
func (r *chatMessageRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage

	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (r *chatMessageRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.ChatMessage{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to clear chat history: %w", result.Error)
	}
	return result.RowsAffected, nil
}
