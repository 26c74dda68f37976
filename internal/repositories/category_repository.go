package repositories

import (
	"context"
	"fmt"

	"finance-tracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &categoryRepository{
		db: db,
	}
}

// List returns every category ordered by type, then configured position.
func (r *categoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).
		Order("type ASC").
		Order("position ASC").
		Order("name ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// EnsureDefaults inserts the given categories, skipping (name, type) pairs that already exist.
// It returns the number of rows actually inserted.
func (r *categoryRepository) EnsureDefaults(ctx context.Context, categories []models.Category) (int64, error) {
	if len(categories) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}, {Name: "type"}},
			DoNothing: true,
		}).
		Create(&categories)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to seed categories: %w", result.Error)
	}
	return result.RowsAffected, nil
}
