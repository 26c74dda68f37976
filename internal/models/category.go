package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidCategory = errors.New("invalid category")

// Category is one label of the income or expense taxonomy.
// Position keeps the configured display order.
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_categories_name_type" json:"name"`
	Type      string    `gorm:"type:varchar(10);not null;uniqueIndex:idx_categories_name_type" json:"type"`
	Position  int       `gorm:"not null;default:0" json:"position"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if strings.TrimSpace(c.Name) == "" || !IsValidTransactionType(c.Type) {
		return ErrInvalidCategory
	}
	return nil
}

func (c *Category) TableName() string {
	return "categories"
}

// CategorySet is the ordered taxonomy returned to clients.
type CategorySet struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}

// Contains reports whether name is a category of the given transaction type.
func (s CategorySet) Contains(transactionType, name string) bool {
	var labels []string
	switch transactionType {
	case TransactionTypeIncome:
		labels = s.Income
	case TransactionTypeExpense:
		labels = s.Expense
	default:
		return false
	}
	for _, label := range labels {
		if label == name {
			return true
		}
	}
	return false
}

// DefaultIncomeCategories and DefaultExpenseCategories seed an empty database.
var (
	DefaultIncomeCategories = []string{"Salário", "Freelance", "Investimentos", "Outros"}

	DefaultExpenseCategories = []string{
		"Alimentação",
		"Moradia",
		"Transporte",
		"Lazer",
		"Saúde",
		"Educação",
		"Contas",
		"Mercearia",
		"Outros",
	}
)

// DefaultCategories returns the seed taxonomy as rows.
func DefaultCategories() []Category {
	categories := make([]Category, 0, len(DefaultIncomeCategories)+len(DefaultExpenseCategories))
	for i, name := range DefaultIncomeCategories {
		categories = append(categories, Category{Name: name, Type: TransactionTypeIncome, Position: i})
	}
	for i, name := range DefaultExpenseCategories {
		categories = append(categories, Category{Name: name, Type: TransactionTypeExpense, Position: i})
	}
	return categories
}
