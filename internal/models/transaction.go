package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"

	// DateLayout is the calendar-date wire format for transaction dates.
	DateLayout = "2006-01-02"

	MaxDescriptionLength = 255
	MaxNotesLength       = 500
	MaxCategoryLength    = 100

	// AmountScale and MaxAmountDigits match the decimal(15,2) amount column.
	AmountScale     = 2
	MaxAmountDigits = 13
)

var (
	ErrInvalidTransactionType   = errors.New("invalid transaction type")
	ErrInvalidAmount            = errors.New("transaction amount must be positive")
	ErrAmountPrecision          = fmt.Errorf("%w with at most %d decimal places", ErrInvalidAmount, AmountScale)
	ErrAmountOutOfRange         = fmt.Errorf("%w and below 10^%d", ErrInvalidAmount, MaxAmountDigits)
	ErrDescriptionRequired      = errors.New("transaction description is required")
	ErrDescriptionTooLong       = errors.New("transaction description too long")
	ErrCategoryRequired         = errors.New("transaction category is required")
	ErrCategoryTooLong          = errors.New("transaction category too long")
	ErrDateRequired             = errors.New("transaction date is required")
	ErrNotesTooLong             = errors.New("transaction notes too long")
	ErrTransactionOwnerRequired = errors.New("transaction owner is required")
)

// Transaction is a single income or expense record owned by a user.
// Amount is always stored as a positive value; Type carries the direction.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Amount      decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type        string          `gorm:"type:varchar(10);not null;index" json:"type"`
	Category    string          `gorm:"type:varchar(100);not null;index" json:"category"`
	Date        time.Time       `gorm:"type:date;not null;index" json:"date"`
	Notes       string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt   time.Time       `gorm:"not null;index" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"not null" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}

	now := time.Now()
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = now
	}

	t.Date = TruncateToDate(t.Date)

	return t.Validate()
}

func (t *Transaction) BeforeUpdate(tx *gorm.DB) error {
	t.UpdatedAt = time.Now()
	t.Date = TruncateToDate(t.Date)
	return t.Validate()
}

func (t *Transaction) Validate() error {
	if t.UserID == uuid.Nil {
		return ErrTransactionOwnerRequired
	}

	if !IsValidTransactionType(t.Type) {
		return ErrInvalidTransactionType
	}

	if err := ValidateAmount(t.Amount); err != nil {
		return err
	}

	description := strings.TrimSpace(t.Description)
	if description == "" {
		return ErrDescriptionRequired
	}
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	category := strings.TrimSpace(t.Category)
	if category == "" {
		return ErrCategoryRequired
	}
	if len(category) > MaxCategoryLength {
		return ErrCategoryTooLong
	}

	if t.Date.IsZero() {
		return ErrDateRequired
	}

	if len(t.Notes) > MaxNotesLength {
		return ErrNotesTooLong
	}

	return nil
}

func (t *Transaction) IsIncome() bool {
	return t.Type == TransactionTypeIncome
}

func (t *Transaction) IsExpense() bool {
	return t.Type == TransactionTypeExpense
}

// SignedAmount returns the amount with the sign implied by Type:
// positive for income, negative for expense.
func (t *Transaction) SignedAmount() decimal.Decimal {
	if t.IsExpense() {
		return t.Amount.Abs().Neg()
	}
	return t.Amount.Abs()
}

func (t *Transaction) TableName() string {
	return "transactions"
}

func IsValidTransactionType(transactionType string) bool {
	switch transactionType {
	case TransactionTypeIncome, TransactionTypeExpense:
		return true
	default:
		return false
	}
}

// TruncateToDate drops the clock part, keeping the calendar day as UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(value), time.UTC)
}

var maxAmount = decimal.New(1, MaxAmountDigits)

// ValidateAmount accepts positive amounts that fit the amount column without rounding.
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if !amount.Equal(amount.Truncate(AmountScale)) {
		return ErrAmountPrecision
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return ErrAmountOutOfRange
	}
	return nil
}
