package dto

import (
	"fmt"
	"strings"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxBulkTransactions caps a single bulk create request.
const MaxBulkTransactions = 500

// CreateTransactionRequest contains the data for a new income or expense.
// Amount must be positive with at most 2 decimal places.
type CreateTransactionRequest struct {
	Description string          `json:"description" validate:"required,notblank,max=255"`
	Amount      decimal.Decimal `json:"amount" validate:"transaction_amount"`
	Type        string          `json:"type" validate:"required,transaction_type"`
	Category    string          `json:"category" validate:"required,notblank,max=100"`
	Date        string          `json:"date" validate:"required,date_ymd"`
	Notes       string          `json:"notes" validate:"omitempty,max=500"`
}

// BulkCreateTransactionsRequest carries several transactions stored all-or-nothing
type BulkCreateTransactionsRequest struct {
	Transactions []CreateTransactionRequest `json:"transactions" validate:"required,min=1,dive"`
}

// UpdateTransactionRequest is a partial update; nil fields keep their stored value.
type UpdateTransactionRequest struct {
	Description *string          `json:"description" validate:"omitempty,max=255"`
	Amount      *decimal.Decimal `json:"amount" validate:"omitempty,transaction_amount"`
	Type        *string          `json:"type" validate:"omitempty,transaction_type"`
	Category    *string          `json:"category" validate:"omitempty,max=100"`
	Date        *string          `json:"date" validate:"omitempty,date_ymd"`
	Notes       *string          `json:"notes" validate:"omitempty,max=500"`
}

// TransactionQuery holds the list and dashboard query filters.
// Dates without a period select a custom window.
type TransactionQuery struct {
	Period    string `query:"period" validate:"omitempty,period"`
	StartDate string `query:"start_date" validate:"omitempty,date_ymd"`
	EndDate   string `query:"end_date" validate:"omitempty,date_ymd"`
	Category  string `query:"category" validate:"omitempty,max=100"`
	Type      string `query:"type" validate:"omitempty,oneof=all income expense"`
}

// TransactionResponse is the wire form of a transaction. Amount is always positive.
type TransactionResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	Date        string    `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ListTransactionsResponse represents the response for listing transactions
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int                   `json:"total"`
}

// ToModel builds an unsaved transaction owned by userID.
func (r *CreateTransactionRequest) ToModel(userID uuid.UUID) (*models.Transaction, error) {
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return nil, err
	}
	return &models.Transaction{
		UserID:      userID,
		Description: strings.TrimSpace(r.Description),
		Amount:      r.Amount,
		Type:        strings.ToLower(strings.TrimSpace(r.Type)),
		Category:    strings.TrimSpace(r.Category),
		Date:        date,
		Notes:       strings.TrimSpace(r.Notes),
	}, nil
}

// IsEmpty reports whether the patch changes nothing.
func (r *UpdateTransactionRequest) IsEmpty() bool {
	return r.Description == nil && r.Amount == nil && r.Type == nil &&
		r.Category == nil && r.Date == nil && r.Notes == nil
}

// Apply merges the patch into tx. The result still has to be validated.
func (r *UpdateTransactionRequest) Apply(tx *models.Transaction) error {
	if r.Description != nil {
		tx.Description = strings.TrimSpace(*r.Description)
	}
	if r.Amount != nil {
		tx.Amount = *r.Amount
	}
	if r.Type != nil {
		tx.Type = strings.ToLower(strings.TrimSpace(*r.Type))
	}
	if r.Category != nil {
		tx.Category = strings.TrimSpace(*r.Category)
	}
	if r.Date != nil {
		date, err := models.ParseDate(*r.Date)
		if err != nil {
			return err
		}
		tx.Date = date
	}
	if r.Notes != nil {
		tx.Notes = strings.TrimSpace(*r.Notes)
	}
	return nil
}

// ToFilter converts the query into a reporting filter.
func (q *TransactionQuery) ToFilter() (reporting.Filter, error) {
	period, err := reporting.ParsePeriod(q.Period)
	if err != nil {
		return reporting.Filter{}, err
	}

	window := reporting.Window{Period: period}
	if q.StartDate != "" || q.EndDate != "" {
		if strings.TrimSpace(q.Period) == "" {
			window.Period = reporting.PeriodCustom
		}
		if q.StartDate != "" {
			start, err := models.ParseDate(q.StartDate)
			if err != nil {
				return reporting.Filter{}, err
			}
			window.Start = &start
		}
		if q.EndDate != "" {
			end, err := models.ParseDate(q.EndDate)
			if err != nil {
				return reporting.Filter{}, err
			}
			window.End = &end
		}
	}

	if err := window.Validate(); err != nil {
		return reporting.Filter{}, err
	}

	return reporting.Filter{
		Window:   window,
		Category: strings.TrimSpace(q.Category),
		Type:     strings.ToLower(strings.TrimSpace(q.Type)),
	}, nil
}

func NewTransactionResponse(tx *models.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:          tx.ID,
		Description: tx.Description,
		Amount:      tx.Amount.StringFixed(2),
		Type:        tx.Type,
		Category:    tx.Category,
		Date:        tx.Date.Format(models.DateLayout),
		Notes:       tx.Notes,
		CreatedAt:   tx.CreatedAt,
		UpdatedAt:   tx.UpdatedAt,
	}
}

// ToModel parses the wire form back into an unowned transaction.
func (r TransactionResponse) ToModel() (models.Transaction, error) {
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("invalid amount %q: %w", r.Amount, err)
	}
	date, err := models.ParseDate(r.Date)
	if err != nil {
		return models.Transaction{}, err
	}
	return models.Transaction{
		ID:          r.ID,
		Description: r.Description,
		Amount:      amount,
		Type:        r.Type,
		Category:    r.Category,
		Date:        date,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}, nil
}

func NewTransactionResponses(txs []models.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, 0, len(txs))
	for i := range txs {
		out = append(out, NewTransactionResponse(&txs[i]))
	}
	return out
}
