package dto

import (
	"testing"
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionResponse_ToModel(t *testing.T) {
	date, err := models.ParseDate("2026-10-14")
	require.NoError(t, err)
	at := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

	original := models.Transaction{
		ID:          uuid.New(),
		Description: "Feira",
		Amount:      decimal.RequireFromString("42.50"),
		Type:        models.TransactionTypeExpense,
		Category:    "Mercearia",
		Date:        date,
		Notes:       "sábado",
		CreatedAt:   at,
		UpdatedAt:   at,
	}

	resp := NewTransactionResponse(&original)
	assert.Equal(t, "42.50", resp.Amount)
	assert.Equal(t, "2026-10-14", resp.Date)

	back, err := resp.ToModel()
	require.NoError(t, err)
	assert.Equal(t, original.ID, back.ID)
	assert.True(t, original.Amount.Equal(back.Amount))
	assert.True(t, original.Date.Equal(back.Date))
	assert.Equal(t, original.Notes, back.Notes)
	assert.True(t, back.SignedAmount().IsNegative())
}

func TestTransactionResponse_ToModelInvalid(t *testing.T) {
	_, err := TransactionResponse{Amount: "R$ 10", Date: "2026-10-14"}.ToModel()
	assert.ErrorContains(t, err, "invalid amount")

	_, err = TransactionResponse{Amount: "10.00", Date: "14/10/2026"}.ToModel()
	assert.Error(t, err)
}

func TestTransactionQuery_ToFilter(t *testing.T) {
	q := TransactionQuery{StartDate: "2026-10-01", EndDate: "2026-10-31", Category: " Lazer ", Type: "Expense"}
	filter, err := q.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, reporting.PeriodCustom, filter.Window.Period)
	require.NotNil(t, filter.Window.Start)
	require.NotNil(t, filter.Window.End)
	assert.Equal(t, "Lazer", filter.Category)
	assert.Equal(t, "expense", filter.Type)

	q = TransactionQuery{Period: "month", StartDate: "2026-10-01"}
	filter, err = q.ToFilter()
	require.NoError(t, err)
	assert.Equal(t, reporting.PeriodMonth, filter.Window.Period)

	q = TransactionQuery{StartDate: "2026-10-31", EndDate: "2026-10-01"}
	_, err = q.ToFilter()
	assert.ErrorIs(t, err, reporting.ErrInvalidDateRange)

	q = TransactionQuery{Period: "decade"}
	_, err = q.ToFilter()
	assert.ErrorIs(t, err, reporting.ErrInvalidPeriod)
}
