package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionFilters contains filtering options for transaction queries.
// StartDate and EndDate are inclusive; empty Type or Category means no filter.
type TransactionFilters struct {
	UserID    uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Type      string
	Category  string
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
	Offset    int
	Limit     int
}
