package dto

import (
	"time"

	"finance-tracker/internal/models"
	"finance-tracker/internal/reporting"
)

// CategoryTotalResponse is the expense total of one category
type CategoryTotalResponse struct {
	Category string `json:"category"`
	Total    string `json:"total"`
	Count    int    `json:"count"`
}

// SummaryResponse is the wire form of reporting.Summary. Money is rendered with two decimals.
type SummaryResponse struct {
	Income             string                  `json:"income"`
	Expenses           string                  `json:"expenses"`
	Balance            string                  `json:"balance"`
	SavingsRate        string                  `json:"savings_rate"`
	ExpensesByCategory []CategoryTotalResponse `json:"expenses_by_category"`
	TopExpenseCategory *CategoryTotalResponse  `json:"top_expense_category,omitempty"`
	TransactionCount   int                     `json:"transaction_count"`
	IncomeCount        int                     `json:"income_count"`
	ExpenseCount       int                     `json:"expense_count"`
}

// AppliedFilters echoes the filters a dashboard response was computed with
type AppliedFilters struct {
	Period    string `json:"period"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Category  string `json:"category"`
	Type      string `json:"type"`
}

// DashboardResponse is returned by GET /dashboard/summary
type DashboardResponse struct {
	Filters      AppliedFilters        `json:"filters"`
	Summary      SummaryResponse       `json:"summary"`
	Transactions []TransactionResponse `json:"transactions"`
}

// MonthlyResponse is returned by GET /dashboard/monthly
type MonthlyResponse struct {
	Month     string          `json:"month"`
	Year      int             `json:"year"`
	StartDate string          `json:"start_date"`
	Summary   SummaryResponse `json:"summary"`
}

func NewSummaryResponse(s reporting.Summary) SummaryResponse {
	byCategory := make([]CategoryTotalResponse, 0, len(s.ExpensesByCategory))
	for _, c := range s.ExpensesByCategory {
		byCategory = append(byCategory, newCategoryTotalResponse(c))
	}

	resp := SummaryResponse{
		Income:             s.Income.StringFixed(2),
		Expenses:           s.Expenses.StringFixed(2),
		Balance:            s.Balance.StringFixed(2),
		SavingsRate:        s.SavingsRate().StringFixed(1),
		ExpensesByCategory: byCategory,
		TransactionCount:   s.TransactionCount,
		IncomeCount:        s.IncomeCount,
		ExpenseCount:       s.ExpenseCount,
	}
	if top, ok := s.TopExpenseCategory(); ok {
		t := newCategoryTotalResponse(top)
		resp.TopExpenseCategory = &t
	}
	return resp
}

func NewDashboardResponse(report reporting.Report) DashboardResponse {
	filters := AppliedFilters{
		Period:   string(report.Filter.Window.Period),
		Category: orAll(report.Filter.Category),
		Type:     orAll(report.Filter.Type),
	}
	if filters.Period == "" {
		filters.Period = string(reporting.PeriodAll)
	}
	if report.Range.Start != nil {
		filters.StartDate = report.Range.Start.Format(models.DateLayout)
	}
	if report.Range.End != nil {
		filters.EndDate = report.Range.End.Format(models.DateLayout)
	}

	return DashboardResponse{
		Filters:      filters,
		Summary:      NewSummaryResponse(report.Summary),
		Transactions: NewTransactionResponses(report.Transactions),
	}
}

func NewMonthlyResponse(summary reporting.Summary, monthName string, start time.Time) MonthlyResponse {
	return MonthlyResponse{
		Month:     monthName,
		Year:      start.Year(),
		StartDate: start.Format(models.DateLayout),
		Summary:   NewSummaryResponse(summary),
	}
}

func newCategoryTotalResponse(c reporting.CategoryTotal) CategoryTotalResponse {
	return CategoryTotalResponse{Category: c.Category, Total: c.Total.StringFixed(2), Count: c.Count}
}

func orAll(value string) string {
	if value == "" {
		return reporting.FilterAll
	}
	return value
}
