package reporting

import (
	"sort"
	"time"

	"finance-tracker/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the expense total of one category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

type Summary struct {
	Income             decimal.Decimal `json:"income"`
	Expenses           decimal.Decimal `json:"expenses"`
	Balance            decimal.Decimal `json:"balance"`
	ExpensesByCategory []CategoryTotal `json:"expenses_by_category"`
	TransactionCount   int             `json:"transaction_count"`
	IncomeCount        int             `json:"income_count"`
	ExpenseCount       int             `json:"expense_count"`
}

// Summarize totals income and expenses. Expenses are summed as absolute
// values and Balance is always Income minus Expenses.
func Summarize(txs []models.Transaction) Summary {
	summary := Summary{
		Income:             decimal.Zero,
		Expenses:           decimal.Zero,
		Balance:            decimal.Zero,
		ExpensesByCategory: []CategoryTotal{},
	}

	byCategory := make(map[string]*CategoryTotal)

	for i := range txs {
		tx := &txs[i]

		switch tx.Type {
		case models.TransactionTypeIncome:
			summary.Income = summary.Income.Add(tx.Amount)
			summary.IncomeCount++
		case models.TransactionTypeExpense:
			amount := tx.Amount.Abs()
			summary.Expenses = summary.Expenses.Add(amount)
			summary.ExpenseCount++

			total, ok := byCategory[tx.Category]
			if !ok {
				total = &CategoryTotal{Category: tx.Category, Total: decimal.Zero}
				byCategory[tx.Category] = total
			}
			total.Total = total.Total.Add(amount)
			total.Count++
		default:
			continue
		}

		summary.TransactionCount++
	}

	summary.Balance = summary.Income.Sub(summary.Expenses)

	for _, total := range byCategory {
		summary.ExpensesByCategory = append(summary.ExpensesByCategory, *total)
	}
	sort.Slice(summary.ExpensesByCategory, func(i, j int) bool {
		a, b := summary.ExpensesByCategory[i], summary.ExpensesByCategory[j]
		if cmp := a.Total.Cmp(b.Total); cmp != 0 {
			return cmp > 0
		}
		return a.Category < b.Category
	})

	return summary
}

// TopExpenseCategory returns the category with the largest expense total.
func (s Summary) TopExpenseCategory() (CategoryTotal, bool) {
	if len(s.ExpensesByCategory) == 0 {
		return CategoryTotal{}, false
	}
	return s.ExpensesByCategory[0], true
}

// SavingsRate is Balance as a percentage of Income, zero without income.
func (s Summary) SavingsRate() decimal.Decimal {
	if !s.Income.IsPositive() {
		return decimal.Zero
	}
	return s.Balance.Div(s.Income).Mul(hundred)
}

func (s Summary) ExpenseCategoryCount() int {
	return len(s.ExpensesByCategory)
}

// Report is a filtered transaction set together with its summary.
type Report struct {
	Filter       Filter               `json:"-"`
	Range        DateRange            `json:"-"`
	Summary      Summary              `json:"summary"`
	Transactions []models.Transaction `json:"transactions"`
}

// Build filters txs and summarizes what is left.
func Build(txs []models.Transaction, f Filter, now time.Time) Report {
	filtered := Apply(txs, f, now)
	return Report{
		Filter:       f,
		Range:        f.Window.Bounds(now),
		Summary:      Summarize(filtered),
		Transactions: filtered,
	}
}
