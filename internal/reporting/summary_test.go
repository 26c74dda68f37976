package reporting

import (
	"testing"

	"finance-tracker/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type SummaryTestSuite struct {
	suite.Suite
}

func TestSummarySuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

func (s *SummaryTestSuite) TestSummarize_Empty() {
	summary := Summarize(nil)

	s.True(summary.Income.IsZero())
	s.True(summary.Expenses.IsZero())
	s.True(summary.Balance.IsZero())
	s.Empty(summary.ExpensesByCategory)
	s.NotNil(summary.ExpensesByCategory)
	s.Equal(0, summary.TransactionCount)

	_, ok := summary.TopExpenseCategory()
	s.False(ok)
	s.True(summary.SavingsRate().IsZero())
}

func (s *SummaryTestSuite) TestSummarize_Totals() {
	txs := []models.Transaction{
		tx("2026-10-01", models.TransactionTypeIncome, "Salário", 1000),
		tx("2026-10-02", models.TransactionTypeIncome, "Freelance", 500),
		tx("2026-10-03", models.TransactionTypeExpense, "Alimentação", 200),
		tx("2026-10-04", models.TransactionTypeExpense, "Moradia", 600),
		tx("2026-10-05", models.TransactionTypeExpense, "Alimentação", 100),
	}

	summary := Summarize(txs)

	s.True(summary.Income.Equal(decimal.NewFromInt(1500)))
	s.True(summary.Expenses.Equal(decimal.NewFromInt(900)))
	s.True(summary.Balance.Equal(decimal.NewFromInt(600)))
	s.Equal(5, summary.TransactionCount)
	s.Equal(2, summary.IncomeCount)
	s.Equal(3, summary.ExpenseCount)

	s.Require().Len(summary.ExpensesByCategory, 2)
	s.Equal("Moradia", summary.ExpensesByCategory[0].Category)
	s.True(summary.ExpensesByCategory[0].Total.Equal(decimal.NewFromInt(600)))
	s.Equal("Alimentação", summary.ExpensesByCategory[1].Category)
	s.True(summary.ExpensesByCategory[1].Total.Equal(decimal.NewFromInt(300)))
	s.Equal(2, summary.ExpensesByCategory[1].Count)
	s.Equal(2, summary.ExpenseCategoryCount())

	top, ok := summary.TopExpenseCategory()
	s.True(ok)
	s.Equal("Moradia", top.Category)

	s.True(summary.SavingsRate().Equal(decimal.NewFromInt(40)))
}

func (s *SummaryTestSuite) TestSummarize_ExpenseAmountsAreAbsolute() {
	expense := tx("2026-10-03", models.TransactionTypeExpense, "Lazer", 0)
	expense.Amount = decimal.NewFromInt(-75)

	summary := Summarize([]models.Transaction{expense})

	s.True(summary.Expenses.Equal(decimal.NewFromInt(75)))
	s.True(summary.Balance.Equal(decimal.NewFromInt(-75)))
}

func (s *SummaryTestSuite) TestSummarize_CategoryTiesSortByName() {
	txs := []models.Transaction{
		tx("2026-10-01", models.TransactionTypeExpense, "Transporte", 50),
		tx("2026-10-01", models.TransactionTypeExpense, "Lazer", 50),
		tx("2026-10-01", models.TransactionTypeExpense, "Contas", 50),
	}

	summary := Summarize(txs)

	s.Require().Len(summary.ExpensesByCategory, 3)
	s.Equal("Contas", summary.ExpensesByCategory[0].Category)
	s.Equal("Lazer", summary.ExpensesByCategory[1].Category)
	s.Equal("Transporte", summary.ExpensesByCategory[2].Category)
}

func (s *SummaryTestSuite) TestSummarize_BalanceInvariant() {
	faker := gofakeit.New(42)

	for round := 0; round < 50; round++ {
		n := faker.IntRange(0, 30)
		txs := make([]models.Transaction, 0, n)
		for i := 0; i < n; i++ {
			txType := models.TransactionTypeIncome
			if faker.Bool() {
				txType = models.TransactionTypeExpense
			}
			t := tx("2026-10-01", txType, faker.RandomString([]string{"Lazer", "Contas", "Outros"}), 0)
			t.Amount = decimal.NewFromFloat(faker.Price(0.01, 5000)).Round(2)
			txs = append(txs, t)
		}

		summary := Summarize(txs)

		s.True(summary.Balance.Equal(summary.Income.Sub(summary.Expenses)))
		categoryTotal := decimal.Zero
		for _, c := range summary.ExpensesByCategory {
			categoryTotal = categoryTotal.Add(c.Total)
		}
		s.True(categoryTotal.Equal(summary.Expenses))
	}
}

func (s *SummaryTestSuite) TestSavingsRate_Deficit() {
	summary := Summarize([]models.Transaction{
		tx("2026-10-01", models.TransactionTypeIncome, "Salário", 100),
		tx("2026-10-01", models.TransactionTypeExpense, "Contas", 150),
	})

	s.True(summary.SavingsRate().Equal(decimal.NewFromInt(-50)))
}

func (s *SummaryTestSuite) TestBuild() {
	txs := []models.Transaction{
		tx("2026-10-14", models.TransactionTypeIncome, "Salário", 100),
		tx("2026-10-13", models.TransactionTypeExpense, "Contas", 40),
	}

	report := Build(txs, Filter{Window: Window{Period: PeriodToday}}, clock)

	s.Len(report.Transactions, 1)
	s.True(report.Summary.Income.Equal(decimal.NewFromInt(100)))
	s.True(report.Summary.Expenses.IsZero())
	s.Require().NotNil(report.Range.Start)
	s.Nil(report.Range.End)
}
