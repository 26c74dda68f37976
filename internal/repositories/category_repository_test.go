package repositories

import (
	"context"
	"testing"

	"finance-tracker/internal/database"
	"finance-tracker/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestCategoryRepository(t *testing.T) {
	suite.Run(t, new(CategoryRepositorySuite))
}

type CategoryRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo CategoryRepositoryInterface
	ctx  context.Context
}

func (s *CategoryRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewCategoryRepository(s.db.DB)
	s.ctx = context.Background()
}

func (s *CategoryRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *CategoryRepositorySuite) TestEnsureDefaults_IsIdempotent() {
	defaults := models.DefaultCategories()

	inserted, err := s.repo.EnsureDefaults(s.ctx, defaults)
	s.NoError(err)
	s.Equal(int64(len(defaults)), inserted)

	inserted, err = s.repo.EnsureDefaults(s.ctx, models.DefaultCategories())
	s.NoError(err)
	s.Equal(int64(0), inserted)

	categories, err := s.repo.List(s.ctx)
	s.NoError(err)
	s.Len(categories, len(defaults))
}

func (s *CategoryRepositorySuite) TestEnsureDefaults_Empty() {
	inserted, err := s.repo.EnsureDefaults(s.ctx, nil)
	s.NoError(err)
	s.Zero(inserted)
}

func (s *CategoryRepositorySuite) TestList_OrderedByTypeAndPosition() {
	_, err := s.repo.EnsureDefaults(s.ctx, models.DefaultCategories())
	s.Require().NoError(err)

	categories, err := s.repo.List(s.ctx)
	s.Require().NoError(err)

	var expense, income []string
	for _, c := range categories {
		switch c.Type {
		case models.TransactionTypeExpense:
			expense = append(expense, c.Name)
		case models.TransactionTypeIncome:
			income = append(income, c.Name)
		}
	}

	s.Equal(models.DefaultExpenseCategories, expense)
	s.Equal(models.DefaultIncomeCategories, income)
	s.Equal(models.TransactionTypeExpense, categories[0].Type)
}

func (s *CategoryRepositorySuite) TestEnsureDefaults_RejectsInvalidType() {
	_, err := s.repo.EnsureDefaults(s.ctx, []models.Category{{Name: "Pix", Type: "transfer"}})
	s.ErrorIs(err, models.ErrInvalidCategory)
}
