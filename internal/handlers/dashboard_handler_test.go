package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/reporting"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

func TestDashboardHandler(t *testing.T) {
	suite.Run(t, new(DashboardHandlerSuite))
}

type DashboardHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *service_mocks.MockDashboardServiceInterface
	handler *DashboardHandler
	e       *echo.Echo
	userID  uuid.UUID
}

func (s *DashboardHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = service_mocks.NewMockDashboardServiceInterface(s.ctrl)
	s.handler = NewDashboardHandler(s.service)
	s.e = newTestEcho()
	s.userID = uuid.New()
}

func (s *DashboardHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func testSummary() reporting.Summary {
	return reporting.Summary{
		Income:   decimal.NewFromInt(3000),
		Expenses: decimal.NewFromInt(1250),
		Balance:  decimal.NewFromInt(1750),
		ExpensesByCategory: []reporting.CategoryTotal{
			{Category: "Moradia", Total: decimal.NewFromInt(1000), Count: 1},
			{Category: "Alimentação", Total: decimal.NewFromInt(250), Count: 1},
		},
		TransactionCount: 3,
		IncomeCount:      1,
		ExpenseCount:     2,
	}
}

func (s *DashboardHandlerSuite) TestGetSummary() {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 10, 31, 0, 0, 0, 0, time.UTC)

	s.service.EXPECT().Summary(gomock.Any(), s.userID, gomock.Any()).
		DoAndReturn(func(_ interface{}, _ uuid.UUID, filter reporting.Filter) (reporting.Report, error) {
			s.Equal(reporting.PeriodMonth, filter.Window.Period)
			s.Equal("expense", filter.Type)
			return reporting.Report{
				Filter:  filter,
				Range:   reporting.DateRange{Start: &start, End: &end},
				Summary: testSummary(),
			}, nil
		})

	c, rec := newContext(s.e, http.MethodGet, "/dashboard?period=month&type=expense", nil, &s.userID)

	s.NoError(s.handler.GetSummary(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.DashboardResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("month", resp.Filters.Period)
	s.Equal("2026-10-01", resp.Filters.StartDate)
	s.Equal("2026-10-31", resp.Filters.EndDate)
	s.Equal("all", resp.Filters.Category)
	s.Equal("expense", resp.Filters.Type)
	s.Equal("3000.00", resp.Summary.Income)
	s.Equal("1250.00", resp.Summary.Expenses)
	s.Equal("1750.00", resp.Summary.Balance)
	s.Equal("58.3", resp.Summary.SavingsRate)
	s.Require().NotNil(resp.Summary.TopExpenseCategory)
	s.Equal("Moradia", resp.Summary.TopExpenseCategory.Category)
	s.Empty(resp.Transactions)
}

func (s *DashboardHandlerSuite) TestGetSummary_InvalidDate() {
	c, rec := newContext(s.e, http.MethodGet, "/dashboard?start_date=2026-11-01&end_date=2026-10-01", nil, &s.userID)

	s.NoError(s.handler.GetSummary(c))
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("VALIDATION_006", decodeError(rec).Error.Code)
}

func (s *DashboardHandlerSuite) TestGetMonthly() {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	s.service.EXPECT().Monthly(gomock.Any(), s.userID).Return(testSummary(), start, nil)

	c, rec := newContext(s.e, http.MethodGet, "/dashboard/monthly", nil, &s.userID)

	s.NoError(s.handler.GetMonthly(c))
	s.Equal(http.StatusOK, rec.Code)

	var resp dto.MonthlyResponse
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("outubro", resp.Month)
	s.Equal(2026, resp.Year)
	s.Equal("2026-10-01", resp.StartDate)
	s.Equal(3, resp.Summary.TransactionCount)
}

func (s *DashboardHandlerSuite) TestGetMonthly_Unauthenticated() {
	c, rec := newContext(s.e, http.MethodGet, "/dashboard/monthly", nil, nil)

	s.NoError(s.handler.GetMonthly(c))
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("AUTH_002", decodeError(rec).Error.Code)
}
