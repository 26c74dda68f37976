package handlers

import (
	"net/http"

	"finance-tracker/internal/assistant"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/errors"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandler serves the aggregated views
type DashboardHandler struct {
	dashboardService services.DashboardServiceInterface
}

func NewDashboardHandler(dashboardService services.DashboardServiceInterface) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GetSummary filters the caller's transactions and totals them
// @Summary Dashboard summary
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Param period query string false "all, month, week, today, last_month or custom"
// @Param start_date query string false "YYYY-MM-DD"
// @Param end_date query string false "YYYY-MM-DD"
// @Param category query string false "Category name or all"
// @Param type query string false "income, expense or all"
// @Success 200 {object} dto.DashboardResponse
// @Failure 400 {object} errors.ErrorResponse "VALIDATION_*"
// @Router /dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	var query dto.TransactionQuery
	if err := c.Bind(&query); err != nil {
		return SendError(c, errors.ValidationGeneral, errors.WithDetails("Invalid query parameters"))
	}
	if err := c.Validate(&query); err != nil {
		return err
	}

	filter, err := query.ToFilter()
	if err != nil {
		return sendServiceError(c, err)
	}

	report, err := h.dashboardService.Summary(c.Request().Context(), userID, filter)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewDashboardResponse(report))
}

// GetMonthly summarizes the current month
// @Summary Current month summary
// @Tags Dashboard
// @Security BearerAuth
// @Produce json
// @Success 200 {object} dto.MonthlyResponse
// @Router /dashboard/monthly [get]
func (h *DashboardHandler) GetMonthly(c echo.Context) error {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		return SendError(c, errors.AuthMissingToken)
	}

	summary, start, err := h.dashboardService.Monthly(c.Request().Context(), userID)
	if err != nil {
		return sendServiceError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewMonthlyResponse(summary, assistant.MonthName(start.Month()), start))
}
