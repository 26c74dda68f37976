package handlers

import (
	"net/http"

	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
)

type CategoryHandler struct {
	categoryService services.CategoryServiceInterface
}

func NewCategoryHandler(categoryService services.CategoryServiceInterface) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// GetCategories returns the income and expense categories
// @Summary List categories
// @Tags Categories
// @Produce json
// @Success 200 {object} models.CategorySet
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c echo.Context) error {
	categories, err := h.categoryService.GetCategories(c.Request().Context())
	if err != nil {
		return SendSystemError(c, err)
	}

	return c.JSON(http.StatusOK, categories)
}
