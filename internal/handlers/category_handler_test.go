package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"finance-tracker/internal/models"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryHandler_GetCategories(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := service_mocks.NewMockCategoryServiceInterface(ctrl)
	service.EXPECT().GetCategories(gomock.Any()).Return(models.CategorySet{
		Income:  []string{"Salário", "Freelance"},
		Expense: []string{"Alimentação"},
	}, nil)

	e := newTestEcho()
	c, rec := newContext(e, http.MethodGet, "/categories", nil, nil)

	require.NoError(t, NewCategoryHandler(service).GetCategories(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var set models.CategorySet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &set))
	assert.Equal(t, []string{"Salário", "Freelance"}, set.Income)
	assert.Equal(t, []string{"Alimentação"}, set.Expense)
}

func TestCategoryHandler_GetCategories_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	service := service_mocks.NewMockCategoryServiceInterface(ctrl)
	service.EXPECT().GetCategories(gomock.Any()).Return(models.CategorySet{}, errors.New("db down"))

	e := newTestEcho()
	c, rec := newContext(e, http.MethodGet, "/categories", nil, nil)

	require.NoError(t, NewCategoryHandler(service).GetCategories(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeError(rec)
	assert.Equal(t, "SYSTEM_001", resp.Error.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
