package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"finance-tracker/internal/dto"
	apperrors "finance-tracker/internal/errors"
	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

const fakeToken = "fake-access-token"

// fakeAPI is an in-memory stand-in for the REST server.
type fakeAPI struct {
	mu           sync.Mutex
	transactions []dto.TransactionResponse
	listStatus   int
	catStatus    int
	authHeaders  []string
	server       *httptest.Server
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /user/login", f.login)
	mux.HandleFunc("POST /user/logout", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"message": "Logout successful"})
	})
	mux.HandleFunc("GET /user/profile", f.authed(f.profile))
	mux.HandleFunc("GET /categories", f.categories)
	mux.HandleFunc("GET /transactions", f.authed(f.list))
	mux.HandleFunc("POST /transactions", f.authed(f.create))
	mux.HandleFunc("PUT /transactions/{id}", f.authed(f.update))
	mux.HandleFunc("DELETE /transactions/{id}", f.authed(f.remove))

	f.server = httptest.NewServer(mux)
	t.Cleanup(f.server.Close)
	return f
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeAPIError(w http.ResponseWriter, code apperrors.ErrorCode, details ...string) {
	writeJSON(w, apperrors.GetHTTPStatus(code), apperrors.ErrorResponse{Error: apperrors.ErrorDetail{
		Code:    string(code),
		Message: apperrors.GetErrorMessage(code),
		Details: details,
		TraceID: "trace-123",
	}})
}

func (f *fakeAPI) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, header)
		f.mu.Unlock()

		if header != "Bearer "+fakeToken {
			writeAPIError(w, apperrors.AuthMissingToken)
			return
		}
		next(w, r)
	}
}

func (f *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apperrors.ValidationGeneral)
		return
	}
	if req.Password != "correct-horse" {
		writeAPIError(w, apperrors.AuthInvalidCredentials)
		return
	}
	writeJSON(w, http.StatusOK, dto.LoginResponse{
		AccessToken: fakeToken,
		TokenType:   "Bearer",
		ExpiresIn:   3600,
		ExpiresAt:   time.Now().Add(time.Hour).UTC(),
		User:        dto.UserSummary{ID: uuid.New(), Name: "Maria", Email: req.Email},
	})
}

func (f *fakeAPI) profile(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, dto.ProfileResponse{ID: uuid.New(), Name: "Maria", Email: "maria@example.com"})
}

func (f *fakeAPI) categories(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	status := f.catStatus
	f.mu.Unlock()

	if status != 0 {
		writeAPIError(w, apperrors.SystemInternalError)
		return
	}
	writeJSON(w, http.StatusOK, models.CategorySet{
		Income:  models.DefaultIncomeCategories,
		Expense: models.DefaultExpenseCategories,
	})
}

func (f *fakeAPI) list(w http.ResponseWriter, _ *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listStatus != 0 {
		writeAPIError(w, apperrors.SystemDatabaseError)
		return
	}
	writeJSON(w, http.StatusOK, dto.ListTransactionsResponse{
		Transactions: f.transactions,
		Total:        len(f.transactions),
	})
}

func (f *fakeAPI) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apperrors.ValidationGeneral)
		return
	}
	if !req.Amount.IsPositive() {
		writeAPIError(w, apperrors.TransactionInvalidAmount, "amount must be greater than zero")
		return
	}

	now := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tx := dto.TransactionResponse{
		ID:          uuid.New(),
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount.StringFixed(2),
		Type:        req.Type,
		Category:    req.Category,
		Date:        req.Date,
		Notes:       req.Notes,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	f.mu.Lock()
	f.transactions = append(f.transactions, tx)
	f.mu.Unlock()

	writeJSON(w, http.StatusCreated, tx)
}

func (f *fakeAPI) update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, apperrors.ValidationInvalidFormat)
		return
	}
	var req dto.UpdateTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIError(w, apperrors.ValidationGeneral)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.transactions {
		if f.transactions[i].ID != id {
			continue
		}
		tx := &f.transactions[i]
		if req.Description != nil {
			tx.Description = *req.Description
		}
		if req.Amount != nil {
			tx.Amount = req.Amount.StringFixed(2)
		}
		writeJSON(w, http.StatusOK, tx)
		return
	}
	writeAPIError(w, apperrors.TransactionNotFound)
}

func (f *fakeAPI) remove(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeAPIError(w, apperrors.ValidationInvalidFormat)
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			f.transactions = append(f.transactions[:i], f.transactions[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	writeAPIError(w, apperrors.TransactionNotFound)
}

func (f *fakeAPI) seenAuthHeaders() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func (f *fakeAPI) setFailures(listStatus, catStatus int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listStatus = listStatus
	f.catStatus = catStatus
}
