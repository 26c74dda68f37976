package dto

import (
	"strings"
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// TokenTypeBearer is the token_type returned on login.
const TokenTypeBearer = "Bearer"

// Auth Request DTOs

// RegisterRequest contains user registration data
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,notblank,max=150"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Position string `json:"position" validate:"omitempty,max=100"`
	Phone    string `json:"phone" validate:"omitempty,max=30"`
}

// LoginRequest contains login credentials. Username is accepted as an alias
// for Email; call Normalize before validating. The address format is not
// checked here, an unknown identifier fails as invalid credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,max=255"`
	Username string `json:"username" validate:"-"`
	Password string `json:"password" validate:"required"`
}

// Normalize copies Username into Email when only the alias was sent.
func (r *LoginRequest) Normalize() {
	if strings.TrimSpace(r.Email) == "" {
		r.Email = r.Username
	}
	r.Email = models.NormalizeEmail(r.Email)
}

// Auth Response DTOs

// UserSummary is the user block embedded in the login response
type UserSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

// LoginResponse contains the session token
type LoginResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"expires_at"`
	ExpiresIn   int64       `json:"expires_in"`
	User        UserSummary `json:"user"`
}

func NewUserSummary(user *models.User) UserSummary {
	return UserSummary{ID: user.ID, Name: user.Name, Email: user.Email}
}
