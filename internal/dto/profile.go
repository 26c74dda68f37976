package dto

import (
	"time"

	"finance-tracker/internal/models"

	"github.com/google/uuid"
)

// ProfileResponse is the public view of a user
type ProfileResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Position    string     `json:"position,omitempty"`
	Phone       string     `json:"phone,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// UpdateProfileRequest carries a partial profile update; nil fields are left untouched.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=150"`
	Email    *string `json:"email" validate:"omitempty,email,max=255"`
	Position *string `json:"position" validate:"omitempty,max=100"`
	Phone    *string `json:"phone" validate:"omitempty,max=30"`
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateProfileRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Position == nil && r.Phone == nil
}

// ActivityEntry is one audit record shown to its owner
type ActivityEntry struct {
	ID        uuid.UUID `json:"id"`
	Action    string    `json:"action"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ActivityResponse is a page of the caller's audit trail
type ActivityResponse struct {
	Entries []ActivityEntry `json:"entries"`
	Total   int64           `json:"total"`
	Offset  int             `json:"offset"`
	Limit   int             `json:"limit"`
}

func NewProfileResponse(user *models.User) ProfileResponse {
	return ProfileResponse{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Position:    user.Position,
		Phone:       user.Phone,
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}
}

func NewActivityResponse(logs []*models.AuditLog, total int64, offset, limit int) ActivityResponse {
	entries := make([]ActivityEntry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, ActivityEntry{
			ID:        log.ID,
			Action:    log.Action,
			IPAddress: log.IPAddress,
			UserAgent: log.UserAgent,
			CreatedAt: log.CreatedAt,
		})
	}
	return ActivityResponse{Entries: entries, Total: total, Offset: offset, Limit: limit}
}
