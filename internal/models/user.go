package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

	ErrUserEmailRequired = errors.New("email is required")
	ErrUserEmailInvalid  = errors.New("invalid email format")
	ErrUserNameRequired  = errors.New("name is required")
)

type User struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name                string         `gorm:"type:varchar(150);not null" json:"name"`
	Email               string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Position            string         `gorm:"type:varchar(100)" json:"position,omitempty"`
	Phone               string         `gorm:"type:varchar(30)" json:"phone,omitempty"`
	PasswordHash        string         `gorm:"type:varchar(255);not null" json:"-"`
	FailedLoginAttempts int            `gorm:"default:0" json:"-"`
	LockedAt            *time.Time     `gorm:"index" json:"-"`
	LastLoginAt         *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	u.Email = NormalizeEmail(u.Email)

	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = now
	}

	return u.Validate()
}

func (u *User) BeforeUpdate(tx *gorm.DB) error {
	// map-based updates carry only the changed columns
	if tx.Statement.Dest != nil {
		if _, ok := tx.Statement.Dest.(map[string]interface{}); ok {
			return nil
		}
	}

	return u.Validate()
}

func (u *User) Validate() error {
	if u.Email == "" {
		return ErrUserEmailRequired
	}

	if !emailRegex.MatchString(u.Email) {
		return ErrUserEmailInvalid
	}

	if strings.TrimSpace(u.Name) == "" {
		return ErrUserNameRequired
	}

	return nil
}

// IsLocked reports whether the account is inside its lockout window.
func (u *User) IsLocked(lockout time.Duration, now time.Time) bool {
	if u.LockedAt == nil {
		return false
	}
	return now.Before(u.LockedAt.Add(lockout))
}

func (u *User) Lock(now time.Time) {
	u.LockedAt = &now
}

func (u *User) Unlock() {
	u.LockedAt = nil
	u.FailedLoginAttempts = 0
}

// RegisterFailedAttempt bumps the counter and locks the account once maxAttempts is reached.
// It returns true when this attempt caused the lock.
func (u *User) RegisterFailedAttempt(maxAttempts int, now time.Time) bool {
	u.FailedLoginAttempts++
	if maxAttempts > 0 && u.FailedLoginAttempts >= maxAttempts {
		u.Lock(now)
		return true
	}
	return false
}

func (u *User) RecordLogin(now time.Time) {
	u.FailedLoginAttempts = 0
	u.LockedAt = nil
	u.LastLoginAt = &now
}

func (u *User) TableName() string {
	return "users"
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
