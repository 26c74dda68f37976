package services

import (
	"context"
	"errors"
	"fmt"

	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

const (
	DefaultActivityLimit = 20
	MaxActivityLimit     = 100
)

var (
	ErrInvalidUserID   = errors.New("invalid user ID")
	ErrInvalidAuditLog = errors.New("invalid audit log")
)

// AuditService persists the security trail of a user
type AuditService struct {
	repo repositories.AuditLogRepositoryInterface
}

// NewAuditService creates a new audit service
func NewAuditService(repo repositories.AuditLogRepositoryInterface) AuditServiceInterface {
	return &AuditService{
		repo: repo,
	}
}

// ValidateActivityType validates that the activity type is one of the allowed types
func ValidateActivityType(action string) error {
	switch action {
	case models.AuditActionLogin,
		models.AuditActionLogout,
		models.AuditActionRegister,
		models.AuditActionFailedLogin,
		models.AuditActionAccountLocked,
		models.AuditActionProfileUpdated,
		models.AuditActionEmailUpdated:
		return nil
	default:
		return fmt.Errorf("invalid activity type: %s", action)
	}
}

// CreateAuditLog creates a new audit log entry with validation
func (s *AuditService) CreateAuditLog(ctx context.Context, log *models.AuditLog) error {
	if log == nil {
		return ErrInvalidAuditLog
	}

	if err := ValidateActivityType(log.Action); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, log); err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}

	return nil
}

// GetUserActivity pages through a user's audit trail, newest first
func (s *AuditService) GetUserActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	if userID == uuid.Nil {
		return nil, 0, ErrInvalidUserID
	}

	offset, limit = ActivityPage(offset, limit)
	return s.repo.GetByUserID(ctx, userID, offset, limit)
}

// ActivityPage clamps a requested page to the accepted bounds
func ActivityPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	if limit > MaxActivityLimit {
		limit = MaxActivityLimit
	}
	return offset, limit
}

func (s *AuditService) LogRegister(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(ctx, userEvent(userID, models.AuditActionRegister, models.AuditResourceUser, ipAddress, userAgent))
}

// LogLogin logs a successful login event
func (s *AuditService) LogLogin(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(ctx, userEvent(userID, models.AuditActionLogin, models.AuditResourceSession, ipAddress, userAgent))
}

// LogLogout logs a logout event
func (s *AuditService) LogLogout(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(ctx, userEvent(userID, models.AuditActionLogout, models.AuditResourceSession, ipAddress, userAgent))
}

// LogFailedLogin records a rejected login. userID is nil when the email is unknown.
func (s *AuditService) LogFailedLogin(ctx context.Context, userID *uuid.UUID, email, reason, ipAddress, userAgent string) error {
	log := &models.AuditLog{
		UserID:    userID,
		Action:    models.AuditActionFailedLogin,
		Resource:  models.AuditResourceSession,
		IPAddress: ipAddress,
		UserAgent: userAgent,
		Metadata: models.JSONBMap{
			"email":  email,
			"reason": reason,
		},
	}
	if userID != nil {
		log.ResourceID = userID.String()
	}
	return s.CreateAuditLog(ctx, log)
}

func (s *AuditService) LogAccountLocked(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string) error {
	return s.CreateAuditLog(ctx, userEvent(userID, models.AuditActionAccountLocked, models.AuditResourceUser, ipAddress, userAgent))
}

// LogProfileUpdate logs a profile update event
func (s *AuditService) LogProfileUpdate(ctx context.Context, userID uuid.UUID, ipAddress, userAgent string, changes map[string]interface{}) error {
	log := userEvent(userID, models.AuditActionProfileUpdated, models.AuditResourceUser, ipAddress, userAgent)
	log.Metadata = changes
	return s.CreateAuditLog(ctx, log)
}

// LogEmailUpdate logs an email update event
func (s *AuditService) LogEmailUpdate(ctx context.Context, userID uuid.UUID, oldEmail, newEmail, ipAddress, userAgent string) error {
	log := userEvent(userID, models.AuditActionEmailUpdated, models.AuditResourceUser, ipAddress, userAgent)
	log.Metadata = models.JSONBMap{
		"old_email": oldEmail,
		"new_email": newEmail,
	}
	return s.CreateAuditLog(ctx, log)
}

func userEvent(userID uuid.UUID, action, resource, ipAddress, userAgent string) *models.AuditLog {
	return &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   resource,
		ResourceID: userID.String(),
		IPAddress:  ipAddress,
		UserAgent:  userAgent,
	}
}
