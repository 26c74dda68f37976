package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrProfileNotFound    = errors.New("profile not found")
	ErrForbidden          = errors.New("access to this profile is not allowed")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// ProfileService reads and updates the caller's own profile
type ProfileService struct {
	userRepo     repositories.UserRepositoryInterface
	auditService AuditServiceInterface
	auditLogger  AuditLoggerInterface
	logger       *slog.Logger
}

func NewProfileService(
	userRepo repositories.UserRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	logger *slog.Logger,
) ProfileServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{
		userRepo:     userRepo,
		auditService: auditService,
		auditLogger:  auditLogger,
		logger:       logger,
	}
}

func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return user, nil
}

// GetProfileByEmail returns the caller's profile when email is theirs.
// Any other address is forbidden, whether or not it exists.
func (s *ProfileService) GetProfileByEmail(ctx context.Context, userID uuid.UUID, email string) (*models.User, error) {
	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Email != models.NormalizeEmail(email) {
		return nil, ErrForbidden
	}
	return user, nil
}

// UpdateProfile applies the non-nil fields of req. Only changed columns are written.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest, ipAddress, userAgent string) (*models.User, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	user, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	merged := *user
	fields := make(map[string]interface{})

	if req.Name != nil {
		if name := strings.TrimSpace(*req.Name); name != user.Name {
			merged.Name = name
			fields["name"] = name
		}
	}
	if req.Position != nil {
		if position := strings.TrimSpace(*req.Position); position != user.Position {
			merged.Position = position
			fields["position"] = position
		}
	}
	if req.Phone != nil {
		if phone := strings.TrimSpace(*req.Phone); phone != user.Phone {
			merged.Phone = phone
			fields["phone"] = phone
		}
	}

	emailChanged := false
	if req.Email != nil {
		if email := models.NormalizeEmail(*req.Email); email != user.Email {
			merged.Email = email
			fields["email"] = email
			emailChanged = true
		}
	}

	if len(fields) == 0 {
		return user, nil
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}

	if emailChanged {
		existing, err := s.userRepo.GetByEmailExcluding(ctx, merged.Email, userID)
		if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
			return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
		}
		if existing != nil {
			return nil, ErrEmailAlreadyExists
		}
	}

	if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserAlreadyExists):
			return nil, ErrEmailAlreadyExists
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrProfileNotFound
		default:
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}
	}

	changed := make([]string, 0, len(fields))
	for field := range fields {
		changed = append(changed, field)
	}
	sort.Strings(changed)

	if emailChanged {
		s.audit(ctx, models.AuditActionEmailUpdated, s.auditService.LogEmailUpdate(ctx, userID, user.Email, merged.Email, ipAddress, userAgent))
		delete(fields, "email")
	}
	if len(fields) > 0 {
		s.audit(ctx, models.AuditActionProfileUpdated, s.auditService.LogProfileUpdate(ctx, userID, ipAddress, userAgent, fields))
	}
	s.auditLogger.LogProfileUpdated(ctx, userID, changed)

	updated, err := s.GetProfile(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to reload profile after update",
			"error", err,
			"user_id", userID)
		return &merged, nil
	}

	return updated, nil
}

// GetActivity returns a page of the caller's audit trail, newest first
func (s *ProfileService) GetActivity(ctx context.Context, userID uuid.UUID, offset, limit int) ([]*models.AuditLog, int64, error) {
	return s.auditService.GetUserActivity(ctx, userID, offset, limit)
}

func (s *ProfileService) audit(ctx context.Context, action string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create audit log",
			"error", err,
			"action", action)
	}
}
