package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is locked due to too many failed attempts")
	ErrUserAlreadyExists  = errors.New("user with this email already exists")
)

// AuthService handles registration, login and logout
type AuthService struct {
	userRepo        repositories.UserRepositoryInterface
	auditService    AuditServiceInterface
	auditLogger     AuditLoggerInterface
	passwordService PasswordServiceInterface
	tokenService    TokenServiceInterface
	metrics         MetricsRecorderInterface
	maxAttempts     int
	lockout         time.Duration
	logger          *slog.Logger
	now             func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo repositories.UserRepositoryInterface,
	auditService AuditServiceInterface,
	auditLogger AuditLoggerInterface,
	passwordService PasswordServiceInterface,
	tokenService TokenServiceInterface,
	metrics MetricsRecorderInterface,
	security *config.SecurityConfig,
	logger *slog.Logger,
) AuthServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = NoopMetrics{}
	}
	return &AuthService{
		userRepo:        userRepo,
		auditService:    auditService,
		auditLogger:     auditLogger,
		passwordService: passwordService,
		tokenService:    tokenService,
		metrics:         metrics,
		maxAttempts:     security.MaxFailedAttempts,
		lockout:         security.LockoutDuration,
		logger:          logger,
		now:             time.Now,
	}
}

// Register creates a new user account
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest, ipAddress, userAgent string) (*models.User, error) {
	email := models.NormalizeEmail(req.Email)

	existingUser, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repositories.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := s.passwordService.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Position:     strings.TrimSpace(req.Position),
		Phone:        strings.TrimSpace(req.Phone),
		PasswordHash: hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.audit(ctx, models.AuditActionRegister, s.auditService.LogRegister(ctx, user.ID, ipAddress, userAgent))
	s.auditLogger.LogUserRegistered(ctx, user.ID, user.Email)
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "register"})

	return user, nil
}

// Login authenticates a user and returns a session token
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest, ipAddress, userAgent string) (*dto.LoginResponse, error) {
	email := models.NormalizeEmail(req.Email)
	now := s.now()

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			s.failedLogin(ctx, nil, email, "user_not_found", ipAddress, userAgent)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.IsLocked(s.lockout, now) {
		s.failedLogin(ctx, &user.ID, email, "account_locked", ipAddress, userAgent)
		return nil, ErrAccountLocked
	}
	if user.LockedAt != nil {
		// lockout window elapsed
		user.Unlock()
	}

	if !s.passwordService.ComparePassword(req.Password, user.PasswordHash) {
		locked := user.RegisterFailedAttempt(s.maxAttempts, now)
		if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
			s.logger.ErrorContext(ctx, "failed to update login attempts",
				"error", err,
				"user_id", user.ID)
		}

		if locked {
			s.audit(ctx, models.AuditActionAccountLocked, s.auditService.LogAccountLocked(ctx, user.ID, ipAddress, userAgent))
			s.auditLogger.LogAccountLocked(ctx, user.ID, user.FailedLoginAttempts)
			s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "account_locked"})
		}

		s.failedLogin(ctx, &user.ID, email, "invalid_password", ipAddress, userAgent)
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokenService.GenerateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	user.RecordLogin(now)
	if err := s.userRepo.UpdateLoginState(ctx, user); err != nil {
		s.logger.WarnContext(ctx, "failed to reset login attempts",
			"error", err,
			"user_id", user.ID)
	}

	s.audit(ctx, models.AuditActionLogin, s.auditService.LogLogin(ctx, user.ID, ipAddress, userAgent))
	s.auditLogger.LogLoginSucceeded(ctx, user.ID)
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "login"})

	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   dto.TokenTypeBearer,
		ExpiresAt:   expiresAt,
		ExpiresIn:   int64(expiresAt.Sub(now).Seconds()),
		User:        dto.NewUserSummary(user),
	}, nil
}

// Logout records the end of a session. Tokens are stateless, so nothing is revoked;
// the caller clears the cookie. userID is nil when the request carried no valid token.
func (s *AuthService) Logout(ctx context.Context, userID *uuid.UUID, ipAddress, userAgent string) {
	if userID == nil {
		return
	}
	s.audit(ctx, models.AuditActionLogout, s.auditService.LogLogout(ctx, *userID, ipAddress, userAgent))
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "logout"})
}

func (s *AuthService) failedLogin(ctx context.Context, userID *uuid.UUID, email, reason, ipAddress, userAgent string) {
	s.audit(ctx, models.AuditActionFailedLogin, s.auditService.LogFailedLogin(ctx, userID, email, reason, ipAddress, userAgent))
	s.auditLogger.LogLoginFailed(ctx, email, reason)
	s.metrics.IncrementCounter(MetricAuthenticationEvent, map[string]string{"event_type": "failed_login"})
}

// audit logs a failed audit write; it never blocks the operation
func (s *AuthService) audit(ctx context.Context, action string, err error) {
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to create audit log",
			"error", err,
			"action", action)
	}
}
