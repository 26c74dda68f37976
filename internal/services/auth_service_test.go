package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"finance-tracker/internal/config"
	"finance-tracker/internal/dto"
	"finance-tracker/internal/models"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/repositories/repository_mocks"
	"finance-tracker/internal/services/service_mocks"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type AuthServiceTestSuite struct {
	suite.Suite
	ctrl            *gomock.Controller
	userRepo        *repository_mocks.MockUserRepositoryInterface
	auditService    *service_mocks.MockAuditServiceInterface
	auditLogger     *service_mocks.MockAuditLoggerInterface
	passwordService *service_mocks.MockPasswordServiceInterface
	tokenService    *service_mocks.MockTokenServiceInterface
	authService     *AuthService
	ctx             context.Context
	now             time.Time
}

func (s *AuthServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.userRepo = repository_mocks.NewMockUserRepositoryInterface(s.ctrl)
	s.auditService = service_mocks.NewMockAuditServiceInterface(s.ctrl)
	s.auditLogger = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.passwordService = service_mocks.NewMockPasswordServiceInterface(s.ctrl)
	s.tokenService = service_mocks.NewMockTokenServiceInterface(s.ctrl)
	s.ctx = context.Background()
	s.now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

	security := &config.SecurityConfig{MaxFailedAttempts: 3, LockoutDuration: 15 * time.Minute}
	s.authService = NewAuthService(s.userRepo, s.auditService, s.auditLogger, s.passwordService, s.tokenService, NoopMetrics{}, security, slog.Default()).(*AuthService)
	s.authService.now = func() time.Time { return s.now }
}

func (s *AuthServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceTestSuite))
}

func (s *AuthServiceTestSuite) existingUser() *models.User {
	return &models.User{
		ID:           uuid.New(),
		Name:         "Maria Souza",
		Email:        "maria@example.com",
		PasswordHash: "hashed",
	}
}

func (s *AuthServiceTestSuite) TestRegister_Success() {
	req := &dto.RegisterRequest{
		Name:     " Maria Souza ",
		Email:    "Maria@Example.com",
		Password: "senha123",
		Position: "Analista",
	}

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), "maria@example.com").Return(nil, repositories.ErrUserNotFound)
	s.passwordService.EXPECT().HashPassword("senha123").Return("hashed_password", nil)
	s.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user *models.User) error {
		user.ID = uuid.New()
		return nil
	})
	s.auditService.EXPECT().LogRegister(gomock.Any(), gomock.Any(), "192.168.1.1", "Mozilla/5.0").Return(nil)
	s.auditLogger.EXPECT().LogUserRegistered(gomock.Any(), gomock.Any(), "maria@example.com")

	user, err := s.authService.Register(s.ctx, req, "192.168.1.1", "Mozilla/5.0")

	s.NoError(err)
	s.Require().NotNil(user)
	s.Equal("maria@example.com", user.Email)
	s.Equal("Maria Souza", user.Name)
	s.Equal("Analista", user.Position)
	s.Equal("hashed_password", user.PasswordHash)
}

func (s *AuthServiceTestSuite) TestRegister_UserAlreadyExists() {
	req := &dto.RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "senha123"}

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), "maria@example.com").Return(s.existingUser(), nil)

	user, err := s.authService.Register(s.ctx, req, "", "")
	s.Equal(ErrUserAlreadyExists, err)
	s.Nil(user)
}

func (s *AuthServiceTestSuite) TestRegister_ConcurrentDuplicate() {
	req := &dto.RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "senha123"}

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, repositories.ErrUserNotFound)
	s.passwordService.EXPECT().HashPassword(gomock.Any()).Return("hashed", nil)
	s.userRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(repositories.ErrUserAlreadyExists)

	_, err := s.authService.Register(s.ctx, req, "", "")
	s.ErrorIs(err, ErrUserAlreadyExists)
}

func (s *AuthServiceTestSuite) TestRegister_WeakPassword() {
	req := &dto.RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "abc"}

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, repositories.ErrUserNotFound)
	s.passwordService.EXPECT().HashPassword("abc").Return("", ErrPasswordTooShort)

	user, err := s.authService.Register(s.ctx, req, "", "")
	s.Nil(user)
	s.True(IsPasswordPolicyError(err))
}

func (s *AuthServiceTestSuite) TestRegister_LookupFailure() {
	req := &dto.RegisterRequest{Name: "Maria", Email: "maria@example.com", Password: "senha123"}

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err := s.authService.Register(s.ctx, req, "", "")
	s.Error(err)
	s.Contains(err.Error(), "failed to check existing user")
}

func (s *AuthServiceTestSuite) TestLogin_Success() {
	user := s.existingUser()
	user.FailedLoginAttempts = 2
	expiresAt := s.now.Add(time.Hour)

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), "maria@example.com").Return(user, nil)
	s.passwordService.EXPECT().ComparePassword("senha123", "hashed").Return(true)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("signed.jwt.token", expiresAt, nil)
	s.userRepo.EXPECT().UpdateLoginState(gomock.Any(), user).DoAndReturn(func(_ context.Context, u *models.User) error {
		s.Zero(u.FailedLoginAttempts)
		s.Nil(u.LockedAt)
		s.Require().NotNil(u.LastLoginAt)
		s.Equal(s.now, *u.LastLoginAt)
		return nil
	})
	s.auditService.EXPECT().LogLogin(gomock.Any(), user.ID, "10.0.0.1", "curl/8").Return(nil)
	s.auditLogger.EXPECT().LogLoginSucceeded(gomock.Any(), user.ID)

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "senha123"}, "10.0.0.1", "curl/8")

	s.NoError(err)
	s.Require().NotNil(resp)
	s.Equal("signed.jwt.token", resp.AccessToken)
	s.Equal(dto.TokenTypeBearer, resp.TokenType)
	s.Equal(expiresAt, resp.ExpiresAt)
	s.Equal(int64(3600), resp.ExpiresIn)
	s.Equal(user.ID, resp.User.ID)
	s.Equal("Maria Souza", resp.User.Name)
}

func (s *AuthServiceTestSuite) TestLogin_UnknownEmail() {
	s.userRepo.EXPECT().GetByEmail(gomock.Any(), "ghost@example.com").Return(nil, repositories.ErrUserNotFound)
	s.auditService.EXPECT().LogFailedLogin(gomock.Any(), nil, "ghost@example.com", "user_not_found", "", "").Return(nil)
	s.auditLogger.EXPECT().LogLoginFailed(gomock.Any(), "ghost@example.com", "user_not_found")

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "senha123"}, "", "")
	s.Equal(ErrInvalidCredentials, err)
	s.Nil(resp)
}

func (s *AuthServiceTestSuite) TestLogin_WrongPassword() {
	user := s.existingUser()

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword("wrong", "hashed").Return(false)
	s.userRepo.EXPECT().UpdateLoginState(gomock.Any(), user).Return(nil)
	s.auditService.EXPECT().LogFailedLogin(gomock.Any(), &user.ID, "maria@example.com", "invalid_password", "", "").Return(nil)
	s.auditLogger.EXPECT().LogLoginFailed(gomock.Any(), "maria@example.com", "invalid_password")

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "wrong"}, "", "")
	s.Equal(ErrInvalidCredentials, err)
	s.Equal(1, user.FailedLoginAttempts)
	s.Nil(user.LockedAt)
}

func (s *AuthServiceTestSuite) TestLogin_LocksAfterMaxAttempts() {
	user := s.existingUser()
	user.FailedLoginAttempts = 2

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(gomock.Any(), gomock.Any()).Return(false)
	s.userRepo.EXPECT().UpdateLoginState(gomock.Any(), user).Return(nil)
	s.auditService.EXPECT().LogAccountLocked(gomock.Any(), user.ID, "", "").Return(nil)
	s.auditLogger.EXPECT().LogAccountLocked(gomock.Any(), user.ID, 3)
	s.auditService.EXPECT().LogFailedLogin(gomock.Any(), gomock.Any(), gomock.Any(), "invalid_password", gomock.Any(), gomock.Any()).Return(nil)
	s.auditLogger.EXPECT().LogLoginFailed(gomock.Any(), gomock.Any(), "invalid_password")

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "wrong"}, "", "")
	s.Equal(ErrInvalidCredentials, err)
	s.Require().NotNil(user.LockedAt)
	s.True(user.IsLocked(15*time.Minute, s.now))
}

func (s *AuthServiceTestSuite) TestLogin_LockedAccount() {
	user := s.existingUser()
	lockedAt := s.now.Add(-5 * time.Minute)
	user.LockedAt = &lockedAt
	user.FailedLoginAttempts = 3

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.auditService.EXPECT().LogFailedLogin(gomock.Any(), &user.ID, gomock.Any(), "account_locked", gomock.Any(), gomock.Any()).Return(nil)
	s.auditLogger.EXPECT().LogLoginFailed(gomock.Any(), gomock.Any(), "account_locked")

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "senha123"}, "", "")
	s.Equal(ErrAccountLocked, err)
}

func (s *AuthServiceTestSuite) TestLogin_LockoutExpired() {
	user := s.existingUser()
	lockedAt := s.now.Add(-16 * time.Minute)
	user.LockedAt = &lockedAt
	user.FailedLoginAttempts = 3

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(gomock.Any(), gomock.Any()).Return(false)
	s.userRepo.EXPECT().UpdateLoginState(gomock.Any(), user).Return(nil)
	s.auditService.EXPECT().LogFailedLogin(gomock.Any(), gomock.Any(), gomock.Any(), "invalid_password", gomock.Any(), gomock.Any()).Return(nil)
	s.auditLogger.EXPECT().LogLoginFailed(gomock.Any(), gomock.Any(), "invalid_password")

	_, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "wrong"}, "", "")
	s.Equal(ErrInvalidCredentials, err)
	s.Equal(1, user.FailedLoginAttempts)
	s.Nil(user.LockedAt)
}

func (s *AuthServiceTestSuite) TestLogin_AuditFailureDoesNotBlock() {
	user := s.existingUser()

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(gomock.Any(), gomock.Any()).Return(true)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("token", s.now.Add(time.Hour), nil)
	s.userRepo.EXPECT().UpdateLoginState(gomock.Any(), user).Return(errors.New("write failed"))
	s.auditService.EXPECT().LogLogin(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("audit down"))
	s.auditLogger.EXPECT().LogLoginSucceeded(gomock.Any(), user.ID)

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "senha123"}, "", "")
	s.NoError(err)
	s.Equal("token", resp.AccessToken)
}

func (s *AuthServiceTestSuite) TestLogin_TokenFailure() {
	user := s.existingUser()

	s.userRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	s.passwordService.EXPECT().ComparePassword(gomock.Any(), gomock.Any()).Return(true)
	s.tokenService.EXPECT().GenerateAccessToken(user).Return("", time.Time{}, errors.New("no key"))

	resp, err := s.authService.Login(s.ctx, &dto.LoginRequest{Email: "maria@example.com", Password: "senha123"}, "", "")
	s.Error(err)
	s.Nil(resp)
}

func (s *AuthServiceTestSuite) TestLogout() {
	userID := uuid.New()
	s.auditService.EXPECT().LogLogout(gomock.Any(), userID, "10.0.0.1", "curl/8").Return(nil)

	s.authService.Logout(s.ctx, &userID, "10.0.0.1", "curl/8")
}

func (s *AuthServiceTestSuite) TestLogout_Anonymous() {
	s.authService.Logout(s.ctx, nil, "10.0.0.1", "curl/8")
}
