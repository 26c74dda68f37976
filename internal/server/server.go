package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"finance-tracker/internal/assistant"
	"finance-tracker/internal/config"
	"finance-tracker/internal/handlers"
	"finance-tracker/internal/middleware"
	"finance-tracker/internal/repositories"
	"finance-tracker/internal/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const visitorCleanupInterval = time.Minute

// Server owns the echo instance and everything the routes need
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	Echo     *echo.Echo
	Registry *prometheus.Registry

	categoryService services.CategoryServiceInterface
	apiLimiter      *middleware.RateLimiter
	loginLimiter    *middleware.RateLimiter
}

type components struct {
	tokenService services.TokenServiceInterface

	auth         *handlers.AuthHandler
	profile      *handlers.ProfileHandler
	transactions *handlers.TransactionHandler
	categories   *handlers.CategoryHandler
	dashboard    *handlers.DashboardHandler
	chat         *handlers.ChatHandler
	health       *handlers.HealthCheckHandler
}

// New wires repositories, services and handlers on top of db and registers
// the routes. Metrics go to a registry private to this server.
func New(cfg *config.Config, db *gorm.DB, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		cfg:          cfg,
		logger:       logger,
		Registry:     reg,
		apiLimiter:   middleware.NewRateLimiter(float64(cfg.Security.RateLimitPerSecond), cfg.Security.RateLimitBurst),
		loginLimiter: middleware.NewLoginRateLimiter(cfg.Security.LoginRateLimitPerMinute),
	}

	c := s.buildComponents(db)
	s.Echo = s.newEcho()
	s.registerRoutes(c)

	return s
}

func (s *Server) buildComponents(db *gorm.DB) components {
	loc := s.cfg.Report.Location
	metrics := services.NewPrometheusMetrics(s.Registry)
	auditLogger := services.NewAuditLogger(s.logger)

	userRepo := repositories.NewUserRepository(db)
	transactionRepo := repositories.NewTransactionRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	chatRepo := repositories.NewChatMessageRepository(db)
	auditRepo := repositories.NewAuditLogRepository(db)

	auditService := services.NewAuditService(auditRepo)
	tokenService := services.NewTokenService(&s.cfg.JWT)
	passwordService := services.NewPasswordService(&s.cfg.Security)
	authService := services.NewAuthService(userRepo, auditService, auditLogger, passwordService, tokenService, metrics, &s.cfg.Security, s.logger)
	s.categoryService = services.NewCategoryService(categoryRepo, services.DefaultCategoryCacheTTL, s.logger)
	transactionService := services.NewTransactionService(transactionRepo, s.categoryService, auditLogger, metrics, loc, s.logger)
	dashboardService := services.NewDashboardService(transactionRepo, metrics, loc, s.logger)
	chatService := services.NewChatService(transactionRepo, chatRepo, assistant.New(), auditLogger, metrics, loc, s.logger)
	profileService := services.NewProfileService(userRepo, auditService, auditLogger, s.logger)

	return components{
		tokenService: tokenService,
		auth:         handlers.NewAuthHandler(authService, tokenService, s.cfg.Cookie),
		profile:      handlers.NewProfileHandler(profileService),
		transactions: handlers.NewTransactionHandler(transactionService),
		categories:   handlers.NewCategoryHandler(s.categoryService),
		dashboard:    handlers.NewDashboardHandler(dashboardService),
		chat:         handlers.NewChatHandler(chatService),
		health:       handlers.NewHealthCheckHandler(db),
	}
}

func (s *Server) newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewValidator()
	e.HTTPErrorHandler = middleware.NewErrorHandler(s.Registry).Handle

	e.Server.ReadTimeout = s.cfg.Server.ReadTimeout
	e.Server.WriteTimeout = s.cfg.Server.WriteTimeout

	e.Use(middleware.RequestID())
	e.Use(middleware.NewRequestLogger(s.logger, s.Registry).Middleware())
	e.Use(middleware.PanicRecovery(s.logger))
	e.Use(middleware.SecurityHeaders(s.cfg.Cookie.Secure))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     s.cfg.Server.CORSAllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, middleware.TraceIDHeader},
		ExposeHeaders:    []string{middleware.TraceIDHeader},
		AllowCredentials: true,
		MaxAge:           600,
	}))
	e.Use(echomiddleware.BodyLimit("1M"))
	e.Use(s.apiLimiter.Middleware())

	return e
}

// Bootstrap seeds the default categories
func (s *Server) Bootstrap(ctx context.Context) error {
	inserted, err := s.categoryService.EnsureDefaults(ctx)
	if err != nil {
		return err
	}
	if inserted > 0 {
		s.logger.InfoContext(ctx, "default categories seeded", "count", inserted)
	}
	return nil
}

// Run serves until ctx is cancelled, then shuts down within the configured timeout
func (s *Server) Run(ctx context.Context) error {
	if err := s.Bootstrap(ctx); err != nil {
		return fmt.Errorf("failed to bootstrap: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting server", "address", s.cfg.Server.Address(), "environment", s.cfg.Server.Environment)
		if err := s.Echo.Start(s.cfg.Server.Address()); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		s.apiLimiter.Cleanup(gctx, visitorCleanupInterval)
		return nil
	})

	g.Go(func() error {
		s.loginLimiter.Cleanup(gctx, visitorCleanupInterval)
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := s.Echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
