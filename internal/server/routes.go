package server

import (
	"finance-tracker/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) registerRoutes(c components) {
	e := s.Echo

	e.GET("/health", c.health.HealthCheck)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))
	e.GET("/categories", c.categories.GetCategories)

	requireAuth := middleware.RequireAuth(c.tokenService, s.cfg.Cookie.Name)

	user := e.Group("/user")
	user.POST("/login", c.auth.Login, s.loginLimiter.Middleware())
	user.POST("/register", c.auth.Register, s.loginLimiter.Middleware())
	user.POST("/signup", c.auth.Register, s.loginLimiter.Middleware())
	user.POST("/logout", c.auth.Logout)

	user.GET("/profile", c.profile.GetProfile, requireAuth)
	user.GET("/profile/:email", c.profile.GetProfileByEmail, requireAuth)
	user.PUT("/profile", c.profile.UpdateProfile, requireAuth)
	user.POST("/profile", c.profile.UpdateProfile, requireAuth)
	user.GET("/activity", c.profile.GetActivity, requireAuth)

	transactions := e.Group("/transactions", requireAuth)
	transactions.GET("", c.transactions.ListTransactions)
	transactions.POST("", c.transactions.CreateTransaction)
	transactions.POST("/bulk", c.transactions.CreateTransactionsBulk)
	transactions.GET("/:id", c.transactions.GetTransaction)
	transactions.PUT("/:id", c.transactions.UpdateTransaction)
	transactions.DELETE("/:id", c.transactions.DeleteTransaction)

	dashboard := e.Group("/dashboard", requireAuth)
	dashboard.GET("/summary", c.dashboard.GetSummary)
	dashboard.GET("/monthly", c.dashboard.GetMonthly)

	chat := e.Group("/chat", requireAuth)
	chat.POST("", c.chat.Ask)
	chat.GET("/history", c.chat.GetHistory)
	chat.DELETE("/history", c.chat.ClearHistory)
}
