package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"
	"finance-tracker/internal/server"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional outside development
	_ = godotenv.Load()

	cfg := config.Load()

	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	db, err := database.Initialize(cfg)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("failed to close database", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg, db.DB, logger)
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped with error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped gracefully")
}
