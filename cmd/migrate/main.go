package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"finance-tracker/internal/config"
	"finance-tracker/internal/database"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

const usage = `usage: migrate [flags] <command>

commands:
  up        apply all pending migrations
  down      roll back -steps migrations (default 1)
  status    print the current schema version
  seed      execute the seed files

flags:
`

func main() {
	_ = godotenv.Load()

	steps := flag.Int("steps", 1, "number of migrations to roll back with down")
	seed := flag.Bool("seed", false, "load seed files after up")
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	logger := cfg.Logging.NewLogger(os.Stdout)
	slog.SetDefault(logger)

	db, err := sql.Open("postgres", cfg.Database.URL())
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	runner := database.NewMigrationRunner(db, cfg.Database.MigrationsPath, cfg.Database.SeedsPath)

	if err := run(runner, flag.Arg(0), *steps, *seed); err != nil {
		logger.Error("migrate failed", "command", flag.Arg(0), "error", err)
		os.Exit(1)
	}
}

func run(runner *database.MigrationRunner, command string, steps int, seed bool) error {
	switch command {
	case "up":
		return runner.Run(seed)
	case "down":
		if err := runner.WaitForDatabase(); err != nil {
			return err
		}
		if err := runner.RollbackMigrations(steps); err != nil {
			return err
		}
		slog.Info("rolled back migrations", "steps", steps)
		return nil
	case "status":
		version, dirty, err := runner.GetMigrationStatus()
		if err != nil {
			return err
		}
		fmt.Printf("version=%d dirty=%t\n", version, dirty)
		return nil
	case "seed":
		return runner.LoadSeeds()
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}
