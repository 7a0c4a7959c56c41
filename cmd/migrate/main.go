package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/dia-app/dia/backend/config"
	"github.com/dia-app/dia/backend/internal/database"
	"github.com/dia-app/dia/backend/internal/logger"
)

func main() {
	// Parse command line flags
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	migrationsDir := flag.String("dir", "migrations", "Directory holding the SQL migrations")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if _, err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: "text"}); err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, *migrationsDir, *rollback); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, migrationsDir string, rollback bool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := database.EnsureDatabase(ctx, cfg); err != nil {
		return err
	}

	db, err := database.Open(cfg)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if rollback {
		name, err := database.RollbackLast(db, migrationsDir)
		if errors.Is(err, database.ErrNothingToRollback) {
			slog.Info("No migrations to rollback")
			return nil
		}
		if err != nil {
			return err
		}
		slog.Info("Successfully rolled back migration", "name", name)
		return nil
	}

	if err := database.RunMigrations(db, migrationsDir); err != nil {
		return err
	}
	slog.Info("All migrations applied successfully")
	return nil
}
