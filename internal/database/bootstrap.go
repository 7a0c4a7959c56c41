package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/dia-app/dia/backend/config"
)

// EnsureDatabase creates cfg.DBName on the postgres server if it is missing.
// It connects through the maintenance database with lib/pq.
func EnsureDatabase(ctx context.Context, cfg *config.Config) error {
	if cfg.DBDriver != config.DriverPostgres {
		return nil
	}

	conn, err := sql.Open("postgres", cfg.MaintenanceDSN())
	if err != nil {
		return fmt.Errorf("error opening maintenance connection: %w", err)
	}
	defer conn.Close()

	var exists bool
	err = conn.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM pg_database WHERE datname = $1)", cfg.DBName,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("error checking database %s: %w", cfg.DBName, err)
	}
	if exists {
		return nil
	}

	if _, err := conn.ExecContext(ctx, "CREATE DATABASE "+pq.QuoteIdentifier(cfg.DBName)); err != nil {
		var pqErr *pq.Error
		// another migrator may have created it concurrently
		if errors.As(err, &pqErr) && pqErr.Code == "42P04" {
			return nil
		}
		return fmt.Errorf("error creating database %s: %w", cfg.DBName, err)
	}

	slog.Info("Created database", "name", cfg.DBName)
	return nil
}
