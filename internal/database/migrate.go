package database

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/dia-app/dia/backend/internal/models"
)

// rollbackSuffix marks the file that undoes <name>.sql.
const rollbackSuffix = "_rollback.sql"

// ErrNothingToRollback is returned by RollbackLast on an empty history.
var ErrNothingToRollback = errors.New("no migrations to rollback")

// RunMigrations creates the schema with gorm and, on postgres, applies the
// SQL files in migrationsDir that have not run yet. An empty migrationsDir
// skips the SQL step.
func RunMigrations(db *gorm.DB, migrationsDir string) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to auto-migrate models: %w", err)
	}

	if db.Dialector.Name() != "postgres" || migrationsDir == "" {
		return nil
	}

	entries, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	// Sort files by name to ensure correct order
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	if err := ensureMigrationsTable(db); err != nil {
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") || strings.HasSuffix(name, rollbackSuffix) {
			continue
		}

		var count int64
		if err := db.Table("schema_migrations").Where("name = ?", name).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check migration status: %w", err)
		}
		if count > 0 {
			slog.Debug("Skipping migration", "name", name)
			continue
		}

		content, err := os.ReadFile(filepath.Join(migrationsDir, name))
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", name, err)
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Exec(string(content)).Error; err != nil {
				return err
			}
			return tx.Exec("INSERT INTO schema_migrations (name) VALUES (?)", name).Error
		})
		if err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", name, err)
		}

		slog.Info("Applied migration", "name", name)
	}

	return nil
}

// RollbackLast undoes the most recently applied SQL migration using its
// <name>_rollback.sql companion and returns the migration name.
func RollbackLast(db *gorm.DB, migrationsDir string) (string, error) {
	if db.Dialector.Name() != "postgres" {
		return "", fmt.Errorf("rollback is only supported on postgres")
	}
	if err := ensureMigrationsTable(db); err != nil {
		return "", err
	}

	var names []string
	if err := db.Table("schema_migrations").Order("applied_at DESC, id DESC").Limit(1).Pluck("name", &names).Error; err != nil {
		return "", fmt.Errorf("failed to get last migration: %w", err)
	}
	if len(names) == 0 {
		return "", ErrNothingToRollback
	}
	name := names[0]

	rollbackPath := filepath.Join(migrationsDir, strings.TrimSuffix(name, ".sql")+rollbackSuffix)
	content, err := os.ReadFile(rollbackPath)
	if err != nil {
		return "", fmt.Errorf("failed to read rollback file: %w", err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(string(content)).Error; err != nil {
			return err
		}
		return tx.Exec("DELETE FROM schema_migrations WHERE name = ?", name).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to roll back migration %s: %w", name, err)
	}

	slog.Info("Rolled back migration", "name", name)
	return name, nil
}

func ensureMigrationsTable(db *gorm.DB) error {
	if err := db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			id SERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL UNIQUE,
			applied_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
		)
	`).Error; err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	return nil
}
