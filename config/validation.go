package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks the configuration for the environment it was loaded in.
func ValidateConfig(cfg *Config) error {
	var errs []string
	add := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg}.Error())
	}

	switch cfg.DBDriver {
	case DriverPostgres:
		if cfg.DBHost == "" || cfg.DBName == "" {
			add("DB_HOST", "host and database name are required for postgres")
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			add("SQLITE_PATH", "path is required for sqlite")
		}
	default:
		add("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	if cfg.JWTSecret == "" {
		add("JWT_SECRET", "must be set")
	}
	if cfg.JWTTTL <= 0 {
		add("JWT_TTL", "must be positive")
	}
	if cfg.RateLimitWindow <= 0 {
		add("RATE_LIMIT_WINDOW", "must be positive")
	}
	if cfg.ReportURLTTL <= 0 || cfg.ReportURLTTL > 7*24*time.Hour {
		add("REPORT_URL_TTL", "must be between 0 and 7 days")
	}
	if _, err := time.LoadLocation(cfg.ReportTimezone); err != nil {
		add("REPORT_TIMEZONE", err.Error())
	}

	if cfg.Env == Production || cfg.Env == CI {
		if cfg.JWTSecret == DefaultJWTSecret {
			add("JWT_SECRET", "default secret is not allowed in "+string(cfg.Env))
		}
	}
	if cfg.Env == Production {
		if cfg.DBDriver != DriverPostgres {
			add("DB_DRIVER", "production requires postgres")
		}
		if cfg.DBPassword == "" {
			add("DB_PASSWORD", "required in production (env or db_password secret)")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}
	return nil
}
