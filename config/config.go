package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "dev-secret-change-me"

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment

	// Server configuration
	ServerHost      string
	ServerPort      string
	ShutdownTimeout time.Duration
	CORSOrigins     []string

	// Database configuration
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis is optional. Without it rate limiting is off and revoked tokens
	// are tracked in process memory.
	RedisURL string

	// JWT configuration
	JWTSecret string
	JWTTTL    time.Duration

	// Rate limits, requests per window per client
	LoginRateLimit  int
	ReportRateLimit int
	RateLimitWindow time.Duration

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string

	// Reports render timestamps in this zone
	ReportTimezone string

	// S3 archive, disabled when the bucket is empty
	S3Bucket     string
	AWSRegion    string
	ReportURLTTL time.Duration
}

// LoadConfig reads .env (if present), the environment and docker secrets,
// then validates the result.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	cfg := loadFromEnv()
	applySecrets(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func loadFromEnv() *Config {
	return &Config{
		Env: GetEnvironment(),

		ServerHost:      getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
		ServerPort:      getEnvOrDefault("SERVER_PORT", "8080"),
		ShutdownTimeout: getDurationEnvOrDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
		CORSOrigins:     getListEnvOrDefault("CORS_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),

		DBDriver:   strings.ToLower(getEnvOrDefault("DB_DRIVER", DriverSQLite)),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBUser:     getEnvOrDefault("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnvOrDefault("DB_NAME", "dia"),
		DBSSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		SQLitePath: getEnvOrDefault("SQLITE_PATH", "data/dia.db"),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret: getEnvOrDefault("JWT_SECRET", DefaultJWTSecret),
		JWTTTL:    getDurationEnvOrDefault("JWT_TTL", 24*time.Hour),

		LoginRateLimit:  getIntEnvOrDefault("LOGIN_RATE_LIMIT", 10),
		ReportRateLimit: getIntEnvOrDefault("REPORT_RATE_LIMIT", 30),
		RateLimitWindow: getDurationEnvOrDefault("RATE_LIMIT_WINDOW", time.Minute),

		LogLevel:  getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "json"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stdout"),

		ReportTimezone: getEnvOrDefault("REPORT_TIMEZONE", "America/Sao_Paulo"),

		S3Bucket:     os.Getenv("S3_BUCKET_NAME"),
		AWSRegion:    getEnvOrDefault("AWS_REGION", "us-east-1"),
		ReportURLTTL: getDurationEnvOrDefault("REPORT_URL_TTL", 15*time.Minute),
	}
}

// applySecrets overrides sensitive values with docker secrets when present.
func applySecrets(cfg *Config) {
	overrides := map[string]*string{
		"db_user":     &cfg.DBUser,
		"db_password": &cfg.DBPassword,
		"jwt_secret":  &cfg.JWTSecret,
		"redis_url":   &cfg.RedisURL,
	}
	for name, field := range overrides {
		if value := readSecret(name); value != "" {
			*field = value
		}
	}
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds a keyword/value DSN for the configured database.
func (c *Config) PostgresDSN() string {
	return c.postgresDSN(c.DBName)
}

// MaintenanceDSN points at the postgres database, used to create DBName.
func (c *Config) MaintenanceDSN() string {
	return c.postgresDSN("postgres")
}

func (c *Config) postgresDSN(dbName string) string {
	dsn := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, dbName, c.DBSSLMode)
	if c.DBPassword != "" {
		dsn += " password=" + c.DBPassword
	}
	return dsn
}

// ReportLocation resolves ReportTimezone, falling back to UTC.
func (c *Config) ReportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ReportTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
