package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "development")
	t.Setenv("SECRETS_DIR", t.TempDir())
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5433")
	t.Setenv("DB_USER", "dia")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("DB_NAME", "dia_dev")
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "host=db port=5433 user=dia dbname=dia_dev sslmode=disable password=secret", cfg.PostgresDSN())
	assert.Equal(t, "host=db port=5433 user=dia dbname=postgres sslmode=disable password=secret", cfg.MaintenanceDSN())
	assert.Equal(t, "test-secret", cfg.JWTSecret)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadConfigWithDefaults(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("ENV", "")
	t.Setenv("SECRETS_DIR", t.TempDir())
	for _, key := range []string{"DB_DRIVER", "JWT_SECRET", "JWT_TTL", "REDIS_URL", "S3_BUCKET_NAME", "REPORT_TIMEZONE", "SERVER_HOST", "SERVER_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, Development, cfg.Env)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, DefaultJWTSecret, cfg.JWTSecret)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, "0.0.0.0:8080", cfg.Addr())
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "America/Sao_Paulo", cfg.ReportLocation().String())
}

func TestSecretsOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("from-secret\n"), 0600))
	t.Setenv("SECRETS_DIR", dir)
	t.Setenv("CI", "")
	t.Setenv("ENV", "test")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "from-secret", cfg.JWTSecret)
}

func TestValidateConfigProduction(t *testing.T) {
	cfg := loadFromEnv()
	cfg.Env = Production
	cfg.DBDriver = DriverSQLite
	cfg.JWTSecret = DefaultJWTSecret
	cfg.DBPassword = ""

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "production requires postgres")
	assert.Contains(t, err.Error(), "default secret is not allowed")
	assert.Contains(t, err.Error(), "DB_PASSWORD")

	cfg.DBDriver = DriverPostgres
	cfg.JWTSecret = "a-real-secret"
	cfg.DBPassword = "pw"
	assert.NoError(t, ValidateConfig(cfg))
}

func TestValidateConfigRejectsBadValues(t *testing.T) {
	cfg := loadFromEnv()
	cfg.Env = Development
	cfg.DBDriver = "mysql"
	cfg.JWTTTL = 0
	cfg.ReportTimezone = "Mars/Olympus"

	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver")
	assert.Contains(t, err.Error(), "JWT_TTL")
	assert.Contains(t, err.Error(), "REPORT_TIMEZONE")
}

func TestNewS3ConfigDisabledWithoutBucket(t *testing.T) {
	s3cfg, err := NewS3Config(context.Background(), &Config{})
	assert.NoError(t, err)
	assert.Nil(t, s3cfg)
}
