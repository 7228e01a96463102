package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credintel/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "development", cfg.Server.Environment)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, "credintel-reports", cfg.S3.Bucket)
	assert.Equal(t, "openai", cfg.Inference.Provider)
	assert.Equal(t, "gpt-4o", cfg.Inference.DefaultModel)
	assert.Equal(t, 4, cfg.Inference.MaxRetries)
	assert.Equal(t, 5, cfg.Inference.BackoffSecs)
	assert.Equal(t, 2.0, cfg.RateLimit.RPS)
	assert.Equal(t, 5, cfg.RateLimit.Burst)
	assert.Equal(t, 180*time.Second, cfg.Report.RequestTimeout)
	assert.Contains(t, cfg.CORS.AllowedOrigins, "http://localhost:3000")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("CREDINTEL_SERVER_PORT", ":9999")
	t.Setenv("CREDINTEL_DB_HOST", "db.internal")
	t.Setenv("CREDINTEL_INFERENCE_PROVIDER", "anthropic")
	t.Setenv("CREDINTEL_INFERENCE_MAX_RETRIES", "2")
	t.Setenv("CREDINTEL_CORS_ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("CREDINTEL_REPORT_REQUEST_TIMEOUT", "30s")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
	assert.Equal(t, "anthropic", cfg.Inference.Provider)
	assert.Equal(t, 2, cfg.Inference.MaxRetries)
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 30*time.Second, cfg.Report.RequestTimeout)
}

func TestLoad_PlatformPortFallback(t *testing.T) {
	t.Setenv("PORT", "7070")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Port)
}

func TestLoad_ExplicitPortBeatsPlatformPort(t *testing.T) {
	t.Setenv("PORT", "7070")
	t.Setenv("CREDINTEL_SERVER_PORT", ":6060")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":6060", cfg.Server.Port)
}

func TestDSN(t *testing.T) {
	db := config.DBConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p",
		Name: "credintel_db", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/credintel_db?sslmode=disable", db.DSN())
}
