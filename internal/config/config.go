package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	S3        S3Config
	Log       LogConfig
	Inference InferenceConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Report    ReportConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// InferenceConfig holds LLM provider settings.
type InferenceConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
	BackoffSecs  int    `mapstructure:"backoff_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-client request throttling settings.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// ReportConfig holds report pipeline settings.
type ReportConfig struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// Load reads configuration from environment variables with the CREDINTEL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CREDINTEL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "credintel")
	v.SetDefault("db.password", "credintel_secret")
	v.SetDefault("db.name", "credintel_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "ap-south-1")
	v.SetDefault("s3.bucket", "credintel-reports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Inference defaults
	v.SetDefault("inference.provider", "openai")
	v.SetDefault("inference.api_key", "")
	v.SetDefault("inference.default_model", "gpt-4o")
	v.SetDefault("inference.max_retries", 4)
	v.SetDefault("inference.timeout_secs", 60)
	v.SetDefault("inference.backoff_secs", 5)

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Rate limit defaults
	v.SetDefault("rate_limit.rps", 2.0)
	v.SetDefault("rate_limit.burst", 5)

	// Report pipeline defaults
	v.SetDefault("report.request_timeout", "180s")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "CREDINTEL_SERVER_PORT",
		"server.read_timeout":     "CREDINTEL_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "CREDINTEL_SERVER_WRITE_TIMEOUT",
		"server.environment":      "CREDINTEL_SERVER_ENVIRONMENT",
		"db.host":                 "CREDINTEL_DB_HOST",
		"db.port":                 "CREDINTEL_DB_PORT",
		"db.user":                 "CREDINTEL_DB_USER",
		"db.password":             "CREDINTEL_DB_PASSWORD",
		"db.name":                 "CREDINTEL_DB_NAME",
		"db.sslmode":              "CREDINTEL_DB_SSLMODE",
		"db.max_open":             "CREDINTEL_DB_MAX_OPEN",
		"db.max_idle":             "CREDINTEL_DB_MAX_IDLE",
		"s3.region":               "CREDINTEL_S3_REGION",
		"s3.bucket":               "CREDINTEL_S3_BUCKET",
		"s3.endpoint":             "CREDINTEL_S3_ENDPOINT",
		"s3.access_key":           "CREDINTEL_S3_ACCESS_KEY",
		"s3.secret_key":           "CREDINTEL_S3_SECRET_KEY",
		"s3.max_file_size_mb":     "CREDINTEL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":       "CREDINTEL_S3_PRESIGN_EXPIRY",
		"log.level":               "CREDINTEL_LOG_LEVEL",
		"log.format":              "CREDINTEL_LOG_FORMAT",
		"inference.provider":      "CREDINTEL_INFERENCE_PROVIDER",
		"inference.api_key":       "CREDINTEL_INFERENCE_API_KEY",
		"inference.default_model": "CREDINTEL_INFERENCE_DEFAULT_MODEL",
		"inference.max_retries":   "CREDINTEL_INFERENCE_MAX_RETRIES",
		"inference.timeout_secs":  "CREDINTEL_INFERENCE_TIMEOUT_SECS",
		"inference.backoff_secs":  "CREDINTEL_INFERENCE_BACKOFF_SECS",
		"cors.allowed_origins":    "CREDINTEL_CORS_ALLOWED_ORIGINS",
		"rate_limit.rps":          "CREDINTEL_RATE_LIMIT_RPS",
		"rate_limit.burst":        "CREDINTEL_RATE_LIMIT_BURST",
		"report.request_timeout":  "CREDINTEL_REPORT_REQUEST_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if CREDINTEL_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("CREDINTEL_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Inference = InferenceConfig{
		Provider:     v.GetString("inference.provider"),
		APIKey:       v.GetString("inference.api_key"),
		DefaultModel: v.GetString("inference.default_model"),
		MaxRetries:   v.GetInt("inference.max_retries"),
		TimeoutSecs:  v.GetInt("inference.timeout_secs"),
		BackoffSecs:  v.GetInt("inference.backoff_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("rate_limit.rps"),
		Burst: v.GetInt("rate_limit.burst"),
	}

	cfg.Report = ReportConfig{
		RequestTimeout: v.GetDuration("report.request_timeout"),
	}

	return cfg, nil
}
