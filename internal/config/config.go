package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Config holds all configuration for the application.
type Config struct {
	AppEnv    string
	HTTPPort  int
	DBPath    string
	DBDriver  string
	RedisAddr string

	JWTSecret string
	TokenTTL  time.Duration

	GeminiAPIKey  string
	GeminiBaseURL string
	GeminiModel   string

	CORSOrigins []string

	SMTPAddr string
	SMTPFrom string

	AnalysisRetentionDays int
	TaskWorkers           int
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() *Config {
	return &Config{
		AppEnv:    getEnv("APP_ENV", "development"),
		HTTPPort:  getEnvInt("HTTP_PORT", 8000),
		DBPath:    getEnv("DB_PATH", "./data/dance.db"),
		DBDriver:  getEnv("DB_DRIVER", "sqlite3"),
		RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,

		GeminiAPIKey:  getEnv("GEMINI_API_KEY", ""),
		GeminiBaseURL: getEnv("GEMINI_BASE_URL", ""),
		GeminiModel:   getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "")),

		SMTPAddr: getEnv("SMTP_ADDR", ""),
		SMTPFrom: getEnv("SMTP_FROM", "noreply@dance-analyzer.local"),

		AnalysisRetentionDays: getEnvInt("ANALYSIS_RETENTION_DAYS", 90),
		TaskWorkers:           getEnvInt("TASK_WORKERS", 4),
	}
}

// NewLogger creates a new Zap logger based on the config.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.AppEnv == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	val, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return val
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
