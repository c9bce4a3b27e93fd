package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"etfTracker/internal/adapters/logger" // Import the logger package for LogLevel
)

// Config holds all infrastructure configuration. Trading-discipline settings
// (targets, thresholds, daily caps) live in the database settings table and
// are not configured here.
type Config struct {
	// HTTP server
	ListenAddr string

	// Database
	DBPath string

	// Market data
	QuoteBaseURL string
	QuoteTimeout time.Duration

	// Logging
	LogLevel logger.LogLevel // Use the LogLevel type from the logger adapter
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var errs []string // Collect validation errors

	cfg.ListenAddr = getEnv("LISTEN_ADDR", ":8080")
	if cfg.ListenAddr == "" {
		errs = append(errs, "LISTEN_ADDR must be set")
	}

	cfg.DBPath = getEnv("DB_PATH", "./data/etf_tracker.db")
	if cfg.DBPath == "" {
		errs = append(errs, "DB_PATH must be set")
	}

	cfg.QuoteBaseURL = getEnv("QUOTE_BASE_URL", "")

	quoteTimeoutSeconds := getEnvAsInt("QUOTE_TIMEOUT_SECONDS", 8)
	if quoteTimeoutSeconds <= 0 {
		errs = append(errs, "QUOTE_TIMEOUT_SECONDS must be positive")
	}
	cfg.QuoteTimeout = time.Duration(quoteTimeoutSeconds) * time.Second

	logLevelStr := getEnv("LOG_LEVEL", "INFO")
	cfg.LogLevel = logger.ParseLevel(logLevelStr) // Use the parser from the logger package

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}

	return cfg, nil
}

// --- Env Var Helpers ---

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
