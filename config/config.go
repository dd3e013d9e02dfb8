package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tradeLedger/internal/adapters/logger" // Import the logger package for LogLevel
	"tradeLedger/internal/analytics"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DBPath string

	// Logging
	LogLevel  logger.LogLevel
	LogFormat string // "json" or "console"

	// HTTP API
	HTTPAddr        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Chart limits
	Limits analytics.Limits
}

// LoadConfig loads configuration from environment variables (.env file).
func LoadConfig() (*Config, error) {
	// Load .env file, but don't fail if it doesn't exist (allow pure env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	var err error
	var errs []string // Collect validation errors

	// Database
	cfg.DBPath = getEnv("DB_PATH", "./data/trade_ledger.db")

	// Logging
	cfg.LogLevel = logger.ParseLevel(getEnv("LOG_LEVEL", "INFO"))
	cfg.LogFormat = strings.ToLower(getEnv("LOG_FORMAT", "json"))
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		errs = append(errs, "LOG_FORMAT must be json or console")
	}

	// HTTP API
	cfg.HTTPAddr = getEnv("HTTP_ADDR", ":8080")

	cfg.ReadTimeout, err = getEnvAsSeconds("HTTP_READ_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.WriteTimeout, err = getEnvAsSeconds("HTTP_WRITE_TIMEOUT_SECONDS", 15)
	if err != nil {
		errs = append(errs, err.Error())
	}
	cfg.ShutdownTimeout, err = getEnvAsSeconds("SHUTDOWN_TIMEOUT_SECONDS", 10)
	if err != nil {
		errs = append(errs, err.Error())
	}

	// Chart limits
	cfg.Limits.MaxEquityGroups, err = getEnvAsIntRequired("EQUITY_MAX_GROUPS", analytics.DefaultMaxEquityGroups)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid EQUITY_MAX_GROUPS: %v", err))
	} else if cfg.Limits.MaxEquityGroups <= 0 {
		errs = append(errs, "EQUITY_MAX_GROUPS must be positive")
	}

	cfg.Limits.BreakdownLimit, err = getEnvAsIntRequired("BREAKDOWN_LIMIT", analytics.DefaultBreakdownLimit)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BREAKDOWN_LIMIT: %v", err))
	} else if cfg.Limits.BreakdownLimit <= 0 {
		errs = append(errs, "BREAKDOWN_LIMIT must be positive")
	}

	cfg.Limits.BreakdownLimitEnlarged, err = getEnvAsIntRequired("BREAKDOWN_LIMIT_ENLARGED", analytics.DefaultBreakdownLimitEnlarged)
	if err != nil {
		errs = append(errs, fmt.Sprintf("invalid BREAKDOWN_LIMIT_ENLARGED: %v", err))
	} else if cfg.Limits.BreakdownLimitEnlarged <= 0 {
		errs = append(errs, "BREAKDOWN_LIMIT_ENLARGED must be positive")
	}

	if cfg.Limits.BreakdownLimit > cfg.Limits.BreakdownLimitEnlarged {
		errs = append(errs, "BREAKDOWN_LIMIT must not exceed BREAKDOWN_LIMIT_ENLARGED")
	}

	// Combine validation errors
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

func getEnvAsIntRequired(key string, defaultValue int) (int, error) {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		// Use default if env var is not set at all
		return defaultValue, nil
	}
	value, err := strconv.Atoi(strings.TrimSpace(valueStr))
	if err != nil {
		return 0, fmt.Errorf("invalid integer value '%s' for key %s: %w", valueStr, key, err)
	}
	return value, nil
}

func getEnvAsSeconds(key string, defaultSeconds int) (time.Duration, error) {
	seconds, err := getEnvAsIntRequired(key, defaultSeconds)
	if err != nil {
		return 0, err
	}
	if seconds <= 0 {
		return 0, fmt.Errorf("%s must be positive", key)
	}
	return time.Duration(seconds) * time.Second, nil
}
