package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Entity resolution
	ResolutionWindow     time.Duration
	ResolutionBatchLimit int

	// Intelligence computation
	AssumedStake   float64
	ReferenceBooks []string

	// Serve mode
	PipelineInterval time.Duration

	// Storage
	StorageMode  string // "postgres" or "memory"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Resolution defaults
		ResolutionWindow:     getDurationOrDefault("RESOLUTION_WINDOW", 90*time.Minute),
		ResolutionBatchLimit: getIntOrDefault("RESOLUTION_BATCH_LIMIT", 5000),

		// Intelligence defaults
		AssumedStake:   getFloat64OrDefault("ASSUMED_STAKE", 100.0),
		ReferenceBooks: getListOrDefault("REFERENCE_BOOKS", []string{"pinnacle"}),

		// Serve mode defaults
		PipelineInterval: getDurationOrDefault("PIPELINE_INTERVAL", 1*time.Minute),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "memory"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "oddsintel"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "oddsintel123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "odds_intel"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.ResolutionWindow <= 0 {
		return fmt.Errorf("RESOLUTION_WINDOW must be positive, got %s", c.ResolutionWindow)
	}

	if c.ResolutionBatchLimit <= 0 {
		return fmt.Errorf("RESOLUTION_BATCH_LIMIT must be positive, got %d", c.ResolutionBatchLimit)
	}

	if c.AssumedStake <= 0 {
		return fmt.Errorf("ASSUMED_STAKE must be positive, got %f", c.AssumedStake)
	}

	if len(c.ReferenceBooks) == 0 {
		return fmt.Errorf("REFERENCE_BOOKS cannot be empty")
	}

	if c.StorageMode != "postgres" && c.StorageMode != "memory" {
		return fmt.Errorf("STORAGE_MODE must be 'postgres' or 'memory', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
