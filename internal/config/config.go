package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port  string
	Debug bool

	// Upstream leaderboard API
	UpstreamBaseURL string
	FetchTimeout    time.Duration

	// Pagination
	MaxPages     int
	PageSizeHint int

	// Snapshot cache
	CacheTTL time.Duration

	// Optional background snapshot warmer
	EnableSnapshotWarmer bool

	// CORS
	AllowedOrigins []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:  getEnv("PORT", "8080"),
		Debug: getBoolEnv("DEBUG", false),

		UpstreamBaseURL: getEnv("UPSTREAM_BASE_URL", "https://leaderboard.zama.ai/api/leaderboard"),
		FetchTimeout:    time.Duration(getIntEnv("FETCH_TIMEOUT_SECONDS", 15)) * time.Second,

		MaxPages:     getIntEnv("MAX_PAGES", 20),
		PageSizeHint: getIntEnv("PAGE_SIZE_HINT", 100),

		CacheTTL: time.Duration(getIntEnv("CACHE_TTL_SECONDS", 300)) * time.Second,

		EnableSnapshotWarmer: getBoolEnv("ENABLE_SNAPSHOT_WARMER", false),

		AllowedOrigins: getSliceEnv("ALLOWED_ORIGINS", []string{"*"}),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.UpstreamBaseURL == "" {
		return fmt.Errorf("UPSTREAM_BASE_URL must not be empty")
	}
	if _, err := url.Parse(c.UpstreamBaseURL); err != nil {
		return fmt.Errorf("UPSTREAM_BASE_URL is not a valid URL: %w", err)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("MAX_PAGES must be at least 1")
	}
	if c.PageSizeHint < 1 {
		return fmt.Errorf("PAGE_SIZE_HINT must be at least 1")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL_SECONDS must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getSliceEnv(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		return strings.Split(value, ",")
	}
	return defaultValue
}
