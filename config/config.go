package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds the application configuration.
type Config struct {
	Port           string
	ScholarBaseURL string
	HTTPTimeout    time.Duration

	// Loading budget.
	LoadMaxAttempts int
	GrowthTimeout   time.Duration
	SettleDelay     time.Duration

	// LogLevel: "debug", "info", "warn" or "error".
	LogLevel string
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		ScholarBaseURL:  getEnv("SCHOLAR_BASE_URL", "https://scholar.google.com"),
		HTTPTimeout:     getDurationMS("HTTP_TIMEOUT_MS", 30*time.Second),
		LoadMaxAttempts: getInt("LOAD_MAX_ATTEMPTS", 200),
		GrowthTimeout:   getDurationMS("LOAD_GROWTH_TIMEOUT_MS", 8*time.Second),
		SettleDelay:     getDurationMS("LOAD_SETTLE_DELAY_MS", 300*time.Millisecond),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getDurationMS(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return time.Duration(n) * time.Millisecond
		}
	}
	return defaultValue
}
