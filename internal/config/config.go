package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	RateLimit     RateLimitConfig
	Notifications NotificationConfig
	SeedDemoData  bool
}

type ServerConfig struct {
	Port        string
	Environment string
}

type DatabaseConfig struct {
	Path string
}

type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

type NotificationConfig struct {
	AllowByDefault bool
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	rateLimitWindow, err := time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m"))
	if err != nil {
		rateLimitWindow = 1 * time.Minute
	}

	rateLimitReqs, _ := strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "100"))
	seedDemo, _ := strconv.ParseBool(getEnv("SEED_DEMO_DATA", "false"))
	allowNotifications, _ := strconv.ParseBool(getEnv("NOTIFICATIONS_ALLOWED", "true"))

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "./data/medremind.db"),
		},
		RateLimit: RateLimitConfig{
			Requests: rateLimitReqs,
			Window:   rateLimitWindow,
		},
		Notifications: NotificationConfig{
			AllowByDefault: allowNotifications,
		},
		SeedDemoData: seedDemo,
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
