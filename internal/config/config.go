package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration loaded from environment variables
type Config struct {
	// Database configuration
	DatabasePath string

	// Platform API key
	YouTubeAPIKey string

	// Polling configuration
	PollInterval time.Duration
	Timezone     string
	Location     *time.Location

	// Target projection configuration
	TargetInterval time.Duration

	// Server configuration
	ServerPort   string
	SeedDemoData bool
}

// Load reads configuration from environment variables and returns a Config instance
func Load() (*Config, error) {
	cfg := &Config{
		DatabasePath:  getEnvOrDefault("DATABASE_PATH", "./data/view-tracker.db"),
		YouTubeAPIKey: os.Getenv("YOUTUBE_API_KEY"),
		Timezone:      getEnvOrDefault("TIMEZONE", "Asia/Kolkata"),
		ServerPort:    getEnvOrDefault("SERVER_PORT", "8080"),
	}

	pollInterval, err := time.ParseDuration(getEnvOrDefault("POLL_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid POLL_INTERVAL format: %w", err)
	}
	cfg.PollInterval = pollInterval

	targetInterval, err := time.ParseDuration(getEnvOrDefault("TARGET_INTERVAL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_INTERVAL format: %w", err)
	}
	cfg.TargetInterval = targetInterval

	seedDemoData, err := strconv.ParseBool(getEnvOrDefault("SEED_DEMO_DATA", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO_DATA format: %w", err)
	}
	cfg.SeedDemoData = seedDemoData

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", cfg.Timezone, err)
	}
	cfg.Location = loc

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that all required configuration values are present and valid
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH cannot be empty")
	}
	if c.ServerPort == "" {
		return fmt.Errorf("SERVER_PORT cannot be empty")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %v", c.PollInterval)
	}
	if c.TargetInterval <= 0 {
		return fmt.Errorf("TARGET_INTERVAL must be positive, got %v", c.TargetInterval)
	}
	return nil
}

// LogConfiguration logs all loaded configuration values, excluding secrets
func (c *Config) LogConfiguration() {
	log.Println("=== Application Configuration ===")
	log.Printf("Database Path: %s", c.DatabasePath)
	log.Printf("YouTube API Key: %s", maskSecret(c.YouTubeAPIKey))
	log.Printf("Poll Interval: %v", c.PollInterval)
	log.Printf("Target Interval: %v", c.TargetInterval)
	log.Printf("Timezone: %s", c.Timezone)
	log.Printf("Server Port: %s", c.ServerPort)

	if c.YouTubeAPIKey == "" {
		log.Println("WARNING: YOUTUBE_API_KEY not set - view counts will not update")
	}

	log.Println("=================================")
}

// getEnvOrDefault returns the environment variable value or a default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// maskSecret masks a secret string for logging, showing only first 4 characters
func maskSecret(secret string) string {
	if secret == "" {
		return "[not set]"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:4] + "****"
}
