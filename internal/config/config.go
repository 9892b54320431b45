package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port                  string
	TempDir               string        // Scratch area for in-flight chunked uploads
	ChunkSize             int64         // Expected chunk payload size in bytes
	MaxSimpleUploadSize   int64         // Files above this must use the chunked path
	MaxConcurrentSessions int           // Ceiling on open chunked sessions per receiver
	SessionMaxAge         time.Duration // Age after which orphaned session dirs are swept
	CleanupInterval       time.Duration // Janitor sweep interval
	LogLevel              string

	// Backblaze B2 (S3-compatible) object storage
	B2Endpoint  string
	B2Region    string
	B2KeyID     string
	B2Key       string
	B2Bucket    string
	B2PublicURL string // Base URL for publicly resolvable file links
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		TempDir:               getEnv("TEMP_DIR", os.TempDir()),
		ChunkSize:             getEnvInt64("CHUNK_SIZE", 4*1024*1024), // 4MB, fits under hosting body limits
		MaxSimpleUploadSize:   getEnvInt64("MAX_SIMPLE_UPLOAD_SIZE", 4*1024*1024),
		MaxConcurrentSessions: getEnvInt("MAX_CONCURRENT_SESSIONS", 3),
		SessionMaxAge:         getEnvDuration("SESSION_MAX_AGE", 5*time.Minute),
		CleanupInterval:       getEnvDuration("CLEANUP_INTERVAL", 1*time.Minute),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		B2Endpoint:            getEnv("B2_ENDPOINT", ""),
		B2Region:              getEnv("B2_REGION", "us-west-004"),
		B2KeyID:               getEnv("B2_APPLICATION_KEY_ID", ""),
		B2Key:                 getEnv("B2_APPLICATION_KEY", ""),
		B2Bucket:              getEnv("B2_BUCKET_NAME", ""),
		B2PublicURL:           getEnv("B2_PUBLIC_URL", ""),
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// validate ensures configuration values are sensible
func (c *Config) validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.TempDir == "" {
		return fmt.Errorf("TEMP_DIR cannot be empty")
	}

	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}

	if c.MaxSimpleUploadSize <= 0 {
		return fmt.Errorf("MAX_SIMPLE_UPLOAD_SIZE must be positive, got %d", c.MaxSimpleUploadSize)
	}

	if c.MaxConcurrentSessions <= 0 {
		return fmt.Errorf("MAX_CONCURRENT_SESSIONS must be positive, got %d", c.MaxConcurrentSessions)
	}

	if c.SessionMaxAge <= 0 {
		return fmt.Errorf("SESSION_MAX_AGE must be positive, got %s", c.SessionMaxAge)
	}

	if c.CleanupInterval <= 0 {
		return fmt.Errorf("CLEANUP_INTERVAL must be positive, got %s", c.CleanupInterval)
	}

	if c.B2Endpoint != "" && !strings.HasPrefix(c.B2Endpoint, "http") {
		return fmt.Errorf("B2_ENDPOINT must be a URL, got %q", c.B2Endpoint)
	}

	return nil
}

// SlogLevel maps the configured log level to a slog.Level
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvInt64 retrieves an int64 environment variable or returns a default value
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable ("90s", "5m") or
// returns a default value
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
