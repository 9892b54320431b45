package config

import (
	"log/slog"
	"testing"
	"time"
)

// clearEnvVars unsets every config-relevant environment variable for the test
func clearEnvVars(t *testing.T) {
	t.Helper()
	vars := []string{
		"PORT", "TEMP_DIR", "CHUNK_SIZE", "MAX_SIMPLE_UPLOAD_SIZE",
		"MAX_CONCURRENT_SESSIONS", "SESSION_MAX_AGE", "CLEANUP_INTERVAL",
		"LOG_LEVEL", "B2_ENDPOINT", "B2_REGION", "B2_APPLICATION_KEY_ID",
		"B2_APPLICATION_KEY", "B2_BUCKET_NAME", "B2_PUBLIC_URL",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}
}

func TestLoad_DefaultConfiguration(t *testing.T) {
	clearEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() with defaults failed: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.ChunkSize != 4*1024*1024 {
		t.Errorf("ChunkSize = %d, want %d", cfg.ChunkSize, 4*1024*1024)
	}
	if cfg.MaxSimpleUploadSize != 4*1024*1024 {
		t.Errorf("MaxSimpleUploadSize = %d, want %d", cfg.MaxSimpleUploadSize, 4*1024*1024)
	}
	if cfg.MaxConcurrentSessions != 3 {
		t.Errorf("MaxConcurrentSessions = %d, want 3", cfg.MaxConcurrentSessions)
	}
	if cfg.SessionMaxAge != 5*time.Minute {
		t.Errorf("SessionMaxAge = %s, want 5m", cfg.SessionMaxAge)
	}
	if cfg.CleanupInterval != 1*time.Minute {
		t.Errorf("CleanupInterval = %s, want 1m", cfg.CleanupInterval)
	}
	if cfg.B2Region != "us-west-004" {
		t.Errorf("B2Region = %s, want us-west-004", cfg.B2Region)
	}
	if cfg.TempDir == "" {
		t.Error("TempDir should default to the OS temp dir, got empty")
	}
}

func TestLoad_CustomConfiguration(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("PORT", "9090")
	t.Setenv("CHUNK_SIZE", "1048576")
	t.Setenv("MAX_CONCURRENT_SESSIONS", "10")
	t.Setenv("SESSION_MAX_AGE", "90s")
	t.Setenv("CLEANUP_INTERVAL", "30s")
	t.Setenv("B2_ENDPOINT", "https://s3.us-west-004.backblazeb2.com")
	t.Setenv("B2_BUCKET_NAME", "wedding-media")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9090" {
		t.Errorf("Port = %s, want 9090", cfg.Port)
	}
	if cfg.ChunkSize != 1048576 {
		t.Errorf("ChunkSize = %d, want 1048576", cfg.ChunkSize)
	}
	if cfg.MaxConcurrentSessions != 10 {
		t.Errorf("MaxConcurrentSessions = %d, want 10", cfg.MaxConcurrentSessions)
	}
	if cfg.SessionMaxAge != 90*time.Second {
		t.Errorf("SessionMaxAge = %s, want 90s", cfg.SessionMaxAge)
	}
	if cfg.CleanupInterval != 30*time.Second {
		t.Errorf("CleanupInterval = %s, want 30s", cfg.CleanupInterval)
	}
	if cfg.B2Bucket != "wedding-media" {
		t.Errorf("B2Bucket = %s, want wedding-media", cfg.B2Bucket)
	}
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	clearEnvVars(t)
	t.Setenv("CHUNK_SIZE", "not-a-number")
	t.Setenv("MAX_CONCURRENT_SESSIONS", "lots")
	t.Setenv("SESSION_MAX_AGE", "eventually")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.ChunkSize != 4*1024*1024 {
		t.Errorf("ChunkSize = %d, want default %d", cfg.ChunkSize, 4*1024*1024)
	}
	if cfg.MaxConcurrentSessions != 3 {
		t.Errorf("MaxConcurrentSessions = %d, want default 3", cfg.MaxConcurrentSessions)
	}
	if cfg.SessionMaxAge != 5*time.Minute {
		t.Errorf("SessionMaxAge = %s, want default 5m", cfg.SessionMaxAge)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.Port = "" }},
		{"empty temp dir", func(c *Config) { c.TempDir = "" }},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }},
		{"negative chunk size", func(c *Config) { c.ChunkSize = -1 }},
		{"zero simple upload size", func(c *Config) { c.MaxSimpleUploadSize = 0 }},
		{"zero session ceiling", func(c *Config) { c.MaxConcurrentSessions = 0 }},
		{"zero session max age", func(c *Config) { c.SessionMaxAge = 0 }},
		{"zero cleanup interval", func(c *Config) { c.CleanupInterval = 0 }},
		{"non-url endpoint", func(c *Config) { c.B2Endpoint = "s3.backblazeb2.com" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:                  "8080",
				TempDir:               "/tmp",
				ChunkSize:             4 * 1024 * 1024,
				MaxSimpleUploadSize:   4 * 1024 * 1024,
				MaxConcurrentSessions: 3,
				SessionMaxAge:         5 * time.Minute,
				CleanupInterval:       time.Minute,
			}
			tt.mutate(cfg)
			if err := cfg.validate(); err == nil {
				t.Error("validate() should have failed, got nil")
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		cfg := &Config{LogLevel: tt.level}
		if got := cfg.SlogLevel(); got != tt.want {
			t.Errorf("SlogLevel(%q) = %v, want %v", tt.level, got, tt.want)
		}
	}
}
