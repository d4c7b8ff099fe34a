// Package config provides configuration loading and validation from environment variables.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
)

// Config holds all application configuration.
type Config struct {
	LogLevel          string   // debug, info, warn, error
	ListenAddr        string   // Server listen address (e.g., ":8080")
	MetricsListenAddr string   // Metrics listener address (e.g., "localhost:9090")
	DatabasePath      string   // SQLite database path
	RedisAddr         string   // Optional: cache store address (empty = no cache)
	AllowedOrigins    []string // scheme+host values accepted by the origin guard
	CookieSecure      bool     // Set the Secure flag on auth cookies

	// JWTSecret signs access tokens. Required, at least 32 bytes.
	JWTSecret []byte

	// FieldKey encrypts/decrypts sensitive applicant fields. Optional at
	// startup; operations that need it fail if it is absent.
	FieldKey []byte
}

// Load parses configuration from environment variables.
// Optional fields have defaults suitable for local development.
func Load() (*Config, error) {
	cfg := &Config{
		LogLevel:          os.Getenv("LOG_LEVEL"),
		ListenAddr:        os.Getenv("LISTEN_ADDR"),
		MetricsListenAddr: os.Getenv("METRICS_LISTEN_ADDR"),
		DatabasePath:      os.Getenv("DATABASE_PATH"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		CookieSecure:      os.Getenv("COOKIE_SECURE") == "true",
		JWTSecret:         []byte(os.Getenv("JWT_SECRET")),
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}
	if cfg.MetricsListenAddr == "" {
		cfg.MetricsListenAddr = "localhost:9090"
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = "/data/admin.db"
	}

	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		if origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if encoded := os.Getenv("FIELD_ENCRYPTION_KEY"); encoded != "" {
		key, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("FIELD_ENCRYPTION_KEY is not valid base64: %w", err)
		}
		if len(key) != 32 {
			return nil, fmt.Errorf("FIELD_ENCRYPTION_KEY must decode to 32 bytes, got %d", len(key))
		}
		cfg.FieldKey = key
	}

	return cfg, nil
}

// Validate checks all configuration constraints.
// A missing or short JWT secret is a startup failure: the server cannot
// issue or verify sessions without it.
func (c *Config) Validate() error {
	if len(c.JWTSecret) == 0 {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes, got %d", len(c.JWTSecret))
	}
	return nil
}
