// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the LeFarm server configuration from the environment.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
	"your-super-secret-jwt-key-change-in-production",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"LEFARM_DB_PATH" envDefault:"./data/lefarm.db"`
	ServerHost string `env:"LEFARM_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"LEFARM_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"LEFARM_ENV" envDefault:"development"`
	LogLevel   string `env:"LEFARM_LOG_LEVEL" envDefault:"info"`

	// Admin authentication
	JWTSecret string        `env:"LEFARM_JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"LEFARM_TOKEN_TTL" envDefault:"168h"`

	// Initial admin account
	AdminEmail    string `env:"LEFARM_ADMIN_EMAIL" envDefault:"admin@lefarm.vn"`
	AdminPassword string `env:"LEFARM_ADMIN_PASSWORD"`
	AdminName     string `env:"LEFARM_ADMIN_NAME" envDefault:"Admin"`
	Reseed        bool   `env:"LEFARM_RESEED" envDefault:"false"`

	// SMTP
	SMTPHost     string `env:"LEFARM_SMTP_HOST"`
	SMTPPort     int    `env:"LEFARM_SMTP_PORT" envDefault:"587"`
	SMTPUser     string `env:"LEFARM_SMTP_USER"`
	SMTPPassword string `env:"LEFARM_SMTP_PASSWORD"`
	SMTPFrom     string `env:"LEFARM_SMTP_FROM" envDefault:"LeFarm <no-reply@lefarm.vn>"`
	AdminNotify  string `env:"LEFARM_ADMIN_NOTIFY_EMAIL"` // Receives new-lead notifications; falls back to SMTPUser

	// Cloudinary
	CloudinaryCloudName string `env:"LEFARM_CLOUDINARY_CLOUD_NAME"`
	CloudinaryAPIKey    string `env:"LEFARM_CLOUDINARY_API_KEY"`
	CloudinaryAPISecret string `env:"LEFARM_CLOUDINARY_API_SECRET"`
	UploadMaxBytes      int64  `env:"LEFARM_UPLOAD_MAX_BYTES" envDefault:"10485760"`
	UploadMaxDimension  int    `env:"LEFARM_UPLOAD_MAX_DIMENSION" envDefault:"2048"`

	// Cache configuration
	RedisURL     string        `env:"LEFARM_REDIS_URL"` // Optional Redis URL for shared caching
	CachePrefix  string        `env:"LEFARM_CACHE_PREFIX" envDefault:"lefarm:"`
	CacheTTL     time.Duration `env:"LEFARM_CACHE_TTL" envDefault:"5m"`
	CacheMaxSize int           `env:"LEFARM_CACHE_MAX_SIZE" envDefault:"1000"`

	// GeoIP configuration
	GeoIPDBPath string `env:"LEFARM_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Storefront
	CORSOrigins        []string `env:"LEFARM_CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	VisitRetentionDays int      `env:"LEFARM_VISIT_RETENTION_DAYS" envDefault:"365"`
	LeadRateLimit      int      `env:"LEFARM_LEAD_RATE_LIMIT" envDefault:"5"` // Lead submissions per IP per minute
	PublicRateLimit    float64  `env:"LEFARM_PUBLIC_RATE_LIMIT" envDefault:"10"` // Public API requests per second per IP
	PublicRateBurst    int      `env:"LEFARM_PUBLIC_RATE_BURST" envDefault:"30"`

	// Operational events kept for the admin event log
	EventRetention time.Duration `env:"LEFARM_EVENT_RETENTION" envDefault:"2160h"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// SMTPEnabled returns true if outgoing mail is configured.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPUser != "" && c.SMTPPassword != ""
}

// CloudinaryEnabled returns true if image hosting credentials are present.
func (c Config) CloudinaryEnabled() bool {
	return c.CloudinaryCloudName != "" && c.CloudinaryAPIKey != "" && c.CloudinaryAPISecret != ""
}

// AdminNotifyAddress returns the mailbox that receives lead notifications.
func (c Config) AdminNotifyAddress() string {
	if c.AdminNotify != "" {
		return c.AdminNotify
	}
	return c.SMTPUser
}

// MinJWTSecretLength is the minimum required length for the token signing key.
const MinJWTSecretLength = 32

// Load reads an optional .env file, parses environment variables and
// validates the result.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing file is fine; real environment wins over file values
		_ = godotenv.Load(f)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("LEFARM_JWT_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinJWTSecretLength, len(c.JWTSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.JWTSecret == weak {
			return fmt.Errorf("LEFARM_JWT_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.JWTSecret) {
		slog.Warn("LEFARM_JWT_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	switch c.Env {
	case "development", "production":
	default:
		return fmt.Errorf("LEFARM_ENV must be development or production, got %q", c.Env)
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("LEFARM_SERVER_PORT out of range: %d", c.ServerPort)
	}
	if c.UploadMaxBytes <= 0 {
		return fmt.Errorf("LEFARM_UPLOAD_MAX_BYTES must be positive")
	}
	if c.PublicRateLimit <= 0 || c.PublicRateBurst <= 0 {
		return fmt.Errorf("LEFARM_PUBLIC_RATE_LIMIT and LEFARM_PUBLIC_RATE_BURST must be positive")
	}
	if c.VisitRetentionDays < 0 {
		return fmt.Errorf("LEFARM_VISIT_RETENTION_DAYS must not be negative")
	}

	return nil
}

// SlogLevel maps the configured log level to a slog.Level.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
