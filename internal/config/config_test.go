// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "test-secret-key-32-bytes-long!!!"

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set %s: %v", key, err)
	}
}

// loadClean loads config from a clean environment without picking up a
// stray .env from the working directory.
func loadClean(t *testing.T) (*Config, error) {
	t.Helper()
	return Load(filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	setEnv(t, "LEFARM_JWT_SECRET", testSecret)

	cfg, err := loadClean(t)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.DBPath != "./data/lefarm.db" {
		t.Errorf("DBPath = %q, want %q", cfg.DBPath, "./data/lefarm.db")
	}
	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want %d", cfg.ServerPort, 8080)
	}
	if !cfg.IsDevelopment() {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.TokenTTL != 7*24*time.Hour {
		t.Errorf("TokenTTL = %v, want 168h", cfg.TokenTTL)
	}
	if cfg.UploadMaxBytes != 10<<20 {
		t.Errorf("UploadMaxBytes = %d, want %d", cfg.UploadMaxBytes, 10<<20)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.EventRetention != 90*24*time.Hour {
		t.Errorf("EventRetention = %v, want 2160h", cfg.EventRetention)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://localhost:3000" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if cfg.SMTPEnabled() || cfg.CloudinaryEnabled() || cfg.UseRedisCache() || cfg.GeoIPEnabled() {
		t.Error("optional integrations should be disabled by default")
	}
}

func TestLoad_CustomValues(t *testing.T) {
	os.Clearenv()
	setEnv(t, "LEFARM_JWT_SECRET", testSecret)
	setEnv(t, "LEFARM_DB_PATH", "/var/lib/lefarm.db")
	setEnv(t, "LEFARM_SERVER_HOST", "0.0.0.0")
	setEnv(t, "LEFARM_SERVER_PORT", "3001")
	setEnv(t, "LEFARM_ENV", "production")
	setEnv(t, "LEFARM_TOKEN_TTL", "24h")
	setEnv(t, "LEFARM_CORS_ORIGINS", "https://lefarm.vn,https://www.lefarm.vn")
	setEnv(t, "LEFARM_SMTP_HOST", "smtp.gmail.com")
	setEnv(t, "LEFARM_SMTP_USER", "shop@lefarm.vn")
	setEnv(t, "LEFARM_SMTP_PASSWORD", "app-password")

	cfg, err := loadClean(t)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.ServerAddr() != "0.0.0.0:3001" {
		t.Errorf("ServerAddr() = %q", cfg.ServerAddr())
	}
	if cfg.IsDevelopment() {
		t.Error("IsDevelopment() = true in production")
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Errorf("TokenTTL = %v", cfg.TokenTTL)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://www.lefarm.vn" {
		t.Errorf("CORSOrigins = %v", cfg.CORSOrigins)
	}
	if !cfg.SMTPEnabled() {
		t.Error("SMTPEnabled() = false")
	}
	if got := cfg.AdminNotifyAddress(); got != "shop@lefarm.vn" {
		t.Errorf("AdminNotifyAddress() = %q, want SMTP user", got)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	os.Clearenv()
	path := filepath.Join(t.TempDir(), ".env")
	content := "LEFARM_JWT_SECRET=" + testSecret + "\nLEFARM_SERVER_PORT=9090\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
}

func TestLoad_RequiredJWTSecret(t *testing.T) {
	os.Clearenv()

	if _, err := loadClean(t); err == nil {
		t.Fatal("Load() should fail when LEFARM_JWT_SECRET is not set")
	}
}

func TestLoad_InvalidSecrets(t *testing.T) {
	tests := []struct {
		name   string
		secret string
	}{
		{"short", "short"},
		{"31_bytes", "1234567890123456789012345678901"},
		{"known default", "change-me-to-32-byte-secret-key!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "LEFARM_JWT_SECRET", tt.secret)

			if _, err := loadClean(t); err == nil {
				t.Fatalf("Load() should reject secret %q", tt.secret)
			}
		})
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LEFARM_ENV", "staging"},
		{"LEFARM_SERVER_PORT", "70000"},
		{"LEFARM_UPLOAD_MAX_BYTES", "0"},
		{"LEFARM_VISIT_RETENTION_DAYS", "-1"},
		{"LEFARM_PUBLIC_RATE_BURST", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			os.Clearenv()
			setEnv(t, "LEFARM_JWT_SECRET", testSecret)
			setEnv(t, tt.key, tt.value)

			if _, err := loadClean(t); err == nil {
				t.Fatalf("Load() should fail for %s=%s", tt.key, tt.value)
			}
		})
	}
}

func TestConfig_CloudinaryEnabled(t *testing.T) {
	cfg := Config{CloudinaryCloudName: "lefarm", CloudinaryAPIKey: "key"}
	if cfg.CloudinaryEnabled() {
		t.Error("CloudinaryEnabled() without secret should be false")
	}
	cfg.CloudinaryAPISecret = "secret"
	if !cfg.CloudinaryEnabled() {
		t.Error("CloudinaryEnabled() = false with full credentials")
	}
}

func TestConfig_AdminNotifyAddress(t *testing.T) {
	cfg := Config{SMTPUser: "smtp@lefarm.vn", AdminNotify: "sales@lefarm.vn"}
	if got := cfg.AdminNotifyAddress(); got != "sales@lefarm.vn" {
		t.Errorf("AdminNotifyAddress() = %q", got)
	}
}

func TestConfig_SlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			if got := (Config{LogLevel: tt.level}).SlogLevel(); got != tt.want {
				t.Errorf("SlogLevel() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasMinimumEntropy(t *testing.T) {
	tests := []struct {
		secret string
		want   bool
	}{
		{"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", false},
		{"abcdefgh12345678abcdefgh12345678", false},
		{"abcdEFGH12345678abcdefgh12345678", true},
		{testSecret, true},
	}

	for _, tt := range tests {
		if got := hasMinimumEntropy(tt.secret); got != tt.want {
			t.Errorf("hasMinimumEntropy(%q) = %v, want %v", tt.secret, got, tt.want)
		}
	}
}
