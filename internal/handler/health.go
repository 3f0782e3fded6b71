// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/cache"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/version"
)

// Check status values.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

const healthCheckKey = "health:check"

// HealthConfig holds the optional dependencies reported by HealthHandler.
type HealthConfig struct {
	Cache        cache.Cacher
	Tokens       *auth.TokenManager
	Version      version.Info
	SMTPEnabled  bool
	MediaEnabled bool
}

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	cfg       HealthConfig
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, cfg HealthConfig) *HealthHandler {
	return &HealthHandler{
		db:        db,
		cfg:       cfg,
		startTime: time.Now(),
	}
}

// HealthStatusPublic is the minimal health response for unauthenticated callers.
type HealthStatusPublic struct {
	Status string `json:"status"`
}

// HealthStatus is the detailed response shown to signed-in admins.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo contains runtime information.
type SystemInfo struct {
	GoVersion    string `json:"goVersion"`
	NumGoroutine int    `json:"numGoroutines"`
	NumCPU       int    `json:"numCpus"`
	MemAlloc     string `json:"memAlloc"`
	MemSys       string `json:"memSys"`
}

// Health handles GET /health.
// Only the database and cache affect the overall status; email and media
// hosting are reported as enabled or disabled.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	cacheCheck := h.checkCache(r.Context())

	overall := StatusHealthy
	switch {
	case dbCheck.Status != StatusHealthy:
		overall = StatusUnhealthy
	case cacheCheck.Status == StatusUnhealthy:
		overall = StatusDegraded
	}

	code := http.StatusOK
	if overall == StatusUnhealthy {
		code = http.StatusServiceUnavailable
	}

	if !h.isAdmin(r) {
		writeHealthJSON(w, code, HealthStatusPublic{Status: overall})
		return
	}

	status := HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   h.cfg.Version,
		Checks: map[string]Check{
			"database": dbCheck,
			"cache":    cacheCheck,
			"email":    enabledCheck(h.cfg.SMTPEnabled, "SMTP not configured, emails are logged"),
			"media":    enabledCheck(h.cfg.MediaEnabled, "image hosting not configured"),
		},
	}
	if r.URL.Query().Get("verbose") == "true" {
		status.System = systemInfo()
	}
	writeHealthJSON(w, code, status)
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeHealthJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	dbCheck := h.checkDatabase(r.Context())
	if dbCheck.Status == StatusHealthy {
		writeHealthJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}

	resp := map[string]string{"status": "not_ready"}
	if h.isAdmin(r) {
		resp["message"] = dbCheck.Message
	}
	writeHealthJSON(w, http.StatusServiceUnavailable, resp)
}

func (h *HealthHandler) isAdmin(r *http.Request) bool {
	if h.cfg.Tokens == nil {
		return false
	}
	id, err := h.cfg.Tokens.Verify(auth.TokenFromRequest(r))
	return err == nil && id.Role == model.RoleAdmin
}

func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return Check{Status: StatusUnhealthy, Message: "database unreachable"}
	}
	var n int
	if err := h.db.QueryRowContext(ctx, "SELECT 1").Scan(&n); err != nil {
		return Check{Status: StatusUnhealthy, Message: "database query failed"}
	}
	return Check{Status: StatusHealthy, Latency: time.Since(start).String()}
}

// checkCache writes and reads back a sentinel key.
func (h *HealthHandler) checkCache(ctx context.Context) Check {
	if h.cfg.Cache == nil {
		return Check{Status: StatusDisabled}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	if err := h.cfg.Cache.Set(ctx, healthCheckKey, []byte("ok"), 10*time.Second); err != nil {
		return Check{Status: StatusUnhealthy, Message: "cache write failed"}
	}
	if _, err := h.cfg.Cache.Get(ctx, healthCheckKey); err != nil {
		return Check{Status: StatusUnhealthy, Message: "cache read failed"}
	}

	check := Check{Status: StatusHealthy, Latency: time.Since(start).String()}
	if sp, ok := h.cfg.Cache.(cache.StatsProvider); ok {
		s := sp.Stats()
		check.Message = fmt.Sprintf("%s, %d items, %.1f%% hit rate", s.Backend, s.Items, s.HitRate)
	}
	return check
}

func enabledCheck(enabled bool, disabledMsg string) Check {
	if enabled {
		return Check{Status: StatusHealthy}
	}
	return Check{Status: StatusDisabled, Message: disabledMsg}
}

func systemInfo() *SystemInfo {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &SystemInfo{
		GoVersion:    runtime.Version(),
		NumGoroutine: runtime.NumGoroutine(),
		NumCPU:       runtime.NumCPU(),
		MemAlloc:     formatBytes(m.Alloc),
		MemSys:       formatBytes(m.Sys),
	}
}

// formatBytes formats bytes into a human-readable string.
func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

func writeHealthJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
