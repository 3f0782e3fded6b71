// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/cache"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/testutil"
	"github.com/olegiv/lefarm/internal/version"
)

func newHealthRouter(t *testing.T, cfg HealthConfig) (http.Handler, *HealthHandler) {
	t.Helper()
	h := NewHealthHandler(testutil.TestDB(t), cfg)
	r := chi.NewRouter()
	HealthRoutes(r, h)
	return r, h
}

func healthGet(router http.Handler, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealth_Public(t *testing.T) {
	router, _ := newHealthRouter(t, HealthConfig{Tokens: auth.NewTokenManager(testSecret, time.Hour)})

	rec := healthGet(router, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"status": StatusHealthy}, body)
}

func TestHealth_AdminDetails(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	c := cache.NewSimpleMemoryCache(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	router, _ := newHealthRouter(t, HealthConfig{
		Cache:       c,
		Tokens:      tokens,
		Version:     version.Info{Version: "v1.0.0", GitCommit: "abc1234"},
		SMTPEnabled: true,
	})

	token, err := tokens.Sign(auth.Identity{UserID: "u1", Email: "admin@lefarm.vn", Role: model.RoleAdmin})
	require.NoError(t, err)

	rec := healthGet(router, "/health?verbose=true", &http.Cookie{Name: auth.CookieName, Value: token})
	require.Equal(t, http.StatusOK, rec.Code)

	var status HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, StatusHealthy, status.Status)
	assert.Equal(t, "v1.0.0", status.Version.Version)
	assert.Equal(t, StatusHealthy, status.Checks["database"].Status)
	assert.Equal(t, StatusHealthy, status.Checks["cache"].Status)
	assert.Equal(t, StatusHealthy, status.Checks["email"].Status)
	assert.Equal(t, StatusDisabled, status.Checks["media"].Status)
	require.NotNil(t, status.System)
	assert.Positive(t, status.System.NumCPU)
}

func TestHealth_NonAdminToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	router, _ := newHealthRouter(t, HealthConfig{Tokens: tokens})

	token, err := tokens.Sign(auth.Identity{UserID: "u2", Role: "editor"})
	require.NoError(t, err)

	rec := healthGet(router, "/health", &http.Cookie{Name: auth.CookieName, Value: token})
	assert.NotContains(t, rec.Body.String(), "checks")
}

func TestHealth_DatabaseDown(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	db := testutil.TestDB(t)
	h := NewHealthHandler(db, HealthConfig{Tokens: tokens})
	require.NoError(t, db.Close())

	r := chi.NewRouter()
	HealthRoutes(r, h)

	rec := healthGet(r, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), StatusUnhealthy)

	rec = healthGet(r, "/health/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "not_ready")
	assert.NotContains(t, rec.Body.String(), "message")

	rec = healthGet(r, "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness(t *testing.T) {
	router, _ := newHealthRouter(t, HealthConfig{})

	rec := healthGet(router, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ready")
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
