// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/lefarm/internal/service"
)

const (
	uaDesktop   = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	uaGooglebot = "Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)"
)

func (e *testEnv) trackVisit(page, userAgent string) *httptest.ResponseRecorder {
	e.t.Helper()
	data, err := json.Marshal(TrackVisitRequest{Page: page})
	require.NoError(e.t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/analytics/visits", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestTrackVisit(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		page string
		ua   string
		want int
	}{
		{"storefront page", "/products", uaDesktop, http.StatusCreated},
		{"home", "/", uaDesktop, http.StatusCreated},
		{"admin page", "/admin/leads", uaDesktop, http.StatusNoContent},
		{"static asset", "/logo.png", uaDesktop, http.StatusNoContent},
		{"bot", "/products", uaGooglebot, http.StatusNoContent},
		{"empty page", "", uaDesktop, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.trackVisit(tt.page, tt.ua)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}

	rec := env.adminDo(http.MethodGet, "/api/analytics/visits?type=byPage", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pages := decode[[]service.PageVisits](t, rec)
	require.Len(t, pages, 2)
	total := int64(0)
	for _, p := range pages {
		total += p.Visits
		assert.NotEqual(t, "/admin/leads", p.Page)
	}
	assert.Equal(t, int64(2), total)
}

func TestVisitStats(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusCreated, env.trackVisit("/news", uaDesktop).Code)
	require.Equal(t, http.StatusCreated, env.trackVisit("/news", uaDesktop).Code)

	rec := env.public(http.MethodGet, "/api/analytics/visits", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.adminDo(http.MethodGet, "/api/analytics/visits", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	monthly := decode[[]service.MonthlyVisits](t, rec)
	require.Len(t, monthly, service.DefaultMonths)
	assert.Equal(t, int64(2), monthly[len(monthly)-1].Visits)

	rec = env.adminDo(http.MethodGet, "/api/analytics/visits?type=monthly&months=100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]service.MonthlyVisits](t, rec), service.MaxMonths)

	rec = env.adminDo(http.MethodGet, "/api/analytics/visits?type=daily&days=7&page=/news", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	daily := decode[[]service.DailyVisits](t, rec)
	var sum int64
	for _, d := range daily {
		sum += d.Visits
	}
	assert.Equal(t, int64(2), sum)

	rec = env.adminDo(http.MethodGet, "/api/analytics/visits?type=daily&days=abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid days", errorMessage(t, rec))

	rec = env.adminDo(http.MethodGet, "/api/analytics/visits?type=weekly", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid type. Use monthly, byPage or daily", errorMessage(t, rec))
}
