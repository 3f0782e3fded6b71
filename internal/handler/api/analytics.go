// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

// Visit statistics kinds for GET /api/analytics/visits.
const (
	VisitsMonthly = "monthly"
	VisitsByPage  = "byPage"
	VisitsDaily   = "daily"
)

// TrackVisitRequest is the body of POST /api/analytics/visits.
type TrackVisitRequest struct {
	Page     string `json:"page" validate:"max=2048"`
	Referrer string `json:"referrer" validate:"max=2048"`
}

// TrackVisit handles POST /api/analytics/visits. Untracked paths and bots
// are acknowledged with 204 and not stored.
func (h *Handler) TrackVisit(w http.ResponseWriter, r *http.Request) {
	var req TrackVisitRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	page := strings.TrimSpace(req.Page)
	if page == "" {
		writeError(w, http.StatusBadRequest, "Page is required")
		return
	}

	referrer := req.Referrer
	if referrer == "" {
		referrer = r.Referer()
	}
	stored, err := h.visits.Record(r.Context(), service.Visit{
		Path:      page,
		Referrer:  referrer,
		UserAgent: r.UserAgent(),
		IP:        util.ClientIP(r),
	})
	if err != nil {
		h.fail(w, r, "Visit", err)
		return
	}
	if !stored {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusCreated, MessageResponse{Success: true})
}

// VisitStats handles GET /api/analytics/visits?type=monthly|byPage|daily.
// monthly accepts months and page; daily accepts days and page.
func (h *Handler) VisitStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	ctx := r.Context()
	now := h.now().UTC()
	page := q.Get("page")

	kind := q.Get("type")
	if kind == "" {
		kind = VisitsMonthly
	}

	switch kind {
	case VisitsMonthly:
		months, ok := intParam(w, q.Get("months"), service.DefaultMonths, service.MaxMonths, "months")
		if !ok {
			return
		}
		times, err := h.visits.Since(ctx, service.MonthlyStart(now, months), page)
		if err != nil {
			h.fail(w, r, "Visit", err)
			return
		}
		writeJSON(w, http.StatusOK, service.Monthly(now, months, times))

	case VisitsDaily:
		days, ok := intParam(w, q.Get("days"), service.DefaultDays, service.MaxDays, "days")
		if !ok {
			return
		}
		times, err := h.visits.Since(ctx, now.AddDate(0, 0, -days), page)
		if err != nil {
			h.fail(w, r, "Visit", err)
			return
		}
		writeJSON(w, http.StatusOK, service.Daily(times))

	case VisitsByPage:
		pages, err := h.visits.ByPage(ctx)
		if err != nil {
			h.fail(w, r, "Visit", err)
			return
		}
		writeJSON(w, http.StatusOK, pages)

	default:
		writeError(w, http.StatusBadRequest, "Invalid type. Use monthly, byPage or daily")
	}
}

// intParam parses a positive integer query value, falling back to def
// when empty and clamping to max.
func intParam(w http.ResponseWriter, raw string, def, maxVal int, name string) (int, bool) {
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return min(n, maxVal), true
}
