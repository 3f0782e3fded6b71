// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/middleware"
	"github.com/olegiv/lefarm/internal/render"
	"github.com/olegiv/lefarm/internal/service"
)

// DashboardData is the dashboard page model.
type DashboardData struct {
	Stats      service.DashboardStats
	Activities []service.Activity
}

// AdminHandler serves the admin dashboard.
type AdminHandler struct {
	renderer *render.Renderer
	stats    *service.StatsService
	activity *service.ActivityService
	logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(db *sql.DB, renderer *render.Renderer, logger *slog.Logger) *AdminHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		renderer: renderer,
		stats:    service.NewStatsService(db),
		activity: service.NewActivityService(db),
		logger:   logger,
	}
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	lang := middleware.GetAdminLang(r)

	stats, err := h.stats.Dashboard(ctx)
	if err != nil {
		h.logger.Error("loading dashboard stats", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	activities, err := h.activity.Recent(ctx, lang)
	if err != nil {
		h.logger.Error("loading recent activity", "error", err)
		activities = nil
	}

	name := ""
	if id := middleware.GetIdentity(r); id != nil {
		name = id.Name
	}

	if err := h.renderer.Render(w, r, http.StatusOK, TemplateDashboard, render.TemplateData{
		Title:    i18n.T(lang, "dashboard.title"),
		Lang:     lang,
		UserName: name,
		Data:     DashboardData{Stats: stats, Activities: activities},
	}); err != nil {
		h.logger.Error("rendering dashboard", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
