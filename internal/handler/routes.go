// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/middleware"
)

// AdminPages bundles the server-rendered admin pages.
type AdminPages struct {
	SessionManager *scs.SessionManager
	Tokens         *auth.TokenManager
	SecureCookie   bool
	Auth           *AuthHandler
	Admin          *AdminHandler
	// LoginLimit rate-limits form logins per IP. May be nil.
	LoginLimit func(http.Handler) http.Handler
}

// Routes returns the admin page router, to be mounted at /admin.
func (p AdminPages) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(p.SessionManager.LoadAndSave)
	r.Use(middleware.AdminLanguage(p.SessionManager))
	r.Use(middleware.RequireAdminPage(p.Tokens, p.SecureCookie))

	r.Get("/", p.Admin.Dashboard)
	r.Get("/login", p.Auth.LoginForm)
	login := r.With()
	if p.LoginLimit != nil {
		login = r.With(p.LoginLimit)
	}
	login.Post("/login", p.Auth.Login)
	r.Post("/logout", p.Auth.Logout)

	return r
}

// HealthRoutes registers the health endpoints on r.
func HealthRoutes(r chi.Router, h *HealthHandler) {
	r.Get("/health", h.Health)
	r.Get("/health/live", h.Liveness)
	r.Get("/health/ready", h.Readiness)
}
