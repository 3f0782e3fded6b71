// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler serves the server-rendered admin pages and the health
// endpoints. The JSON API lives in handler/api.
package handler

import "github.com/olegiv/lefarm/internal/middleware"

// Routes.
const (
	RouteAdmin  = "/admin"
	RouteLogin  = middleware.LoginPath
	RouteLogout = "/admin/logout"
)

// Template names.
const (
	TemplateLogin     = "auth/login"
	TemplateDashboard = "admin/dashboard"
)
