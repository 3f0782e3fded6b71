// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain vocabulary shared across the application:
// catalog categories, lead and news lifecycles, contact kinds, roles and
// event log levels.
package model

// RoleAdmin is the admin user role.
const RoleAdmin = "admin"

// Event levels
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// Event categories
const (
	EventCategoryAuth    = "auth"
	EventCategoryCatalog = "catalog"
	EventCategoryContent = "content"
	EventCategoryLead    = "lead"
	EventCategoryEmail   = "email"
	EventCategoryMedia   = "media"
	EventCategorySystem  = "system"
	EventCategoryCache   = "cache"
)
