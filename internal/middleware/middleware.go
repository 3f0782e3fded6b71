// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for admin authentication,
// request protection and request context handling.
package middleware

import (
	"encoding/json"
	"net/http"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// writeError writes the {"error": msg} body used across the JSON API.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
