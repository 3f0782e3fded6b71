// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/util"
)

// ContextKeyIdentity is the context key for the verified admin identity.
const ContextKeyIdentity ContextKey = "identity"

// LoginPath is the admin login page; it is reachable without a token.
const LoginPath = "/admin/login"

// AuthEventLogger records authorization failures.
type AuthEventLogger interface {
	LogAuthEvent(ctx context.Context, level, message, ipAddress string, metadata map[string]any) error
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, ContextKeyIdentity, id)
}

// GetIdentity returns the verified identity from the request context.
// Returns nil if the request was not authenticated.
func GetIdentity(r *http.Request) *auth.Identity {
	id, ok := r.Context().Value(ContextKeyIdentity).(auth.Identity)
	if !ok {
		return nil
	}
	return &id
}

// RequireAdminPage gates the /admin pages. Requests without a valid token
// are redirected to the login page; a stale or forged cookie is cleared.
func RequireAdminPage(tm *auth.TokenManager, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isLoginPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			token := auth.TokenFromRequest(r)
			if token == "" {
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			id, err := tm.Verify(token)
			if err != nil {
				slog.Debug("admin page token rejected", "path", r.URL.Path, "error", err)
				auth.ClearCookie(w, secureCookie)
				http.Redirect(w, r, LoginPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAdminAPI gates the admin JSON API. Missing or invalid tokens get a
// 401; authenticated users without the admin role get a 403.
func RequireAdminAPI(tm *auth.TokenManager, events AuthEventLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, err := tm.Verify(auth.TokenFromRequest(r))
			if err != nil {
				writeError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if id.Role != model.RoleAdmin {
				ip := util.ClientIP(r)
				slog.Warn("admin api access denied", "user_id", id.UserID, "role", id.Role, "path", r.URL.Path)
				if events != nil {
					_ = events.LogAuthEvent(r.Context(), model.EventLevelWarning, "Admin API access denied", ip, map[string]any{
						"user_id": id.UserID,
						"role":    id.Role,
						"path":    r.URL.Path,
					})
				}
				writeError(w, http.StatusForbidden, "Forbidden")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

func isLoginPath(p string) bool {
	return p == LoginPath || strings.HasPrefix(p, LoginPath+"/")
}
