// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/session"
)

// ContextKeyAdminLang is the context key for the admin UI language.
const ContextKeyAdminLang ContextKey = "admin_lang"

// AdminLanguage picks the admin UI language. Priority order:
//  1. ?lang=XX, which is remembered in the session
//  2. the language remembered in the session
//  3. the Accept-Language header
//
// Must run inside sm.LoadAndSave.
func AdminLanguage(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			lang := ""

			if q := strings.ToLower(r.URL.Query().Get("lang")); q != "" && i18n.IsSupported(q) {
				lang = q
				session.PutLang(ctx, sm, lang)
			} else if saved := session.Lang(ctx, sm); i18n.IsSupported(saved) {
				lang = saved
			} else {
				lang = i18n.Match(r.Header.Get("Accept-Language"))
			}

			ctx = context.WithValue(ctx, ContextKeyAdminLang, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminLang returns the admin UI language, defaulting to Vietnamese.
func GetAdminLang(r *http.Request) string {
	if lang, ok := r.Context().Value(ContextKeyAdminLang).(string); ok && lang != "" {
		return lang
	}
	return i18n.DefaultLang
}
