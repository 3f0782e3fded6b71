// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session provides the admin page session used for login flashes and
// the admin language preference. Authentication itself rides on the JWT cookie.
package session

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// CookieName is the name of the admin session cookie.
const CookieName = "lefarm_session"

// Session keys.
const (
	keyFlash     = "flash"
	keyFlashType = "flash_type"
	keyLang      = "admin_lang"
)

// Flash is a one-shot message shown on the next page render.
type Flash struct {
	Message string
	Type    string
}

// Lifetime is how long an admin session lives.
const Lifetime = 24 * time.Hour

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)

	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	return sm
}

// PutFlash stores f for the next page render.
func PutFlash(ctx context.Context, sm *scs.SessionManager, f Flash) {
	sm.Put(ctx, keyFlash, f.Message)
	sm.Put(ctx, keyFlashType, f.Type)
}

// PopFlash returns and removes the pending flash message.
func PopFlash(ctx context.Context, sm *scs.SessionManager) Flash {
	return Flash{
		Message: sm.PopString(ctx, keyFlash),
		Type:    sm.PopString(ctx, keyFlashType),
	}
}

// PutLang remembers the admin UI language.
func PutLang(ctx context.Context, sm *scs.SessionManager, lang string) {
	sm.Put(ctx, keyLang, lang)
}

// Lang returns the remembered admin UI language, or "" when unset.
func Lang(ctx context.Context, sm *scs.SessionManager) string {
	return sm.GetString(ctx, keyLang)
}
