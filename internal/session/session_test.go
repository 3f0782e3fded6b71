// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/lefarm/internal/testutil"
)

func TestNew(t *testing.T) {
	db := testutil.TestDB(t)

	tests := []struct {
		name       string
		isDev      bool
		wantSecure bool
	}{
		{"development", true, false},
		{"production", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sm := New(db, tt.isDev)
			if sm == nil {
				t.Fatal("New() returned nil")
			}
			if sm.Cookie.Secure != tt.wantSecure {
				t.Errorf("Cookie.Secure = %v, want %v", sm.Cookie.Secure, tt.wantSecure)
			}
			if sm.Cookie.Name != CookieName {
				t.Errorf("Cookie.Name = %q, want %q", sm.Cookie.Name, CookieName)
			}
			if !sm.Cookie.HttpOnly {
				t.Error("Cookie.HttpOnly should be true")
			}
			if sm.Cookie.SameSite != http.SameSiteLaxMode {
				t.Errorf("Cookie.SameSite = %v, want Lax", sm.Cookie.SameSite)
			}
			if sm.Lifetime != Lifetime {
				t.Errorf("Lifetime = %v, want %v", sm.Lifetime, Lifetime)
			}
		})
	}
}

func TestFlashAndLang(t *testing.T) {
	db := testutil.TestDB(t)
	sm := New(db, true)

	var (
		flash, again Flash
		lang         string
	)
	handler := sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		PutFlash(r.Context(), sm, Flash{Message: "Logged out", Type: "success"})
		PutLang(r.Context(), sm, "en")
		flash = PopFlash(r.Context(), sm)
		again = PopFlash(r.Context(), sm)
		lang = Lang(r.Context(), sm)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if flash.Message != "Logged out" || flash.Type != "success" {
		t.Errorf("PopFlash() = %+v, want Logged out/success", flash)
	}
	if again.Message != "" {
		t.Errorf("second PopFlash() = %+v, want empty", again)
	}
	if lang != "en" {
		t.Errorf("Lang() = %q, want %q", lang, "en")
	}
}
