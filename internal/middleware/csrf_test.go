// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

var testCSRFKey = []byte("12345678901234567890123456789012")

func TestDefaultCSRFConfig(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		isDev   bool
		want    []string
	}{
		{
			name:    "production storefront origins",
			origins: []string{"https://lefarm.vn", "https://www.lefarm.vn"},
			want:    []string{"lefarm.vn", "www.lefarm.vn"},
		},
		{
			name:    "development adds local hosts",
			origins: []string{"http://localhost:3000"},
			isDev:   true,
			want:    []string{"localhost:3000", "localhost:8080", "127.0.0.1:8080"},
		},
		{
			name:    "wildcard and blanks dropped",
			origins: []string{"*", " ", "shop.lefarm.vn"},
			want:    []string{"shop.lefarm.vn"},
		},
		{
			name:    "duplicates collapse",
			origins: []string{"https://lefarm.vn", "http://lefarm.vn"},
			want:    []string{"lefarm.vn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultCSRFConfig(testCSRFKey, tt.origins, tt.isDev)
			if len(cfg.AuthKey) != 32 {
				t.Errorf("AuthKey length = %d, want 32", len(cfg.AuthKey))
			}
			if len(cfg.TrustedOrigins) != len(tt.want) {
				t.Fatalf("TrustedOrigins = %v, want %v", cfg.TrustedOrigins, tt.want)
			}
			for i, w := range tt.want {
				if cfg.TrustedOrigins[i] != w {
					t.Errorf("TrustedOrigins[%d] = %q, want %q", i, cfg.TrustedOrigins[i], w)
				}
			}
		})
	}
}

func TestCSRF_RejectsCrossSitePost(t *testing.T) {
	handler := CSRF(DefaultCSRFConfig(testCSRFKey, nil, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("cross-site POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusForbidden {
			t.Errorf("status = %d, want 403", rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q, want application/json", ct)
		}
	})

	t.Run("same-origin POST", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/products", nil)
		req.Header.Set("Sec-Fetch-Site", "same-origin")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})

	t.Run("cross-site GET", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("status = %d, want 200", rr.Code)
		}
	})
}

func TestSkipCSRF(t *testing.T) {
	protected := CSRF(DefaultCSRFConfig(testCSRFKey, nil, false))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	handler := SkipCSRF("/api/leads")(protected)

	tests := []struct {
		path string
		want int
	}{
		{"/api/leads", http.StatusOK},
		{"/api/products", http.StatusForbidden},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, tt.path, nil)
		req.Header.Set("Sec-Fetch-Site", "cross-site")
		req.Header.Set("Origin", "https://evil.example")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != tt.want {
			t.Errorf("POST %s status = %d, want %d", tt.path, rr.Code, tt.want)
		}
	}
}
