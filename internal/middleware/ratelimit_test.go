// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func postFrom(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodPost, "/api/leads", nil)
	req.RemoteAddr = ip + ":40000"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr.Code
}

func TestLeadRateLimit(t *testing.T) {
	handler := LeadRateLimit(2)(okHandler())

	for i := 0; i < 2; i++ {
		if code := postFrom(handler, "198.51.100.1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, code)
		}
	}
	if code := postFrom(handler, "198.51.100.1"); code != http.StatusTooManyRequests {
		t.Errorf("over-limit status = %d, want 429", code)
	}
	if code := postFrom(handler, "198.51.100.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want 200", code)
	}
}

func TestPublicRateLimiter(t *testing.T) {
	rl := NewPublicRateLimiter(0.001, 3)
	handler := rl.Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		if code := postFrom(handler, "198.51.100.9"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, code)
		}
	}
	if code := postFrom(handler, "198.51.100.9"); code != http.StatusTooManyRequests {
		t.Errorf("over-burst status = %d, want 429", code)
	}
}

func TestPublicRateLimiterPrune(t *testing.T) {
	rl := NewPublicRateLimiter(1, 1)
	rl.cache.get("a")
	rl.cache.get("b")
	rl.cache.get("c")

	rl.Prune(5)
	if n := rl.cache.size(); n != 3 {
		t.Errorf("size after Prune(5) = %d, want 3", n)
	}
	rl.Prune(2)
	if n := rl.cache.size(); n != 0 {
		t.Errorf("size after Prune(2) = %d, want 0", n)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://lefarm.vn"})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	req.Header.Set("Origin", "https://lefarm.vn")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://lefarm.vn" {
		t.Errorf("Allow-Origin = %q, want https://lefarm.vn", got)
	}
	if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Errorf("Allow-Credentials = %q, want true", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.Header.Set("Origin", "https://evil.example")
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin got Allow-Origin %q", got)
	}
}
