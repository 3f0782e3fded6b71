// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// testLoginProtection returns a LoginProtection with a controllable clock.
func testLoginProtection(t *testing.T, maxAttempts int, lockout, window time.Duration) (*LoginProtection, *time.Time) {
	t.Helper()
	lp := NewLoginProtection(LoginProtectionConfig{
		IPRateLimit:       10,
		IPBurst:           100,
		MaxFailedAttempts: maxAttempts,
		LockoutDuration:   lockout,
		AttemptWindow:     window,
	})
	t.Cleanup(lp.Stop)

	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }
	return lp, &now
}

func TestDefaultLoginProtectionConfig(t *testing.T) {
	cfg := DefaultLoginProtectionConfig()

	if cfg.IPRateLimit != 0.5 {
		t.Errorf("IPRateLimit = %v, want 0.5", cfg.IPRateLimit)
	}
	if cfg.IPBurst != 5 {
		t.Errorf("IPBurst = %d, want 5", cfg.IPBurst)
	}
	if cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", cfg.MaxFailedAttempts)
	}
	if cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", cfg.LockoutDuration)
	}
}

func TestNewLoginProtectionDefaultValues(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{})
	defer lp.Stop()

	if lp.cfg.MaxFailedAttempts != 5 {
		t.Errorf("MaxFailedAttempts = %d, want 5", lp.cfg.MaxFailedAttempts)
	}
	if lp.cfg.LockoutDuration != 15*time.Minute {
		t.Errorf("LockoutDuration = %v, want 15m", lp.cfg.LockoutDuration)
	}
	if lp.cfg.AttemptWindow != 15*time.Minute {
		t.Errorf("AttemptWindow = %v, want 15m", lp.cfg.AttemptWindow)
	}
}

func TestLoginProtectionLockout(t *testing.T) {
	lp, now := testLoginProtection(t, 3, time.Minute, 10*time.Minute)
	email := "admin@lefarm.vn"

	for i := 1; i <= 2; i++ {
		if locked, _ := lp.RecordFailedAttempt(email); locked {
			t.Fatalf("attempt %d locked the account", i)
		}
	}

	locked, d := lp.RecordFailedAttempt(email)
	if !locked || d != time.Minute {
		t.Fatalf("third attempt = (%v, %v), want (true, 1m)", locked, d)
	}

	locked, remaining := lp.IsAccountLocked(email)
	if !locked || remaining != time.Minute {
		t.Errorf("IsAccountLocked() = (%v, %v), want (true, 1m)", locked, remaining)
	}

	*now = now.Add(time.Minute + time.Second)
	if locked, _ := lp.IsAccountLocked(email); locked {
		t.Error("account should unlock after the lockout expires")
	}
}

func TestLoginProtectionEmailIsCaseInsensitive(t *testing.T) {
	lp, _ := testLoginProtection(t, 2, time.Minute, time.Minute)

	lp.RecordFailedAttempt("Admin@LeFarm.vn")
	lp.RecordFailedAttempt(" admin@lefarm.vn ")

	if locked, _ := lp.IsAccountLocked("ADMIN@lefarm.vn"); !locked {
		t.Error("differently cased emails should share one lockout counter")
	}
}

func TestLoginProtectionRecordSuccessfulLogin(t *testing.T) {
	lp, _ := testLoginProtection(t, 3, time.Minute, time.Minute)
	email := "admin@lefarm.vn"

	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	lp.RecordSuccessfulLogin(email)

	if got := lp.RemainingAttempts(email); got != 3 {
		t.Errorf("RemainingAttempts() = %d, want 3", got)
	}
}

func TestLoginProtectionRemainingAttempts(t *testing.T) {
	lp, now := testLoginProtection(t, 5, time.Minute, time.Minute)
	email := "admin@lefarm.vn"

	tests := []struct {
		name     string
		failures int
		advance  time.Duration
		want     int
	}{
		{"no failures", 0, 0, 5},
		{"one failure", 1, 0, 4},
		{"three failures", 2, 0, 2},
		{"window expired", 0, 2 * time.Minute, 5},
	}

	for _, tt := range tests {
		for i := 0; i < tt.failures; i++ {
			lp.RecordFailedAttempt(email)
		}
		*now = now.Add(tt.advance)
		if got := lp.RemainingAttempts(email); got != tt.want {
			t.Errorf("%s: RemainingAttempts() = %d, want %d", tt.name, got, tt.want)
		}
	}
}

func TestLoginProtectionExponentialBackoff(t *testing.T) {
	lp, now := testLoginProtection(t, 2, 10*time.Minute, time.Hour)
	email := "admin@lefarm.vn"

	want := []time.Duration{10 * time.Minute, 20 * time.Minute, 40 * time.Minute}
	for i, w := range want {
		lp.RecordFailedAttempt(email)
		_, d := lp.RecordFailedAttempt(email)
		if d != w {
			t.Errorf("lockout %d duration = %v, want %v", i+1, d, w)
		}
		*now = now.Add(d + time.Second)
	}
}

func TestLoginProtectionBackoffCap(t *testing.T) {
	lp, now := testLoginProtection(t, 1, 10*time.Hour, 100*time.Hour)
	email := "admin@lefarm.vn"

	var d time.Duration
	for i := 0; i < 4; i++ {
		_, d = lp.RecordFailedAttempt(email)
		*now = now.Add(d + time.Second)
	}
	if d != 24*time.Hour {
		t.Errorf("capped lockout = %v, want 24h", d)
	}
}

func TestLockoutFor(t *testing.T) {
	cfg := LoginProtectionConfig{LockoutDuration: 15 * time.Minute}
	tests := []struct {
		previous int
		want     time.Duration
	}{
		{0, 15 * time.Minute},
		{1, 30 * time.Minute},
		{3, 2 * time.Hour},
		{10, 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := cfg.lockoutFor(tt.previous); got != tt.want {
			t.Errorf("lockoutFor(%d) = %v, want %v", tt.previous, got, tt.want)
		}
	}
}

func TestLoginProtectionSweep(t *testing.T) {
	lp, now := testLoginProtection(t, 5, time.Minute, time.Minute)

	lp.RecordFailedAttempt("old@lefarm.vn")
	*now = now.Add(5 * time.Minute)
	lp.RecordFailedAttempt("fresh@lefarm.vn")

	lp.sweep()

	lp.mu.Lock()
	_, oldExists := lp.accounts["old@lefarm.vn"]
	_, freshExists := lp.accounts["fresh@lefarm.vn"]
	lp.mu.Unlock()

	if oldExists {
		t.Error("stale entry should be removed")
	}
	if !freshExists {
		t.Error("recent entry should be kept")
	}
}

func TestLoginProtectionMiddleware(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{IPRateLimit: 0.001, IPBurst: 2})
	defer lp.Stop()

	wrapped := lp.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:5000"
		rr := httptest.NewRecorder()
		wrapped.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := send(http.MethodPost); rr.Code != http.StatusOK {
			t.Fatalf("POST %d status = %d, want 200", i+1, rr.Code)
		}
	}

	rr := send(http.MethodPost)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("POST over burst status = %d, want 429", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decoding body: %v", err)
	}
	if body["error"] == "" {
		t.Error("429 body should carry an error message")
	}

	if rr := send(http.MethodGet); rr.Code != http.StatusOK {
		t.Errorf("GET status = %d, want 200 (GET is not limited)", rr.Code)
	}
}
