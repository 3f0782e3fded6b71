// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/olegiv/lefarm/internal/util"
)

const (
	maxLockout       = 24 * time.Hour
	sweepInterval    = 10 * time.Minute
	maxTrackedLogins = 10000
)

// LoginProtectionConfig holds configuration for login protection.
type LoginProtectionConfig struct {
	// IPRateLimit is login POSTs per second per IP.
	IPRateLimit float64
	IPBurst     int
	// MaxFailedAttempts within AttemptWindow lock the account.
	MaxFailedAttempts int
	// LockoutDuration is the first lockout; each further lockout doubles it, up to 24h.
	LockoutDuration time.Duration
	AttemptWindow   time.Duration
}

// DefaultLoginProtectionConfig allows a burst of 5 logins per IP refilled
// every 2 seconds, and locks an account for 15 minutes after 5 failures.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

func (c LoginProtectionConfig) withDefaults() LoginProtectionConfig {
	d := DefaultLoginProtectionConfig()
	if c.IPRateLimit <= 0 {
		c.IPRateLimit = d.IPRateLimit
	}
	if c.IPBurst <= 0 {
		c.IPBurst = d.IPBurst
	}
	if c.MaxFailedAttempts <= 0 {
		c.MaxFailedAttempts = d.MaxFailedAttempts
	}
	if c.LockoutDuration <= 0 {
		c.LockoutDuration = d.LockoutDuration
	}
	if c.AttemptWindow <= 0 {
		c.AttemptWindow = d.AttemptWindow
	}
	return c
}

// lockoutFor returns the duration of the account's next lockout after
// `previous` earlier ones.
func (c LoginProtectionConfig) lockoutFor(previous int) time.Duration {
	d := c.LockoutDuration
	for i := 0; i < previous && d < maxLockout; i++ {
		d *= 2
	}
	return min(d, maxLockout)
}

// accountState is the failure history of one email address.
type accountState struct {
	failures    int
	windowStart time.Time
	lockedUntil time.Time
	lockouts    int
}

// LoginProtection throttles login POSTs per client IP and locks accounts
// after repeated failed attempts. Emails are compared case-insensitively.
type LoginProtection struct {
	cfg LoginProtectionConfig
	ips *limiterCache[string]

	mu       sync.Mutex
	accounts map[string]*accountState

	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

// NewLoginProtection creates a LoginProtection and starts its sweeper.
// Call Stop to end it.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	cfg = cfg.withDefaults()
	lp := &LoginProtection{
		cfg:      cfg,
		ips:      newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		accounts: make(map[string]*accountState),
		now:      time.Now,
		done:     make(chan struct{}),
	}
	go lp.sweepLoop()
	return lp
}

// CheckIPRateLimit reports whether a login from ip may proceed.
func (lp *LoginProtection) CheckIPRateLimit(ip string) bool {
	return lp.ips.get(ip).Allow()
}

// IsAccountLocked reports whether email is locked and for how much longer.
func (lp *LoginProtection) IsAccountLocked(email string) (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	st, ok := lp.accounts[normalizeEmail(email)]
	if !ok {
		return false, 0
	}
	if left := st.lockedUntil.Sub(lp.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// RecordFailedAttempt counts a failure for email. It returns true and the
// lockout duration when this failure locked the account.
func (lp *LoginProtection) RecordFailedAttempt(email string) (bool, time.Duration) {
	key := normalizeEmail(email)
	now := lp.now()

	lp.mu.Lock()
	defer lp.mu.Unlock()

	st, ok := lp.accounts[key]
	if !ok {
		st = &accountState{windowStart: now}
		lp.accounts[key] = st
	} else if now.Sub(st.windowStart) > lp.cfg.AttemptWindow {
		st.failures = 0
		st.windowStart = now
	}

	st.failures++
	slog.Debug("failed login recorded", "email", key, "failures", st.failures)
	if st.failures < lp.cfg.MaxFailedAttempts {
		return false, 0
	}

	d := lp.cfg.lockoutFor(st.lockouts)
	st.lockedUntil = now.Add(d)
	st.lockouts++
	st.failures = 0
	slog.Warn("account locked due to failed attempts", "email", key, "lockouts", st.lockouts, "duration", d)
	return true, d
}

// RecordSuccessfulLogin forgets the failure history of email.
func (lp *LoginProtection) RecordSuccessfulLogin(email string) {
	lp.mu.Lock()
	delete(lp.accounts, normalizeEmail(email))
	lp.mu.Unlock()
}

// RemainingAttempts returns how many failures email has left before it is
// locked.
func (lp *LoginProtection) RemainingAttempts(email string) int {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	st, ok := lp.accounts[normalizeEmail(email)]
	if !ok || lp.now().Sub(st.windowStart) > lp.cfg.AttemptWindow {
		return lp.cfg.MaxFailedAttempts
	}
	return max(lp.cfg.MaxFailedAttempts-st.failures, 0)
}

// Stop ends the sweeper.
func (lp *LoginProtection) Stop() {
	lp.stopOnce.Do(func() { close(lp.done) })
}

func (lp *LoginProtection) sweepLoop() {
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-t.C:
			lp.sweep()
		case <-lp.done:
			return
		}
	}
}

// sweep drops accounts whose lockout and attempt window are both over,
// and resets the IP limiters once too many addresses are tracked.
func (lp *LoginProtection) sweep() {
	if lp.ips.clearIfExceeds(maxTrackedLogins) {
		slog.Info("cleared login rate limiters due to size")
	}

	now := lp.now()
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for key, st := range lp.accounts {
		if !now.Before(st.lockedUntil) && now.Sub(st.windowStart) > lp.cfg.AttemptWindow {
			delete(lp.accounts, key)
		}
	}
}

// Middleware rejects login POSTs over the per-IP rate with 429.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodPost {
				if ip := util.ClientIP(r); !lp.CheckIPRateLimit(ip) {
					slog.Warn("login rate limit exceeded", "ip", ip)
					writeError(w, http.StatusTooManyRequests, "Too many login attempts. Please wait a moment and try again.")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
