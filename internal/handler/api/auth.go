// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

const msgInvalidCredentials = "Invalid email or password"

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,max=256"`
}

// Login handles POST /api/auth/login. On success the JWT is set as an
// HttpOnly cookie and the user is returned.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ip := util.ClientIP(r)

	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	email := service.NormalizeEmail(req.Email)

	if locked, remaining := h.login.IsAccountLocked(email); locked {
		minutes := int(math.Ceil(remaining.Minutes()))
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("Account temporarily locked. Try again in %d minutes.", minutes))
		return
	}

	user, err := h.users.Authenticate(ctx, email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.loginFailed(r, email, ip)
		writeError(w, http.StatusUnauthorized, msgInvalidCredentials)
		return
	}
	if err != nil {
		h.fail(w, r, "User", err)
		return
	}
	h.login.RecordSuccessfulLogin(email)

	token, err := h.tokens.Sign(service.Identity(user))
	if err != nil {
		h.fail(w, r, "User", err)
		return
	}
	h.tokens.SetCookie(w, token, h.secureCookie)

	if err := h.events.LogAuthEvent(ctx, model.EventLevelInfo, "User logged in", ip,
		map[string]any{"user_id": user.ID, "email": user.Email}); err != nil {
		h.logger.Warn("failed to record event", "message", "User logged in", "error", err)
	}
	writeJSON(w, http.StatusOK, MeResponse{User: UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Role:  user.Role,
	}})
}

func (h *Handler) loginFailed(r *http.Request, email, ip string) {
	locked, lockFor := h.login.RecordFailedAttempt(email)
	md := map[string]any{"email": email}
	level, message := model.EventLevelWarning, "Failed login attempt"
	if locked {
		md["locked_for"] = lockFor.String()
		message = "Account locked after failed login attempts"
	} else {
		md["remaining_attempts"] = h.login.RemainingAttempts(email)
	}
	if err := h.events.LogAuthEvent(r.Context(), level, message, ip, md); err != nil {
		h.logger.Warn("failed to record event", "message", message, "error", err)
	}
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, _ *http.Request) {
	auth.ClearCookie(w, h.secureCookie)
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := h.tokens.Verify(auth.TokenFromRequest(r))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, MeResponse{User: UserResponse{
		ID:    id.UserID,
		Email: id.Email,
		Name:  id.Name,
		Role:  id.Role,
	}})
}
