// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/middleware"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/render"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

// LoginData is the login page model.
type LoginData struct {
	Email string
}

// AuthHandler serves the admin login form.
type AuthHandler struct {
	users           *service.AuthService
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	eventService    *service.EventService
	loginProtection *middleware.LoginProtection
	tokens          *auth.TokenManager
	secureCookie    bool
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, tokens *auth.TokenManager,
	lp *middleware.LoginProtection, secureCookie bool, logger *slog.Logger) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:           service.NewAuthService(db, logger),
		renderer:        renderer,
		sessionManager:  sm,
		eventService:    service.NewEventService(db),
		loginProtection: lp,
		tokens:          tokens,
		secureCookie:    secureCookie,
		logger:          logger,
	}
}

// LoginForm renders the login page. Signed-in admins go to the dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if _, err := h.tokens.Verify(auth.TokenFromRequest(r)); err == nil {
		http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, http.StatusOK, LoginData{}, "")
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	lang := middleware.GetAdminLang(r)
	ip := util.ClientIP(r)

	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, http.StatusBadRequest, LoginData{}, i18n.T(lang, "login.required"))
		return
	}
	email := service.NormalizeEmail(r.FormValue("email"))
	password := r.FormValue("password")
	data := LoginData{Email: email}

	if email == "" || strings.TrimSpace(password) == "" {
		h.renderLogin(w, r, http.StatusBadRequest, data, i18n.T(lang, "login.required"))
		return
	}

	if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
		minutes := int(math.Ceil(remaining.Minutes()))
		msg := i18n.T(lang, "login.locked", i18n.T(lang, "login.minutes", minutes))
		h.renderLogin(w, r, http.StatusTooManyRequests, data, msg)
		return
	}

	user, err := h.users.Authenticate(r.Context(), email, password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.recordFailure(r, email, ip)
		h.renderLogin(w, r, http.StatusUnauthorized, data, i18n.T(lang, "login.invalid"))
		return
	}
	if err != nil {
		h.logger.Error("login failed", "email", email, "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, data, i18n.T(lang, "login.error"))
		return
	}
	h.loginProtection.RecordSuccessfulLogin(email)

	token, err := h.tokens.Sign(service.Identity(user))
	if err != nil {
		h.logger.Error("signing token", "user_id", user.ID, "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, data, i18n.T(lang, "login.error"))
		return
	}
	if h.sessionManager != nil {
		if err := h.sessionManager.RenewToken(r.Context()); err != nil {
			h.logger.Warn("failed to renew session token", "error", err)
		}
	}
	h.tokens.SetCookie(w, token, h.secureCookie)

	if err := h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged in", ip,
		map[string]any{"user_id": user.ID, "email": user.Email}); err != nil {
		h.logger.Warn("failed to record event", "message", "User logged in", "error", err)
	}
	http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
}

// Logout clears the token cookie and returns to the login page.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearCookie(w, h.secureCookie)
	if id := middleware.GetIdentity(r); id != nil {
		if err := h.eventService.LogAuthEvent(r.Context(), model.EventLevelInfo, "User logged out", util.ClientIP(r),
			map[string]any{"user_id": id.UserID, "email": id.Email}); err != nil {
			h.logger.Warn("failed to record event", "message", "User logged out", "error", err)
		}
	}
	h.renderer.SetFlash(r, i18n.T(middleware.GetAdminLang(r), "login.logged_out"), render.FlashSuccess)
	http.Redirect(w, r, RouteLogin, http.StatusSeeOther)
}

func (h *AuthHandler) recordFailure(r *http.Request, email, ip string) {
	locked, lockFor := h.loginProtection.RecordFailedAttempt(email)
	md := map[string]any{"email": email}
	message := "Failed login attempt"
	if locked {
		md["locked_for"] = lockFor.String()
		message = "Account locked after failed login attempts"
	} else {
		md["remaining_attempts"] = h.loginProtection.RemainingAttempts(email)
	}
	if err := h.eventService.LogAuthEvent(r.Context(), model.EventLevelWarning, message, ip, md); err != nil {
		h.logger.Warn("failed to record event", "message", message, "error", err)
	}
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, data LoginData, errMsg string) {
	lang := middleware.GetAdminLang(r)
	td := render.TemplateData{
		Title: i18n.T(lang, "login.title"),
		Lang:  lang,
		Data:  data,
	}
	if errMsg != "" {
		td.Flash = errMsg
		td.FlashType = render.FlashError
	}
	if err := h.renderer.Render(w, r, status, TemplateLogin, td); err != nil {
		h.logger.Error("rendering login page", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
