// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email or a wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AuthService checks admin credentials.
type AuthService struct {
	queries *store.Queries
	logger  *slog.Logger
	now     func() time.Time
}

// NewAuthService creates an AuthService.
func NewAuthService(db *sql.DB, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{queries: store.New(db), logger: logger, now: time.Now}
}

// NormalizeEmail lowercases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate returns the user matching email and password. Legacy
// bcrypt hashes are upgraded on success and the last login is stamped;
// failures of either are logged and do not fail the login.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (store.User, error) {
	email = NormalizeEmail(email)
	user, err := s.queries.GetUserByEmail(ctx, email)
	if store.IsNotFound(err) {
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, err
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		s.logger.Warn("password check failed", "email", email, "error", err)
	}
	if !ok {
		return store.User{}, ErrInvalidCredentials
	}

	now := s.now().UTC()
	if auth.NeedsRehash(user.PasswordHash) {
		if hash, err := auth.HashPassword(password); err == nil {
			if err := s.queries.UpdateUserPassword(ctx, store.UpdateUserPasswordParams{
				PasswordHash: hash,
				UpdatedAt:    now,
				ID:           user.ID,
			}); err != nil {
				s.logger.Warn("failed to upgrade password hash", "user_id", user.ID, "error", err)
			}
		}
	}
	if err := s.queries.UpdateUserLastLogin(ctx, store.UpdateUserLastLoginParams{LastLoginAt: now, ID: user.ID}); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}
	return user, nil
}

// Identity converts a user row into token claims.
func Identity(u store.User) auth.Identity {
	return auth.Identity{
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
	}
}
