// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/model"
)

// Default admin credentials used when none are configured.
const (
	DefaultAdminEmail    = "admin@lefarm.vn"
	DefaultAdminPassword = "changeme1234"
	DefaultAdminName     = "Admin"
)

// SeedOptions controls the initial admin account.
type SeedOptions struct {
	Email    string
	Password string
	Name     string
	// Reseed resets the name and password of an existing account.
	Reseed bool
}

func (o SeedOptions) withDefaults() SeedOptions {
	if o.Email == "" {
		o.Email = DefaultAdminEmail
	}
	if o.Password == "" {
		o.Password = DefaultAdminPassword
	}
	if o.Name == "" {
		o.Name = DefaultAdminName
	}
	return o
}

// Seed creates the admin user if it does not exist yet.
func Seed(ctx context.Context, db *sql.DB, opts SeedOptions) error {
	opts = opts.withDefaults()
	queries := New(db)

	existing, err := queries.GetUserByEmail(ctx, opts.Email)
	switch {
	case err == nil:
		if !opts.Reseed {
			slog.Info("admin user already exists, skipping seed", "email", existing.Email)
			return nil
		}
		return reseedAdmin(ctx, queries, existing, opts)
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("checking for admin user: %w", err)
	}

	passwordHash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, CreateUserParams{
		ID:           uuid.NewString(),
		Email:        opts.Email,
		PasswordHash: passwordHash,
		Name:         opts.Name,
		Role:         model.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created admin user", "id", user.ID, "email", user.Email)
	if opts.Password == DefaultAdminPassword {
		slog.Warn("admin user uses the default password, change it after first login", "email", user.Email)
	}

	return nil
}

func reseedAdmin(ctx context.Context, queries *Queries, user User, opts SeedOptions) error {
	passwordHash, err := auth.HashPassword(opts.Password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	if err := queries.UpdateUserCredentials(ctx, UpdateUserCredentialsParams{
		Name:         opts.Name,
		PasswordHash: passwordHash,
		UpdatedAt:    time.Now().UTC(),
		ID:           user.ID,
	}); err != nil {
		return fmt.Errorf("updating admin user: %w", err)
	}

	slog.Info("updated admin user credentials", "id", user.ID, "email", user.Email)
	return nil
}
