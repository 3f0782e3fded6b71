// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// VisitPurger deletes page visits older than a retention window in days.
type VisitPurger interface {
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// EventPurger deletes operational events older than a duration.
type EventPurger interface {
	DeleteOldEvents(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Reloader reopens an on-disk database, such as the GeoIP file.
type Reloader interface {
	Reload() error
}

// VisitPurgeJob removes visits past the retention window.
func VisitPurgeJob(p VisitPurger, retentionDays int, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := p.Purge(ctx, retentionDays)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("purged page visits", "deleted", n, "retention_days", retentionDays)
		}
		return nil
	}
}

// EventPurgeJob removes events older than retention.
func EventPurgeJob(p EventPurger, retention time.Duration, logger *slog.Logger) JobFunc {
	return func(ctx context.Context) error {
		n, err := p.DeleteOldEvents(ctx, retention)
		if err != nil {
			return err
		}
		if n > 0 {
			logger.Info("purged events", "deleted", n, "retention", retention)
		}
		return nil
	}
}

// ReloadJob reopens r, for example after the GeoLite2 file was refreshed.
func ReloadJob(r Reloader) JobFunc {
	return func(context.Context) error {
		return r.Reload()
	}
}
