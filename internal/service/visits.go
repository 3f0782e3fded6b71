// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/mileusna/useragent"

	"github.com/olegiv/lefarm/internal/store"
)

// Device types recorded with a visit.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
	DeviceTablet  = "tablet"
	DeviceBot     = "bot"
)

// ParsedUA holds the fields extracted from a User-Agent header.
type ParsedUA struct {
	Browser    string
	OS         string
	DeviceType string
}

// ParseUserAgent extracts browser, OS and device type from a user agent.
func ParseUserAgent(uaString string) ParsedUA {
	ua := useragent.Parse(uaString)

	result := ParsedUA{
		Browser: ua.Name,
		OS:      ua.OS,
	}
	if result.Browser == "" {
		result.Browser = "Unknown"
	}
	if result.OS == "" {
		result.OS = "Unknown"
	}

	switch {
	case ua.Bot:
		result.DeviceType = DeviceBot
	case ua.Tablet:
		result.DeviceType = DeviceTablet
	case ua.Mobile:
		result.DeviceType = DeviceMobile
	default:
		result.DeviceType = DeviceDesktop
	}
	return result
}

// CountryResolver maps a client IP to an ISO country code.
type CountryResolver interface {
	LookupCountry(ip string) string
}

// Visit is a raw page view reported by the storefront.
type Visit struct {
	Path      string
	Referrer  string
	UserAgent string
	IP        string
}

// VisitTracker records storefront page views.
type VisitTracker struct {
	queries *store.Queries
	geo     CountryResolver
	now     func() time.Time
}

// NewVisitTracker creates a tracker. geo may be nil.
func NewVisitTracker(db *sql.DB, geo CountryResolver) *VisitTracker {
	return &VisitTracker{
		queries: store.New(db),
		geo:     geo,
		now:     time.Now,
	}
}

// Record stores v unless its path is untracked or it comes from a bot.
// It reports whether a row was written.
func (t *VisitTracker) Record(ctx context.Context, v Visit) (bool, error) {
	if !ShouldTrack(v.Path) {
		return false, nil
	}
	ua := ParseUserAgent(v.UserAgent)
	if ua.DeviceType == DeviceBot {
		return false, nil
	}

	var country string
	if t.geo != nil && v.IP != "" {
		country = t.geo.LookupCountry(v.IP)
	}

	_, err := t.queries.CreatePageVisit(ctx, store.CreatePageVisitParams{
		ID:         uuid.NewString(),
		Path:       v.Path,
		Referrer:   referrerHost(v.Referrer),
		Browser:    ua.Browser,
		Os:         ua.OS,
		DeviceType: ua.DeviceType,
		Country:    country,
		VisitedAt:  t.now().UTC(),
	})
	if err != nil {
		return false, fmt.Errorf("recording visit: %w", err)
	}
	return true, nil
}

// Since returns visit timestamps at or after since, optionally for one path.
func (t *VisitTracker) Since(ctx context.Context, since time.Time, path string) ([]time.Time, error) {
	return t.queries.ListVisitTimesSince(ctx, store.ListVisitTimesSinceParams{
		Since: since.UTC(),
		Path:  path,
	})
}

// ByPage returns all-time visit counts per path.
func (t *VisitTracker) ByPage(ctx context.Context) ([]PageVisits, error) {
	rows, err := t.queries.CountVisitsByPath(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting visits: %w", err)
	}
	return ByPage(rows), nil
}

// Purge deletes visits older than retention days.
func (t *VisitTracker) Purge(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := t.now().UTC().AddDate(0, 0, -retentionDays)
	return t.queries.DeleteVisitsBefore(ctx, cutoff)
}

// referrerHost keeps only the host of a referrer URL.
func referrerHost(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(ref)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Hostname()
}
