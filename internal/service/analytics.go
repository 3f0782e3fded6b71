// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"sort"
	"strings"
	"time"

	"github.com/olegiv/lefarm/internal/store"
)

// Analytics defaults and limits.
const (
	DefaultMonths = 6
	DefaultDays   = 30
	MaxMonths     = 36
	MaxDays       = 366
)

// MonthlyVisits is one month bucket. Month is the short English name,
// Key disambiguates buckets that span a year boundary.
type MonthlyVisits struct {
	Month  string `json:"month"`
	Key    string `json:"key"`
	Visits int64  `json:"visits"`
}

// DailyVisits is the visit count for one UTC day.
type DailyVisits struct {
	Date   string `json:"date"`
	Visits int64  `json:"visits"`
}

// PageVisits is the visit count for one path.
type PageVisits struct {
	Page   string `json:"page"`
	Visits int64  `json:"visits"`
}

// MonthlyStart returns the first instant of the oldest of the last months
// calendar months ending with now's month.
func MonthlyStart(now time.Time, months int) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month()-time.Month(months-1), 1, 0, 0, 0, 0, time.UTC)
}

// Monthly buckets visit timestamps into exactly months zero-filled months,
// oldest first, ending with now's month. Timestamps outside the window
// are ignored.
func Monthly(now time.Time, months int, visits []time.Time) []MonthlyVisits {
	if months < 1 {
		months = DefaultMonths
	}
	start := MonthlyStart(now, months)

	buckets := make([]MonthlyVisits, months)
	index := make(map[string]int, months)
	for i := range buckets {
		m := start.AddDate(0, i, 0)
		key := m.Format("2006-01")
		buckets[i] = MonthlyVisits{Month: m.Format("Jan"), Key: key}
		index[key] = i
	}

	for _, v := range visits {
		if i, ok := index[v.UTC().Format("2006-01")]; ok {
			buckets[i].Visits++
		}
	}
	return buckets
}

// Daily counts visits per UTC day. Days without visits are omitted and
// the result is sorted by date ascending.
func Daily(visits []time.Time) []DailyVisits {
	counts := make(map[string]int64)
	for _, v := range visits {
		counts[v.UTC().Format(time.DateOnly)]++
	}

	out := make([]DailyVisits, 0, len(counts))
	for date, n := range counts {
		out = append(out, DailyVisits{Date: date, Visits: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// ByPage converts per-path counts into the response shape, sorted by
// visits descending and then path ascending.
func ByPage(rows []store.CountVisitsByPathRow) []PageVisits {
	out := make([]PageVisits, 0, len(rows))
	for _, r := range rows {
		out = append(out, PageVisits{Page: r.Path, Visits: r.Visits})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Visits != out[j].Visits {
			return out[i].Visits > out[j].Visits
		}
		return out[i].Page < out[j].Page
	})
	return out
}

var untrackedPrefixes = []string{
	"/admin",
	"/api/",
	"/health",
	"/_next/",
	"/static/",
	"/assets/",
	"/favicon.",
	"/robots.txt",
	"/sitemap",
	"/.well-known/",
}

var staticExtensions = []string{
	".css", ".js", ".map", ".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp",
	".woff", ".woff2", ".ttf", ".eot", ".otf",
	".xml", ".json", ".txt", ".pdf",
}

// ShouldTrack reports whether a visit to path is recorded. Admin pages,
// API routes and static assets are not.
func ShouldTrack(path string) bool {
	if path == "" || !strings.HasPrefix(path, "/") {
		return false
	}
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}
	lower := strings.ToLower(path)
	for _, ext := range staticExtensions {
		if strings.HasSuffix(lower, ext) {
			return false
		}
	}
	return true
}
