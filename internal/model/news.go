// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// News statuses
const (
	NewsStatusDraft     = "draft"
	NewsStatusPublished = "published"
)

// NewsStatusAll disables status filtering on news listings.
const NewsStatusAll = "all"

// IsValidNewsStatus reports whether s is a storable news status.
func IsValidNewsStatus(s string) bool {
	return s == NewsStatusDraft || s == NewsStatusPublished
}
