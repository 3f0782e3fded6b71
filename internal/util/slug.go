// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package util provides general-purpose helpers: slugs, product codes,
// relative time labels, client addresses and nullable column conversions.
package util

import (
	"strings"
	"unicode"

	"github.com/mozillazg/go-unidecode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips combining marks, turning "Lạt" into "Lat".
var foldMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify converts s to a lowercase [a-z0-9-] slug. Vietnamese tones are
// folded, đ becomes d, and other scripts such as Cyrillic are transliterated.
// Runs of spaces and hyphens collapse to one hyphen; other symbols are dropped.
func Slugify(s string) string {
	folded, _, err := transform.String(foldMarks, s)
	if err != nil {
		folded = s
	}
	folded = strings.NewReplacer("đ", "d", "Đ", "D").Replace(folded)
	folded = strings.ToLower(unidecode.Unidecode(folded))

	var b strings.Builder
	b.Grow(len(folded))
	hyphen := false
	for _, r := range folded {
		switch {
		case isSlugChar(r):
			if hyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			hyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			hyphen = true
		}
	}
	return b.String()
}

func isSlugChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

// IsValidSlug reports whether s is already in Slugify's output form.
func IsValidSlug(s string) bool {
	if s == "" || s[0] == '-' || s[len(s)-1] == '-' || strings.Contains(s, "--") {
		return false
	}
	for _, r := range s {
		if !isSlugChar(r) && r != '-' {
			return false
		}
	}
	return true
}
