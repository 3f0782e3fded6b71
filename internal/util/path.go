// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"path"
	"strings"
	"unicode"
)

// SanitizeFilename returns the last element of a client-supplied upload
// name with control characters removed. Both slash styles count as
// separators, so "../../etc/passwd" and `C:\x\rau.png` reduce to their base.
func SanitizeFilename(filename string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r == '\\':
			return '/'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, filename)

	base := strings.TrimSpace(path.Base(cleaned))
	switch base {
	case "", ".", "..", "/":
		return "", fmt.Errorf("invalid filename: %q", filename)
	}
	return base, nil
}
