// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"time"

	"github.com/olegiv/lefarm/internal/model"
)

var productCodeRegex = regexp.MustCompile(`^[A-Z]{3}-\d{3}$`)

// ProductCode builds a "<PREFIX>-NNN" code for category. The three digits mix
// the millisecond clock with a random component. Unknown categories yield "".
func ProductCode(category string, now time.Time, rnd *rand.Rand) string {
	prefix := model.CategoryPrefix(category)
	if prefix == "" {
		return ""
	}

	var n int
	if rnd != nil {
		n = rnd.IntN(100)
	} else {
		n = rand.IntN(100)
	}

	// last three digits of the millisecond clock followed by two random digits
	seed := fmt.Sprintf("%03d%02d", now.UnixMilli()%1000, n)
	return prefix + "-" + seed[len(seed)-3:]
}

// IsValidProductCode reports whether code has the "<PREFIX>-NNN" shape.
func IsValidProductCode(code string) bool {
	return productCodeRegex.MatchString(code)
}
