// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Contact kinds shown in the site footer and contact page.
const (
	ContactTypePhone   = "phone"
	ContactTypeEmail   = "email"
	ContactTypeAddress = "address"
	ContactTypeZalo    = "zalo"
	ContactTypeSocial  = "social"
)

var contactTypes = map[string]bool{
	ContactTypePhone:   true,
	ContactTypeEmail:   true,
	ContactTypeAddress: true,
	ContactTypeZalo:    true,
	ContactTypeSocial:  true,
}

// IsValidContactType reports whether t is a known contact kind.
func IsValidContactType(t string) bool {
	return contactTypes[t]
}
