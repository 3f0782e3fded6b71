// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Lead statuses
const (
	LeadStatusNew        = "new"
	LeadStatusContacted  = "contacted"
	LeadStatusConsulting = "consulting"
	LeadStatusClosed     = "closed"
	LeadStatusReplied    = "replied"
)

// LeadStatuses lists every valid lead status in lifecycle order.
var LeadStatuses = []string{
	LeadStatusNew,
	LeadStatusContacted,
	LeadStatusConsulting,
	LeadStatusReplied,
	LeadStatusClosed,
}

// IsValidLeadStatus reports whether s is a known lead status.
func IsValidLeadStatus(s string) bool {
	for _, status := range LeadStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// MarksContact reports whether moving a lead into status s records the
// time the customer was contacted.
func MarksContact(s string) bool {
	return s == LeadStatusContacted || s == LeadStatusReplied
}
