// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// cgnat is the RFC 6598 shared address space, which netip does not
// classify as private.
var cgnat = netip.MustParsePrefix("100.64.0.0/10")

// IsPrivateIP reports whether ip is loopback, link-local, RFC 1918, unique
// local, shared CGNAT or unparsable. Such addresses have no country.
func IsPrivateIP(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return true
	}
	addr = addr.Unmap()
	return addr.IsPrivate() || addr.IsLoopback() || addr.IsLinkLocalUnicast() ||
		addr.IsUnspecified() || cgnat.Contains(addr)
}

// ClientIP returns the client address for r: X-Real-IP, then the first
// X-Forwarded-For hop, then RemoteAddr without its port.
func ClientIP(r *http.Request) string {
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ","); strings.TrimSpace(first) != "" {
		return strings.TrimSpace(first)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
