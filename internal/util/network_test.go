// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package util

import (
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestIsPrivateIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"10.1.2.3", true},
		{"172.16.0.1", true},
		{"192.168.1.10", true},
		{"127.0.0.1", true},
		{"::1", true},
		{"fd00::1", true},
		{"100.64.3.4", true},
		{"169.254.10.1", true},
		{"::ffff:192.168.0.5", true},
		{"8.8.8.8", false},
		{"113.161.1.1", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			if got := IsPrivateIP(net.ParseIP(tt.ip)); got != tt.want {
				t.Errorf("IsPrivateIP(%s) = %v, want %v", tt.ip, got, tt.want)
			}
		})
	}

	if !IsPrivateIP(nil) {
		t.Error("nil IP should be treated as private")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		realIP     string
		forwarded  string
		remoteAddr string
		want       string
	}{
		{"remote addr", "", "", "203.0.113.5:51234", "203.0.113.5"},
		{"x-real-ip", "198.51.100.7", "", "10.0.0.1:80", "198.51.100.7"},
		{"x-forwarded-for first hop", "", "113.161.1.1, 10.0.0.2", "10.0.0.1:80", "113.161.1.1"},
		{"real ip wins", "198.51.100.7", "113.161.1.1", "10.0.0.1:80", "198.51.100.7"},
		{"remote addr without port", "", "", "203.0.113.5", "203.0.113.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				r.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tt.forwarded)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}
