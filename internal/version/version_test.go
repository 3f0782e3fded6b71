// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package version

import "testing"

func TestGet_Defaults(t *testing.T) {
	info := Get()
	if info.Version != "dev" {
		t.Errorf("Version = %q, want dev", info.Version)
	}
	if info.GitCommit != "unknown" {
		t.Errorf("GitCommit = %q, want unknown", info.GitCommit)
	}
}

func TestInfoString(t *testing.T) {
	tests := []struct {
		name string
		info Info
		want string
	}{
		{"without build time", Info{Version: "v1.2.3", GitCommit: "abc1234"}, "lefarm v1.2.3 (abc1234)"},
		{"with build time", Info{Version: "v1.2.3", GitCommit: "abc1234", BuildTime: "2026-01-30T12:00:00Z"}, "lefarm v1.2.3 (abc1234) built 2026-01-30T12:00:00Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
