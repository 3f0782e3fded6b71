// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package web

import (
	"io/fs"
	"testing"
)

func TestEmbeddedFiles(t *testing.T) {
	tests := []struct {
		fsys fs.FS
		name string
	}{
		{TemplateFS(), "layouts/base.html"},
		{TemplateFS(), "layouts/admin.html"},
		{TemplateFS(), "auth/login.html"},
		{TemplateFS(), "admin/dashboard.html"},
		{TemplateFS(), "partials/flash.html"},
		{StaticFS(), "admin.css"},
	}
	for _, tt := range tests {
		if _, err := fs.Stat(tt.fsys, tt.name); err != nil {
			t.Errorf("%s not embedded: %v", tt.name, err)
		}
	}
}
