// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package i18n

import (
	"encoding/json"
	"fmt"
	"testing"
)

func TestInit(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	for _, lang := range SupportedLanguages {
		if TranslationCount(lang) == 0 {
			t.Errorf("expected %s translations to be loaded", lang)
		}
	}
}

func TestLocaleFilesHaveSameKeys(t *testing.T) {
	keys := make(map[string]map[string]bool)
	for _, lang := range SupportedLanguages {
		data, err := localesFS.ReadFile(fmt.Sprintf("locales/%s.json", lang))
		if err != nil {
			t.Fatalf("read %s: %v", lang, err)
		}
		var f MessageFile
		if err := json.Unmarshal(data, &f); err != nil {
			t.Fatalf("parse %s: %v", lang, err)
		}
		if f.Language != lang {
			t.Errorf("%s.json declares language %q", lang, f.Language)
		}
		keys[lang] = make(map[string]bool)
		for _, m := range f.Messages {
			if m.Translation == "" {
				t.Errorf("%s: empty translation for %s", lang, m.ID)
			}
			keys[lang][m.ID] = true
		}
	}

	for key := range keys[DefaultLang] {
		for _, lang := range SupportedLanguages {
			if !keys[lang][key] {
				t.Errorf("key %q missing in %s", key, lang)
			}
		}
	}
}

func TestT(t *testing.T) {
	if err := Init(nil); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	tests := []struct {
		lang     string
		key      string
		args     []any
		expected string
	}{
		{"vi", "login.submit", nil, "Đăng nhập"},
		{"en", "login.submit", nil, "Sign in"},
		{"ru", "login.submit", nil, "Войти"},
		{"en", "dashboard.welcome", []any{"Lan"}, "Hello, Lan"},
		{"vi", "category.fruits", nil, "Trái cây"},
		// unknown language falls back to Vietnamese
		{"de", "login.submit", nil, "Đăng nhập"},
		{"en", "nonexistent.key", nil, "nonexistent.key"},
	}

	for _, tt := range tests {
		t.Run(tt.lang+"_"+tt.key, func(t *testing.T) {
			result := T(tt.lang, tt.key, tt.args...)
			if result != tt.expected {
				t.Errorf("T(%q, %q, %v) = %q, want %q", tt.lang, tt.key, tt.args, result, tt.expected)
			}
		})
	}
}

func TestMatch(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", "vi"},
		{"vi", "vi"},
		{"en", "en"},
		{"ru", "ru"},
		{"en-US", "en"},
		{"ru-RU", "ru"},
		{"vi-VN,vi;q=0.9", "vi"},
		{"de", "vi"},
		{"invalid!!", "vi"},
		{"ru-RU, en;q=0.9", "ru"},
		{"fr-FR, en;q=0.5", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Match(tt.input); got != tt.expected {
				t.Errorf("Match(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestIsSupported(t *testing.T) {
	tests := map[string]bool{"vi": true, "EN": true, "ru": true, "de": false, "": false}
	for lang, want := range tests {
		if got := IsSupported(lang); got != want {
			t.Errorf("IsSupported(%q) = %v, want %v", lang, got, want)
		}
	}
}

func TestLocalize(t *testing.T) {
	full := Names{Vi: "Xoài", En: "Mango", Ru: "Манго"}
	noRu := Names{Vi: "Xoài", En: "Mango"}
	viOnly := Names{Vi: "Xoài"}
	enOnly := Names{En: "Mango"}

	tests := []struct {
		name  string
		lang  string
		names Names
		want  string
	}{
		{"vi", "vi", full, "Xoài"},
		{"en", "en", full, "Mango"},
		{"ru", "ru", full, "Манго"},
		{"ru falls back to en", "ru", noRu, "Mango"},
		{"ru falls back to vi", "ru", viOnly, "Xoài"},
		{"en falls back to vi", "en", viOnly, "Xoài"},
		{"vi falls back to en", "vi", enOnly, "Mango"},
		{"unknown behaves as vi", "de", full, "Xoài"},
		{"blank ru ignored", "ru", Names{Vi: "Xoài", Ru: "  "}, "Xoài"},
		{"nothing", "en", Names{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Localize(tt.lang, tt.names); got != tt.want {
				t.Errorf("Localize(%q, %+v) = %q, want %q", tt.lang, tt.names, got, tt.want)
			}
		})
	}
}
