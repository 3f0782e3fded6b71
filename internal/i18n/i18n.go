// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package i18n provides locale negotiation for the storefront API and
// translations for the admin pages. Vietnamese is the default locale.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localesFS embed.FS

// Supported locales.
const (
	LangVi = "vi"
	LangEn = "en"
	LangRu = "ru"

	DefaultLang = LangVi
)

// SupportedLanguages lists the supported locales; the first is the default.
var SupportedLanguages = []string{LangVi, LangEn, LangRu}

var (
	supportedTags = []language.Tag{language.Vietnamese, language.English, language.Russian}
	matcher       = language.NewMatcher(supportedTags)
)

// Message represents a single translatable message.
type Message struct {
	ID          string `json:"id"`
	Translation string `json:"translation"`
}

// MessageFile represents the structure of a messages JSON file.
type MessageFile struct {
	Language string    `json:"language"`
	Messages []Message `json:"messages"`
}

// Catalog holds all translations for all supported languages.
type Catalog struct {
	mu           sync.RWMutex
	translations map[string]map[string]string // lang -> key -> translation
	logger       *slog.Logger
}

// catalog is the global catalog instance.
var catalog *Catalog

// Init loads the embedded translations.
func Init(logger *slog.Logger) error {
	c := &Catalog{
		translations: make(map[string]map[string]string),
		logger:       logger,
	}

	for _, lang := range SupportedLanguages {
		if err := c.loadLanguage(lang); err != nil {
			return fmt.Errorf("failed to load language %s: %w", lang, err)
		}
	}

	catalog = c
	if logger != nil {
		logger.Info("i18n initialized", "languages", SupportedLanguages)
	}

	return nil
}

func (c *Catalog) loadLanguage(lang string) error {
	path := fmt.Sprintf("locales/%s.json", lang)
	data, err := localesFS.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	var msgFile MessageFile
	if err := json.Unmarshal(data, &msgFile); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.translations[lang] = make(map[string]string, len(msgFile.Messages))
	for _, msg := range msgFile.Messages {
		c.translations[lang][msg.ID] = msg.Translation
	}

	return nil
}

// T translates key into lang, falling back to the default locale and then
// to the key itself. Optional args are applied with fmt.Sprintf.
func T(lang, key string, args ...any) string {
	if catalog == nil {
		return key
	}

	catalog.mu.RLock()
	translation, ok := catalog.translations[lang][key]
	if !ok {
		translation, ok = catalog.translations[DefaultLang][key]
	}
	catalog.mu.RUnlock()

	if !ok {
		return key
	}
	if len(args) > 0 {
		return fmt.Sprintf(translation, args...)
	}
	return translation
}

// Match returns the best supported locale for an Accept-Language header
// or a bare language code.
func Match(acceptLang string) string {
	acceptLang = strings.TrimSpace(acceptLang)
	if acceptLang == "" {
		return DefaultLang
	}

	tags, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(tags) == 0 {
		tag, err := language.Parse(acceptLang)
		if err != nil {
			return DefaultLang
		}
		tags = []language.Tag{tag}
	}

	_, idx, conf := matcher.Match(tags...)
	if conf == language.No || idx < 0 || idx >= len(SupportedLanguages) {
		return DefaultLang
	}
	return SupportedLanguages[idx]
}

// IsSupported checks if a language code is a supported locale.
func IsSupported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, supported := range SupportedLanguages {
		if supported == lang {
			return true
		}
	}
	return false
}

// TranslationCount returns the number of translations loaded for a language.
func TranslationCount(lang string) int {
	if catalog == nil {
		return 0
	}

	catalog.mu.RLock()
	defer catalog.mu.RUnlock()
	return len(catalog.translations[lang])
}

// Names holds the per-locale variants of a display name.
type Names struct {
	Vi string
	En string
	Ru string
}

// Localize picks the name for lang. Missing variants fall back
// vi→en, ru→en→vi and en→vi.
func Localize(lang string, n Names) string {
	var chain []string
	switch lang {
	case LangRu:
		chain = []string{n.Ru, n.En, n.Vi}
	case LangEn:
		chain = []string{n.En, n.Vi}
	default:
		chain = []string{n.Vi, n.En}
	}
	for _, s := range chain {
		if strings.TrimSpace(s) != "" {
			return s
		}
	}
	return ""
}
