// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// ProductResponse represents a product in API responses.
type ProductResponse struct {
	ID          string    `json:"id"`
	NameVi      string    `json:"nameVi"`
	NameEn      string    `json:"nameEn"`
	NameRU      *string   `json:"nameRU"`
	Name        string    `json:"name,omitempty"`
	ProductCode string    `json:"productCode"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	Unit        *string   `json:"unit"`
	Image       string    `json:"image"`
	Images      []string  `json:"images"`
	Description *string   `json:"description"`
	Benefits    []string  `json:"benefits"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func storeProductToResponse(p store.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		NameVi:      p.NameVi,
		NameEn:      p.NameEn,
		NameRU:      util.StringPtr(p.NameRu),
		ProductCode: p.ProductCode,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Unit:        util.StringPtr(p.Unit),
		Image:       p.Image,
		Images:      list(p.Images),
		Description: util.StringPtr(p.Description),
		Benefits:    list(p.Benefits),
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// localized sets Name for a supported locale.
func (p ProductResponse) localized(lang string) ProductResponse {
	lang = strings.ToLower(lang)
	if !i18n.IsSupported(lang) {
		return p
	}
	names := i18n.Names{Vi: p.NameVi, En: p.NameEn}
	if p.NameRU != nil {
		names.Ru = *p.NameRU
	}
	p.Name = i18n.Localize(lang, names)
	return p
}

// BannerResponse represents a carousel banner in API responses.
type BannerResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TitleEn        *string   `json:"titleEn"`
	TitleRU        *string   `json:"titleRU"`
	LocalizedTitle string    `json:"localizedTitle,omitempty"`
	Subtitle       *string   `json:"subtitle"`
	Image          string    `json:"image"`
	Link           *string   `json:"link"`
	Order          int64     `json:"order"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func storeBannerToResponse(b store.Banner) BannerResponse {
	return BannerResponse{
		ID:        b.ID,
		Title:     b.Title,
		TitleEn:   util.StringPtr(b.TitleEn),
		TitleRU:   util.StringPtr(b.TitleRu),
		Subtitle:  util.StringPtr(b.Subtitle),
		Image:     b.Image,
		Link:      util.StringPtr(b.Link),
		Order:     b.SortOrder,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// localized sets LocalizedTitle for a supported locale.
func (b BannerResponse) localized(lang string) BannerResponse {
	lang = strings.ToLower(lang)
	if !i18n.IsSupported(lang) {
		return b
	}
	titles := i18n.Names{Vi: b.Title}
	if b.TitleEn != nil {
		titles.En = *b.TitleEn
	}
	if b.TitleRU != nil {
		titles.Ru = *b.TitleRU
	}
	b.LocalizedTitle = i18n.Localize(lang, titles)
	return b
}

// localizeAll returns a localized copy of items. Cached slices are shared
// between requests, so they are never localized in place.
func localizeAll[T interface{ localized(string) T }](items []T, lang string) []T {
	return mapSlice(items, func(v T) T { return v.localized(lang) })
}

// NewsResponse represents a news post in API responses.
type NewsResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Excerpt     *string    `json:"excerpt"`
	Content     string     `json:"content"`
	Image       *string    `json:"image"`
	Status      string     `json:"status"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func storeNewsToResponse(n store.News) NewsResponse {
	return NewsResponse{
		ID:          n.ID,
		Title:       n.Title,
		Slug:        n.Slug,
		Excerpt:     util.StringPtr(n.Excerpt),
		Content:     n.Content,
		Image:       util.StringPtr(n.Image),
		Status:      n.Status,
		Tags:        list(n.Tags),
		PublishedAt: util.TimePtr(n.PublishedAt),
		CreatedAt:   n.CreatedAt,
		UpdatedAt:   n.UpdatedAt,
	}
}

// LeadResponse represents a customer contact request in API responses.
type LeadResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       *string    `json:"email"`
	Phone       string     `json:"phone"`
	Subject     string     `json:"subject"`
	Message     string     `json:"message"`
	Status      string     `json:"status"`
	ContactedAt *time.Time `json:"contactedAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func storeLeadToResponse(l store.Lead) LeadResponse {
	return LeadResponse{
		ID:          l.ID,
		Name:        l.Name,
		Email:       util.StringPtr(l.Email),
		Phone:       l.Phone,
		Subject:     l.Subject,
		Message:     l.Message,
		Status:      l.Status,
		ContactedAt: util.TimePtr(l.ContactedAt),
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ContactResponse represents a site contact entry in API responses.
type ContactResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	Label     *string   `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func storeContactToResponse(c store.Contact) ContactResponse {
	return ContactResponse{
		ID:        c.ID,
		Type:      c.Type,
		Value:     c.Value,
		Label:     util.StringPtr(c.Label),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ProjectResponse represents a showcase project in API responses.
type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	Images      []string  `json:"images"`
	Category    *string   `json:"category"`
	Results     *string   `json:"results"`
	Year        *int64    `json:"year"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func storeProjectToResponse(p store.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Image:       util.StringPtr(p.Image),
		Images:      list(p.Images),
		Category:    util.StringPtr(p.Category),
		Results:     util.StringPtr(p.Results),
		Year:        util.Int64Ptr(p.Year),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// EventResponse represents an event log entry in API responses.
type EventResponse struct {
	ID        int64           `json:"id"`
	Level     string          `json:"level"`
	Category  string          `json:"category"`
	Message   string          `json:"message"`
	Metadata  json.RawMessage `json:"metadata"`
	IPAddress string          `json:"ipAddress,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

func storeEventToResponse(e store.Event) EventResponse {
	md := json.RawMessage("{}")
	if e.Metadata != "" && json.Valid([]byte(e.Metadata)) {
		md = json.RawMessage(e.Metadata)
	}
	return EventResponse{
		ID:        e.ID,
		Level:     e.Level,
		Category:  e.Category,
		Message:   e.Message,
		Metadata:  md,
		IPAddress: e.IpAddress,
		CreatedAt: e.CreatedAt,
	}
}

// UserResponse is the public view of the signed-in admin.
type UserResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// MeResponse wraps the signed-in user.
type MeResponse struct {
	User UserResponse `json:"user"`
}

// mapSlice converts every element with fn. The result is never nil so
// empty lists encode as [].
func mapSlice[T, R any](in []T, fn func(T) R) []R {
	out := make([]R, 0, len(in))
	for _, v := range in {
		out = append(out, fn(v))
	}
	return out
}

func list(l store.StringList) []string {
	if l == nil {
		return []string{}
	}
	return l
}
