// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

const (
	msgDuplicateSlug = "Slug already exists"
	msgInvalidSlug   = "Slug may only contain lowercase letters, digits and hyphens"
)

// OptionalTime distinguishes an absent JSON field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *time.Time
}

// UnmarshalJSON implements json.Unmarshaler. It is also called for null.
func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(b, []byte("null")) {
		o.Value = nil
		return nil
	}
	var t time.Time
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

// NewsInput is the payload for creating an article.
type NewsInput struct {
	Title       string       `json:"title" validate:"required,max=300"`
	Slug        string       `json:"slug" validate:"max=200"`
	Excerpt     *string      `json:"excerpt" validate:"omitempty,max=1000"`
	Content     string       `json:"content" validate:"required"`
	Image       *string      `json:"image"`
	Status      string       `json:"status" validate:"omitempty,oneof=draft published"`
	Tags        []string     `json:"tags"`
	PublishedAt OptionalTime `json:"publishedAt"`
}

// NewsPatch is a partial article update. Nil or empty fields are left
// unchanged, except Excerpt and Image which may be cleared.
type NewsPatch struct {
	Title       *string      `json:"title" validate:"omitempty,max=300"`
	Slug        *string      `json:"slug" validate:"omitempty,max=200"`
	Excerpt     *string      `json:"excerpt" validate:"omitempty,max=1000"`
	Content     *string      `json:"content"`
	Image       *string      `json:"image"`
	Status      *string      `json:"status" validate:"omitempty,oneof=draft published"`
	Tags        *[]string    `json:"tags"`
	PublishedAt OptionalTime `json:"publishedAt"`
}

// NewsService manages blog articles.
type NewsService struct {
	queries *store.Queries
	policy  *bluemonday.Policy
	now     func() time.Time
}

// NewNewsService creates a NewsService. Article bodies are sanitized with
// the user-generated-content policy before they are stored.
func NewNewsService(db *sql.DB) *NewsService {
	return &NewsService{
		queries: store.New(db),
		policy:  bluemonday.UGCPolicy(),
		now:     time.Now,
	}
}

// List returns articles newest first. A status of "all" or "" disables
// the status filter.
func (s *NewsService) List(ctx context.Context, status, search string) ([]store.News, error) {
	if status == model.NewsStatusAll {
		status = ""
	}
	return s.queries.ListNews(ctx, store.ListNewsParams{
		Status: status,
		Search: strings.TrimSpace(search),
	})
}

// Lookup finds an article by id, falling back to its slug.
func (s *NewsService) Lookup(ctx context.Context, idOrSlug string) (store.News, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		n, err := s.queries.GetNews(ctx, idOrSlug)
		if !store.IsNotFound(err) {
			return n, err
		}
	}
	return s.queries.GetNewsBySlug(ctx, idOrSlug)
}

// Create stores a new article. The slug is derived from the title when
// omitted. Publishing without a date stamps the current time.
func (s *NewsService) Create(ctx context.Context, in NewsInput) (store.News, error) {
	slug := strings.TrimSpace(in.Slug)
	if slug == "" {
		slug = util.Slugify(in.Title)
	}
	if !util.IsValidSlug(slug) {
		return store.News{}, invalid(msgInvalidSlug)
	}
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return store.News{}, err
	}

	status := in.Status
	if status == "" {
		status = model.NewsStatusDraft
	}

	now := s.now().UTC()
	publishedAt := util.NullTimeFromPtr(in.PublishedAt.Value)
	if status == model.NewsStatusPublished && !publishedAt.Valid {
		publishedAt = sql.NullTime{Time: now, Valid: true}
	}

	n, err := s.queries.CreateNews(ctx, store.CreateNewsParams{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug,
		Excerpt:     util.NullStringFromPtr(in.Excerpt),
		Content:     s.policy.Sanitize(in.Content),
		Image:       util.NullStringFromPtr(in.Image),
		Status:      status,
		Tags:        NormalizeList(in.Tags),
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if store.IsUniqueViolation(err) {
		return store.News{}, conflict(msgDuplicateSlug)
	}
	return n, err
}

// Update applies patch to the article with the given id.
func (s *NewsService) Update(ctx context.Context, id string, patch NewsPatch) (store.News, error) {
	n, err := s.queries.GetNews(ctx, id)
	if err != nil {
		return store.News{}, err
	}

	if patch.Slug != nil && strings.TrimSpace(*patch.Slug) != "" {
		slug := strings.TrimSpace(*patch.Slug)
		if !util.IsValidSlug(slug) {
			return store.News{}, invalid(msgInvalidSlug)
		}
		if err := s.ensureSlugFree(ctx, slug, id); err != nil {
			return store.News{}, err
		}
		n.Slug = slug
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		n.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Excerpt != nil {
		n.Excerpt = util.NullStringFromValue(*patch.Excerpt)
	}
	if patch.Content != nil && *patch.Content != "" {
		n.Content = s.policy.Sanitize(*patch.Content)
	}
	if patch.Image != nil {
		n.Image = util.NullStringFromValue(*patch.Image)
	}
	if patch.Status != nil && *patch.Status != "" {
		n.Status = *patch.Status
	}
	if patch.Tags != nil {
		n.Tags = NormalizeList(*patch.Tags)
	}
	if patch.PublishedAt.Set {
		n.PublishedAt = util.NullTimeFromPtr(patch.PublishedAt.Value)
	}

	updated, err := s.queries.UpdateNews(ctx, store.UpdateNewsParams{
		Title:       n.Title,
		Slug:        n.Slug,
		Excerpt:     n.Excerpt,
		Content:     n.Content,
		Image:       n.Image,
		Status:      n.Status,
		Tags:        n.Tags,
		PublishedAt: n.PublishedAt,
		UpdatedAt:   s.now().UTC(),
		ID:          id,
	})
	if store.IsUniqueViolation(err) {
		return store.News{}, conflict(msgDuplicateSlug)
	}
	return updated, err
}

// Delete removes an article. It returns sql.ErrNoRows when nothing was deleted.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteNews(ctx, id))
}

func (s *NewsService) ensureSlugFree(ctx context.Context, slug, exceptID string) error {
	existing, err := s.queries.GetNewsBySlug(ctx, slug)
	switch {
	case store.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return conflict(msgDuplicateSlug)
	}
	return nil
}
