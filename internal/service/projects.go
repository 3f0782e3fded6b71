// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// ProjectInput is the payload for creating a showcase project.
type ProjectInput struct {
	Title       string   `json:"title" validate:"required,max=300"`
	Slug        string   `json:"slug" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Image       *string  `json:"image"`
	Images      []string `json:"images"`
	Category    *string  `json:"category" validate:"omitempty,max=100"`
	Results     *string  `json:"results"`
	Year        *int64   `json:"year" validate:"omitempty,gte=1900,lte=2100"`
}

// ProjectPatch is a partial project update.
type ProjectPatch struct {
	Title       *string   `json:"title" validate:"omitempty,max=300"`
	Slug        *string   `json:"slug" validate:"omitempty,max=200"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
	Category    *string   `json:"category" validate:"omitempty,max=100"`
	Results     *string   `json:"results"`
	Year        *int64    `json:"year" validate:"omitempty,gte=1900,lte=2100"`
}

// ProjectService manages showcase projects.
type ProjectService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewProjectService creates a ProjectService.
func NewProjectService(db *sql.DB) *ProjectService {
	return &ProjectService{queries: store.New(db), now: time.Now}
}

// List returns projects, most recent year first, optionally filtered.
func (s *ProjectService) List(ctx context.Context, category string, year int64) ([]store.Project, error) {
	return s.queries.ListProjects(ctx, store.ListProjectsParams{Category: category, Year: year})
}

// Lookup finds a project by id, falling back to its slug.
func (s *ProjectService) Lookup(ctx context.Context, idOrSlug string) (store.Project, error) {
	if _, err := uuid.Parse(idOrSlug); err == nil {
		p, err := s.queries.GetProject(ctx, idOrSlug)
		if err == nil || !store.IsNotFound(err) {
			return p, err
		}
	}
	return s.queries.GetProjectBySlug(ctx, idOrSlug)
}

// Create stores a new project.
func (s *ProjectService) Create(ctx context.Context, in ProjectInput) (store.Project, error) {
	slug := strings.TrimSpace(in.Slug)
	if !util.IsValidSlug(slug) {
		return store.Project{}, invalid(msgInvalidSlug)
	}

	now := s.now().UTC()
	p, err := s.queries.CreateProject(ctx, store.CreateProjectParams{
		ID:          uuid.NewString(),
		Title:       strings.TrimSpace(in.Title),
		Slug:        slug,
		Description: in.Description,
		Image:       util.NullStringFromPtr(in.Image),
		Images:      NormalizeList(in.Images),
		Category:    util.NullStringFromPtr(in.Category),
		Results:     util.NullStringFromPtr(in.Results),
		Year:        util.NullInt64FromPtr(in.Year),
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if store.IsUniqueViolation(err) {
		return store.Project{}, conflict(msgDuplicateSlug)
	}
	return p, err
}

// Update applies patch to the project with the given id.
func (s *ProjectService) Update(ctx context.Context, id string, patch ProjectPatch) (store.Project, error) {
	p, err := s.queries.GetProject(ctx, id)
	if err != nil {
		return store.Project{}, err
	}

	if patch.Title != nil && strings.TrimSpace(*patch.Title) != "" {
		p.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Slug != nil && strings.TrimSpace(*patch.Slug) != "" {
		slug := strings.TrimSpace(*patch.Slug)
		if !util.IsValidSlug(slug) {
			return store.Project{}, invalid(msgInvalidSlug)
		}
		p.Slug = slug
	}
	if patch.Description != nil && *patch.Description != "" {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = util.NullStringFromValue(*patch.Image)
	}
	if patch.Images != nil {
		p.Images = NormalizeList(*patch.Images)
	}
	if patch.Category != nil {
		p.Category = util.NullStringFromValue(*patch.Category)
	}
	if patch.Results != nil {
		p.Results = util.NullStringFromValue(*patch.Results)
	}
	if patch.Year != nil {
		p.Year = util.NullInt64FromPtr(patch.Year)
	}

	updated, err := s.queries.UpdateProject(ctx, store.UpdateProjectParams{
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Image:       p.Image,
		Images:      p.Images,
		Category:    p.Category,
		Results:     p.Results,
		Year:        p.Year,
		UpdatedAt:   s.now().UTC(),
		ID:          id,
	})
	if store.IsUniqueViolation(err) {
		return store.Project{}, conflict(msgDuplicateSlug)
	}
	return updated, err
}

// Delete removes a project. It returns sql.ErrNoRows when nothing was deleted.
func (s *ProjectService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteProject(ctx, id))
}
