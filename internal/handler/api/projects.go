// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
)

// ListProjects handles GET /api/projects?category=&year=.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var year int64
	if raw := q.Get("year"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year")
			return
		}
		year = n
	}

	projects, err := h.projects.List(r.Context(), q.Get("category"), year)
	if err != nil {
		h.fail(w, r, "Project", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(projects, storeProjectToResponse))
}

// GetProject handles GET /api/projects/{id}. The segment may be an id or a slug.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.projects.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "Project", err)
		return
	}
	writeJSON(w, http.StatusOK, storeProjectToResponse(p))
}

// CreateProject handles POST /api/projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if !decodeJSON(w, r, &in) {
		return
	}
	p, err := h.projects.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Project", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "Project created", map[string]any{"id": p.ID, "slug": p.Slug})
	writeJSON(w, http.StatusCreated, storeProjectToResponse(p))
}

// UpdateProject handles PUT /api/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch service.ProjectPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	p, err := h.projects.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, "Project", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "Project updated", map[string]any{"id": p.ID})
	writeJSON(w, http.StatusOK, storeProjectToResponse(p))
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.projects.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "Project", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "Project deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
