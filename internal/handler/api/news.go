// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
)

// ListNews handles GET /api/news?status=&search=.
func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && status != model.NewsStatusAll &&
		status != model.NewsStatusDraft && status != model.NewsStatusPublished {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	news, err := h.news.List(r.Context(), status, q.Get("search"))
	if err != nil {
		h.fail(w, r, "News", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(news, storeNewsToResponse))
}

// GetNews handles GET /api/news/{id}. The segment may be an id or a slug.
func (h *Handler) GetNews(w http.ResponseWriter, r *http.Request) {
	n, err := h.news.Lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, r, "News", err)
		return
	}
	writeJSON(w, http.StatusOK, storeNewsToResponse(n))
}

// CreateNews handles POST /api/news.
func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var in service.NewsInput
	if !decodeJSON(w, r, &in) {
		return
	}
	n, err := h.news.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "News", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "News created", map[string]any{"id": n.ID, "slug": n.Slug})
	writeJSON(w, http.StatusCreated, storeNewsToResponse(n))
}

// UpdateNews handles PUT /api/news/{id}.
func (h *Handler) UpdateNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch service.NewsPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	n, err := h.news.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, "News", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "News updated", map[string]any{"id": n.ID})
	writeJSON(w, http.StatusOK, storeNewsToResponse(n))
}

// DeleteNews handles DELETE /api/news/{id}.
func (h *Handler) DeleteNews(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.news.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "News", err)
		return
	}

	h.audit(r, model.EventCategoryContent, "News deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
