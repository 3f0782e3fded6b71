// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/store"
)

const cacheKeyActiveBanners = cachePrefixBanners + "active"

// MoveBannerRequest is the body of POST /api/banners/{id}/move.
type MoveBannerRequest struct {
	Direction string `json:"direction" validate:"required,oneof=up down"`
}

// ListBanners handles GET /api/banners. ?active=true returns only the
// banners shown in the storefront carousel and is served from cache.
// ?locale= fills localizedTitle.
func (h *Handler) ListBanners(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locale := r.URL.Query().Get("locale")

	if r.URL.Query().Get("active") == "true" {
		resp, err := h.bannerCache.GetOrSet(ctx, cacheKeyActiveBanners, func() ([]BannerResponse, error) {
			banners, err := h.banners.List(ctx, true)
			if err != nil {
				return nil, err
			}
			return mapSlice(banners, storeBannerToResponse), nil
		})
		if err != nil {
			h.fail(w, r, "Banner", err)
			return
		}
		writeJSON(w, http.StatusOK, localizeAll(resp, locale))
		return
	}

	banners, err := h.banners.List(ctx, false)
	if err != nil {
		h.fail(w, r, "Banner", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(banners, func(b store.Banner) BannerResponse {
		return storeBannerToResponse(b).localized(locale)
	}))
}

// GetBanner handles GET /api/banners/{id}.
func (h *Handler) GetBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.banners.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Banner", err)
		return
	}
	writeJSON(w, http.StatusOK, storeBannerToResponse(b).localized(r.URL.Query().Get("locale")))
}

// CreateBanner handles POST /api/banners.
func (h *Handler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var in service.BannerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.banners.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Banner", err)
		return
	}

	h.invalidate(r, cachePrefixBanners)
	h.audit(r, model.EventCategoryContent, "Banner created", map[string]any{"id": b.ID})
	writeJSON(w, http.StatusCreated, storeBannerToResponse(b))
}

// UpdateBanner handles PUT /api/banners/{id}. The body replaces every
// field of the banner.
func (h *Handler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in service.BannerInput
	if !decodeJSON(w, r, &in) {
		return
	}
	b, err := h.banners.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, r, "Banner", err)
		return
	}

	h.invalidate(r, cachePrefixBanners)
	h.audit(r, model.EventCategoryContent, "Banner updated", map[string]any{"id": b.ID})
	writeJSON(w, http.StatusOK, storeBannerToResponse(b))
}

// DeleteBanner handles DELETE /api/banners/{id}.
func (h *Handler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.banners.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "Banner", err)
		return
	}

	h.invalidate(r, cachePrefixBanners)
	h.audit(r, model.EventCategoryContent, "Banner deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true, Message: "Banner deleted successfully"})
}

// MoveBanner handles POST /api/banners/{id}/move and returns the banners
// in their new order.
func (h *Handler) MoveBanner(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req MoveBannerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	banners, err := h.banners.Move(r.Context(), id, req.Direction)
	if err != nil {
		h.fail(w, r, "Banner", err)
		return
	}

	h.invalidate(r, cachePrefixBanners)
	writeJSON(w, http.StatusOK, mapSlice(banners, storeBannerToResponse))
}
