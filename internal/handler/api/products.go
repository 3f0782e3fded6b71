// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/store"
)

const cacheKeyFeaturedProducts = cachePrefixProducts + "featured"

// ListProducts handles GET /api/products.
// Query: category, featured=true, locale (adds a localized name).
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	products, err := h.products.List(r.Context(), q.Get("category"), q.Get("featured") == "true")
	if err != nil {
		h.fail(w, r, "Product", err)
		return
	}

	locale := q.Get("locale")
	writeJSON(w, http.StatusOK, mapSlice(products, func(p store.Product) ProductResponse {
		return storeProductToResponse(p).localized(locale)
	}))
}

// FeaturedProducts handles GET /api/products/featured.
func (h *Handler) FeaturedProducts(w http.ResponseWriter, r *http.Request) {
	resp, err := h.productCache.GetOrSet(r.Context(), cacheKeyFeaturedProducts, func() ([]ProductResponse, error) {
		products, err := h.products.Featured(r.Context())
		if err != nil {
			return nil, err
		}
		return mapSlice(products, storeProductToResponse), nil
	})
	if err != nil {
		h.fail(w, r, "Product", err)
		return
	}

	writeJSON(w, http.StatusOK, localizeAll(resp, r.URL.Query().Get("locale")))
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Product", err)
		return
	}
	writeJSON(w, http.StatusOK, storeProductToResponse(p).localized(r.URL.Query().Get("locale")))
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in service.ProductInput
	if !decodeJSON(w, r, &in) {
		return
	}

	p, err := h.products.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Product", err)
		return
	}

	h.invalidate(r, cachePrefixProducts)
	h.audit(r, model.EventCategoryCatalog, "Product created", map[string]any{"id": p.ID, "code": p.ProductCode})
	writeJSON(w, http.StatusCreated, storeProductToResponse(p))
}

// UpdateProduct handles PUT /api/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch service.ProductPatch
	if !decodeJSON(w, r, &patch) {
		return
	}

	p, err := h.products.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, "Product", err)
		return
	}

	h.invalidate(r, cachePrefixProducts)
	h.audit(r, model.EventCategoryCatalog, "Product updated", map[string]any{"id": p.ID})
	writeJSON(w, http.StatusOK, storeProductToResponse(p))
}

// DeleteProduct handles DELETE /api/products/{id}.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.products.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "Product", err)
		return
	}

	h.invalidate(r, cachePrefixProducts)
	h.audit(r, model.EventCategoryCatalog, "Product deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
