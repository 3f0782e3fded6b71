// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
)

const cacheKeyContacts = cachePrefixContacts + "all"

// ListContacts handles GET /api/contacts.
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	resp, err := h.contactsCache.GetOrSet(ctx, cacheKeyContacts, func() ([]ContactResponse, error) {
		contacts, err := h.contacts.List(ctx)
		if err != nil {
			return nil, err
		}
		return mapSlice(contacts, storeContactToResponse), nil
	})
	if err != nil {
		h.fail(w, r, "Contact", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateContact handles POST /api/contacts.
func (h *Handler) CreateContact(w http.ResponseWriter, r *http.Request) {
	var in service.ContactInput
	if !decodeJSON(w, r, &in) {
		return
	}
	c, err := h.contacts.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Contact", err)
		return
	}

	h.invalidate(r, cachePrefixContacts)
	h.audit(r, model.EventCategoryContent, "Contact created", map[string]any{"id": c.ID, "type": c.Type})
	writeJSON(w, http.StatusCreated, storeContactToResponse(c))
}

// UpdateContact handles PUT /api/contacts/{id}.
func (h *Handler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch service.ContactPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	c, err := h.contacts.Update(r.Context(), id, patch)
	if err != nil {
		h.fail(w, r, "Contact", err)
		return
	}

	h.invalidate(r, cachePrefixContacts)
	h.audit(r, model.EventCategoryContent, "Contact updated", map[string]any{"id": c.ID})
	writeJSON(w, http.StatusOK, storeContactToResponse(c))
}

// DeleteContact handles DELETE /api/contacts/{id}.
func (h *Handler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.contacts.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "Contact", err)
		return
	}

	h.invalidate(r, cachePrefixContacts)
	h.audit(r, model.EventCategoryContent, "Contact deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
