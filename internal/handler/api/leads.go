// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

// UpdateLeadRequest is the body of PUT /api/leads/{id}.
type UpdateLeadRequest struct {
	Status string `json:"status" validate:"required"`
}

// ReplyLeadRequest is the body of POST /api/leads/{id}/reply.
type ReplyLeadRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ReplyLeadResponse reports an accepted reply.
type ReplyLeadResponse struct {
	Success   bool         `json:"success"`
	MessageID string       `json:"messageId"`
	Lead      LeadResponse `json:"lead"`
}

// CreateLead handles POST /api/leads from the storefront contact form.
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var in service.LeadInput
	if !decodeJSON(w, r, &in) {
		return
	}
	lead, err := h.leads.Create(r.Context(), in)
	if err != nil {
		h.fail(w, r, "Lead", err)
		return
	}

	if err := h.events.LogLeadEvent(r.Context(), model.EventLevelInfo, "Lead received", util.ClientIP(r),
		map[string]any{"id": lead.ID, "subject": lead.Subject}); err != nil {
		h.logger.Warn("failed to record event", "message", "Lead received", "error", err)
	}
	writeJSON(w, http.StatusCreated, storeLeadToResponse(lead))
}

// ListLeads handles GET /api/leads?status=&limit=.
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	status := q.Get("status")
	if status != "" && !model.IsValidLeadStatus(status) {
		writeError(w, http.StatusBadRequest, "Invalid status")
		return
	}

	var limit int64
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	leads, err := h.leads.List(r.Context(), status, limit)
	if err != nil {
		h.fail(w, r, "Lead", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(leads, storeLeadToResponse))
}

// GetLead handles GET /api/leads/{id}.
func (h *Handler) GetLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	lead, err := h.leads.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Lead", err)
		return
	}
	writeJSON(w, http.StatusOK, storeLeadToResponse(lead))
}

// UpdateLead handles PUT /api/leads/{id}.
func (h *Handler) UpdateLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req UpdateLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	lead, err := h.leads.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.fail(w, r, "Lead", err)
		return
	}

	h.audit(r, model.EventCategoryLead, "Lead status changed", map[string]any{"id": id, "status": lead.Status})
	writeJSON(w, http.StatusOK, storeLeadToResponse(lead))
}

// ReplyLead handles POST /api/leads/{id}/reply. The lead is marked
// replied only when the mail server accepted the message.
func (h *Handler) ReplyLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req ReplyLeadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	lead, res, err := h.leads.Reply(r.Context(), id, req.Subject, req.Message)
	var sendErr *service.SendError
	switch {
	case err == nil:
	case errors.Is(err, service.ErrNoLeadEmail):
		writeError(w, http.StatusBadRequest, "Lead does not have an email address")
		return
	case errors.As(err, &sendErr):
		h.logger.Warn("lead reply failed", "lead_id", id, "error", sendErr.Err)
		if logErr := h.events.LogLeadEvent(r.Context(), model.EventLevelError, "Lead reply failed", util.ClientIP(r),
			map[string]any{"id": id, "error": sendErr.Err.Error()}); logErr != nil {
			h.logger.Warn("failed to record event", "message", "Lead reply failed", "error", logErr)
		}
		writeError(w, http.StatusBadGateway, "Failed to send email")
		return
	default:
		h.fail(w, r, "Lead", err)
		return
	}

	h.audit(r, model.EventCategoryLead, "Lead replied", map[string]any{"id": id, "message_id": res.MessageID})
	writeJSON(w, http.StatusOK, ReplyLeadResponse{
		Success:   true,
		MessageID: res.MessageID,
		Lead:      storeLeadToResponse(lead),
	})
}

// DeleteLead handles DELETE /api/leads/{id}.
func (h *Handler) DeleteLead(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.leads.Delete(r.Context(), id); err != nil {
		h.fail(w, r, "Lead", err)
		return
	}

	h.audit(r, model.EventCategoryLead, "Lead deleted", map[string]any{"id": id})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
