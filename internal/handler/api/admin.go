// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/mailer"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/scheduler"
	"github.com/olegiv/lefarm/internal/service"
	"github.com/olegiv/lefarm/internal/util"
)

// Event list limits for GET /api/admin/events.
const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// TestEmailRequest is the body of POST /api/test/send-email. Type selects
// the template: "notification" goes to the admin address, anything else
// sends the customer confirmation to email.
type TestEmailRequest struct {
	Type    string `json:"type"`
	Name    string `json:"name" validate:"max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"max=50"`
	Subject string `json:"subject" validate:"max=300"`
	Message string `json:"message" validate:"max=5000"`
}

// TestEmailResponse reports an accepted test message.
type TestEmailResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	MessageID string `json:"messageId"`
}

// Stats handles GET /api/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.stats.Dashboard(r.Context())
	if err != nil {
		h.fail(w, r, "Stats", err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// Activities handles GET /api/admin/activities?lang=.
func (h *Handler) Activities(w http.ResponseWriter, r *http.Request) {
	lang := r.URL.Query().Get("lang")
	if !i18n.IsSupported(lang) {
		lang = i18n.Match(r.Header.Get("Accept-Language"))
	}
	feed, err := h.activity.Recent(r.Context(), lang)
	if err != nil {
		h.fail(w, r, "Activity", err)
		return
	}
	writeJSON(w, http.StatusOK, feed)
}

// Events handles GET /api/admin/events?level=&limit=&offset=.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, ok := intParam(w, q.Get("limit"), defaultEventLimit, maxEventLimit, "limit")
	if !ok {
		return
	}
	var offset int64
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "Invalid offset")
			return
		}
		offset = n
	}

	events, err := h.events.List(r.Context(), q.Get("level"), int64(limit), offset)
	if err != nil {
		h.fail(w, r, "Event", err)
		return
	}
	writeJSON(w, http.StatusOK, mapSlice(events, storeEventToResponse))
}

// Jobs handles GET /api/admin/jobs.
func (h *Handler) Jobs(w http.ResponseWriter, _ *http.Request) {
	if h.jobs == nil {
		writeJSON(w, http.StatusOK, []scheduler.JobInfo{})
		return
	}
	writeJSON(w, http.StatusOK, h.jobs.Jobs())
}

// TriggerJob handles POST /api/admin/jobs/{name}/run.
func (h *Handler) TriggerJob(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if h.jobs == nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return
	}
	if err := h.jobs.Trigger(name); err != nil {
		if errors.Is(err, scheduler.ErrUnknownJob) {
			writeError(w, http.StatusNotFound, "Job not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	h.audit(r, model.EventCategorySystem, "Job triggered", map[string]any{"job": name})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}

// SendTestEmail handles POST /api/test/send-email.
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req TestEmailRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in := service.LeadInput{
		Name:    orDefault(req.Name, "Test Customer"),
		Email:   req.Email,
		Phone:   orDefault(req.Phone, "0900000000"),
		Subject: orDefault(req.Subject, "Test email"),
		Message: orDefault(req.Message, "This is a test message from the LeFarm back office."),
	}

	res, err := h.leads.SendTest(r.Context(), req.Type, in)
	var sendErr *service.SendError
	switch {
	case err == nil:
	case errors.Is(err, mailer.ErrNoRecipient):
		writeError(w, http.StatusBadRequest, "Admin notification address is not configured")
		return
	case errors.As(err, &sendErr):
		if logErr := h.events.LogEvent(r.Context(), model.EventLevelError, model.EventCategoryEmail,
			"Test email failed", util.ClientIP(r), map[string]any{"error": sendErr.Err.Error()}); logErr != nil {
			h.logger.Warn("failed to record event", "message", "Test email failed", "error", logErr)
		}
		writeError(w, http.StatusBadGateway, "Failed to send email")
		return
	default:
		h.fail(w, r, "Email", err)
		return
	}

	h.audit(r, model.EventCategoryEmail, "Test email sent", map[string]any{"type": req.Type, "message_id": res.MessageID})
	writeJSON(w, http.StatusOK, TestEmailResponse{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: res.MessageID,
	})
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
