// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/mailer"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// Lead listing limits.
const (
	DefaultLeadLimit = 50
	MaxLeadLimit     = 200
)

// Test email kinds.
const (
	TestEmailNotification = "notification"
	TestEmailConfirmation = "confirmation"
)

// ErrNoLeadEmail is returned when replying to a lead without an address.
var ErrNoLeadEmail = errors.New("lead does not have an email address")

// SendError wraps a failed outbound email.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return "failed to send email: " + e.Err.Error() }

func (e *SendError) Unwrap() error { return e.Err }

// LeadInput is a storefront contact form submission.
type LeadInput struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"omitempty,email,max=254"`
	Phone   string `json:"phone" validate:"required,max=50"`
	Subject string `json:"subject" validate:"required,max=300"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (in LeadInput) mail() mailer.Lead {
	return mailer.Lead{
		Name:    in.Name,
		Email:   in.Email,
		Phone:   in.Phone,
		Subject: in.Subject,
		Message: in.Message,
	}
}

// LeadNotifier is told about every new lead.
type LeadNotifier interface {
	LeadCreated(lead mailer.Lead)
}

// LeadService stores contact requests and handles admin replies.
type LeadService struct {
	queries   *store.Queries
	notifier  LeadNotifier
	sender    mailer.Sender
	templates *mailer.Templates
	admin     string
	now       func() time.Time
}

// NewLeadService creates a LeadService. notifier may be nil.
func NewLeadService(db *sql.DB, notifier LeadNotifier, sender mailer.Sender, templates *mailer.Templates, adminEmail string) *LeadService {
	return &LeadService{
		queries:   store.New(db),
		notifier:  notifier,
		sender:    sender,
		templates: templates,
		admin:     adminEmail,
		now:       time.Now,
	}
}

// Create stores a new lead with status "new" and schedules the
// notification emails without waiting for them.
func (s *LeadService) Create(ctx context.Context, in LeadInput) (store.Lead, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Subject = strings.TrimSpace(in.Subject)

	now := s.now().UTC()
	lead, err := s.queries.CreateLead(ctx, store.CreateLeadParams{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     util.NullStringFromValue(in.Email),
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		Status:    model.LeadStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return store.Lead{}, fmt.Errorf("creating lead: %w", err)
	}

	if s.notifier != nil {
		s.notifier.LeadCreated(in.mail())
	}
	return lead, nil
}

// List returns leads newest first. limit is clamped to [1, MaxLeadLimit].
func (s *LeadService) List(ctx context.Context, status string, limit int64) ([]store.Lead, error) {
	if limit <= 0 {
		limit = DefaultLeadLimit
	}
	limit = min(limit, MaxLeadLimit)
	return s.queries.ListLeads(ctx, store.ListLeadsParams{Status: status, Limit: limit})
}

// Get returns a lead by id.
func (s *LeadService) Get(ctx context.Context, id string) (store.Lead, error) {
	return s.queries.GetLead(ctx, id)
}

// UpdateStatus moves a lead through its lifecycle. Statuses that mean the
// customer was reached stamp contactedAt the first time.
func (s *LeadService) UpdateStatus(ctx context.Context, id, status string) (store.Lead, error) {
	if !model.IsValidLeadStatus(status) {
		return store.Lead{}, invalid("Invalid status")
	}
	lead, err := s.queries.GetLead(ctx, id)
	if err != nil {
		return store.Lead{}, err
	}

	now := s.now().UTC()
	contacted := lead.ContactedAt
	if model.MarksContact(status) && !contacted.Valid {
		contacted = sql.NullTime{Time: now, Valid: true}
	}
	return s.queries.UpdateLeadStatus(ctx, store.UpdateLeadStatusParams{
		Status:      status,
		ContactedAt: contacted,
		UpdatedAt:   now,
		ID:          id,
	})
}

// Reply emails the customer behind lead id. The lead is marked "replied"
// only after the message was accepted by the mail server; on failure it
// is left untouched and a *SendError is returned.
func (s *LeadService) Reply(ctx context.Context, id, subject, body string) (store.Lead, mailer.Result, error) {
	subject, body = strings.TrimSpace(subject), strings.TrimSpace(body)
	if subject == "" || body == "" {
		return store.Lead{}, mailer.Result{}, invalid("Missing subject or message")
	}

	lead, err := s.queries.GetLead(ctx, id)
	if err != nil {
		return store.Lead{}, mailer.Result{}, err
	}
	if !lead.Email.Valid || lead.Email.String == "" {
		return store.Lead{}, mailer.Result{}, ErrNoLeadEmail
	}

	msg, err := s.templates.Reply(lead.Email.String, subject, body)
	if err != nil {
		return store.Lead{}, mailer.Result{}, fmt.Errorf("rendering reply: %w", err)
	}
	res, err := s.sender.Send(ctx, msg)
	if err != nil {
		return store.Lead{}, mailer.Result{}, &SendError{Err: err}
	}

	now := s.now().UTC()
	updated, err := s.queries.UpdateLeadStatus(ctx, store.UpdateLeadStatusParams{
		Status:      model.LeadStatusReplied,
		ContactedAt: sql.NullTime{Time: now, Valid: true},
		UpdatedAt:   now,
		ID:          id,
	})
	if err != nil {
		return store.Lead{}, res, fmt.Errorf("marking lead replied: %w", err)
	}
	return updated, res, nil
}

// Delete removes a lead. It returns sql.ErrNoRows when nothing was deleted.
func (s *LeadService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteLead(ctx, id))
}

// SendTest synchronously sends one of the lead templates so an operator
// can check the SMTP setup. Any kind other than TestEmailNotification
// sends the customer confirmation.
func (s *LeadService) SendTest(ctx context.Context, kind string, in LeadInput) (mailer.Result, error) {
	var (
		msg mailer.Message
		err error
	)
	switch kind {
	case TestEmailNotification:
		if s.admin == "" {
			return mailer.Result{}, mailer.ErrNoRecipient
		}
		msg, err = s.templates.Notification(s.admin, in.mail())
	default:
		if in.Email == "" {
			return mailer.Result{}, invalid("Email is required for a confirmation test")
		}
		msg, err = s.templates.Confirmation(in.mail())
	}
	if err != nil {
		return mailer.Result{}, fmt.Errorf("rendering test email: %w", err)
	}

	res, err := s.sender.Send(ctx, msg)
	if err != nil {
		return mailer.Result{}, &SendError{Err: err}
	}
	return res, nil
}
