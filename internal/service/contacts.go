// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

const msgInvalidContactType = "Type must be one of phone, email, address, zalo, social"

// ContactInput is the payload for creating a site contact entry.
type ContactInput struct {
	Type  string  `json:"type" validate:"required"`
	Value string  `json:"value" validate:"required,max=500"`
	Label *string `json:"label" validate:"omitempty,max=200"`
}

// ContactPatch is a partial contact update.
type ContactPatch struct {
	Type  *string `json:"type"`
	Value *string `json:"value" validate:"omitempty,max=500"`
	Label *string `json:"label" validate:"omitempty,max=200"`
}

// ContactService manages the site contact entries shown in the storefront footer.
type ContactService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewContactService creates a ContactService.
func NewContactService(db *sql.DB) *ContactService {
	return &ContactService{queries: store.New(db), now: time.Now}
}

// List returns contacts oldest first.
func (s *ContactService) List(ctx context.Context) ([]store.Contact, error) {
	return s.queries.ListContacts(ctx)
}

// Get returns a contact by id.
func (s *ContactService) Get(ctx context.Context, id string) (store.Contact, error) {
	return s.queries.GetContact(ctx, id)
}

// Create stores a new contact.
func (s *ContactService) Create(ctx context.Context, in ContactInput) (store.Contact, error) {
	if !model.IsValidContactType(in.Type) {
		return store.Contact{}, invalid(msgInvalidContactType)
	}
	now := s.now().UTC()
	return s.queries.CreateContact(ctx, store.CreateContactParams{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Value:     strings.TrimSpace(in.Value),
		Label:     util.NullStringFromPtr(in.Label),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update applies patch to the contact with the given id.
func (s *ContactService) Update(ctx context.Context, id string, patch ContactPatch) (store.Contact, error) {
	c, err := s.queries.GetContact(ctx, id)
	if err != nil {
		return store.Contact{}, err
	}

	if patch.Type != nil && *patch.Type != "" {
		if !model.IsValidContactType(*patch.Type) {
			return store.Contact{}, invalid(msgInvalidContactType)
		}
		c.Type = *patch.Type
	}
	if patch.Value != nil && strings.TrimSpace(*patch.Value) != "" {
		c.Value = strings.TrimSpace(*patch.Value)
	}
	if patch.Label != nil {
		c.Label = util.NullStringFromValue(*patch.Label)
	}

	return s.queries.UpdateContact(ctx, store.UpdateContactParams{
		Type:      c.Type,
		Value:     c.Value,
		Label:     c.Label,
		UpdatedAt: s.now().UTC(),
		ID:        id,
	})
}

// Delete removes a contact. It returns sql.ErrNoRows when nothing was deleted.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteContact(ctx, id))
}
