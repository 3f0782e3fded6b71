// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/lefarm/internal/mailer"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/testutil"
)

type fakeSender struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (s *fakeSender) Send(_ context.Context, msg mailer.Message) (mailer.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return mailer.Result{}, s.err
	}
	s.sent = append(s.sent, msg)
	return mailer.Result{MessageID: "<test@lefarm.vn>"}, nil
}

type fakeNotifier struct {
	leads []mailer.Lead
}

func (n *fakeNotifier) LeadCreated(lead mailer.Lead) { n.leads = append(n.leads, lead) }

func newLeadService(t *testing.T) (*LeadService, *fakeSender, *fakeNotifier) {
	t.Helper()
	tmpl, err := mailer.NewTemplates()
	require.NoError(t, err)
	sender := &fakeSender{}
	notifier := &fakeNotifier{}
	return NewLeadService(testutil.TestDB(t), notifier, sender, tmpl, "admin@lefarm.vn"), sender, notifier
}

var sampleLead = LeadInput{
	Name:    "Nguyễn Văn A",
	Email:   "a@example.com",
	Phone:   "0901234567",
	Subject: "Đặt hàng rau",
	Message: "Tôi muốn đặt 10kg rau muống.",
}

func TestLeadService_Create(t *testing.T) {
	svc, _, notifier := newLeadService(t)

	lead, err := svc.Create(context.Background(), sampleLead)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, lead.Status)
	assert.Equal(t, "a@example.com", lead.Email.String)
	require.Len(t, notifier.leads, 1)
	assert.Equal(t, "Nguyễn Văn A", notifier.leads[0].Name)

	noEmail := sampleLead
	noEmail.Email = ""
	lead, err = svc.Create(context.Background(), noEmail)
	require.NoError(t, err)
	assert.False(t, lead.Email.Valid)
}

func TestLeadService_ListLimit(t *testing.T) {
	svc, _, _ := newLeadService(t)
	ctx := context.Background()
	for range 3 {
		_, err := svc.Create(ctx, sampleLead)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	two, err := svc.List(ctx, "", 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)

	none, err := svc.List(ctx, model.LeadStatusClosed, 1000)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestLeadService_UpdateStatus(t *testing.T) {
	svc, _, _ := newLeadService(t)
	ctx := context.Background()
	lead, err := svc.Create(ctx, sampleLead)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, lead.ID, "archived")
	assert.True(t, IsValidation(err))

	consulting, err := svc.UpdateStatus(ctx, lead.ID, model.LeadStatusConsulting)
	require.NoError(t, err)
	assert.False(t, consulting.ContactedAt.Valid)

	contacted, err := svc.UpdateStatus(ctx, lead.ID, model.LeadStatusContacted)
	require.NoError(t, err)
	assert.True(t, contacted.ContactedAt.Valid)

	_, err = svc.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", model.LeadStatusClosed)
	assert.True(t, store.IsNotFound(err))
}

func TestLeadService_Reply(t *testing.T) {
	svc, sender, _ := newLeadService(t)
	ctx := context.Background()
	lead, err := svc.Create(ctx, sampleLead)
	require.NoError(t, err)

	updated, res, err := svc.Reply(ctx, lead.ID, "Re: Đặt hàng rau", "Cảm ơn bạn!\nChúng tôi sẽ giao vào **thứ Hai**.")
	require.NoError(t, err)
	assert.Equal(t, "<test@lefarm.vn>", res.MessageID)
	assert.Equal(t, model.LeadStatusReplied, updated.Status)
	assert.True(t, updated.ContactedAt.Valid)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@example.com", sender.sent[0].To)
	assert.Contains(t, sender.sent[0].HTML, "<strong>thứ Hai</strong>")
}

func TestLeadService_ReplySendFailureKeepsStatus(t *testing.T) {
	svc, sender, _ := newLeadService(t)
	ctx := context.Background()
	lead, err := svc.Create(ctx, sampleLead)
	require.NoError(t, err)

	sender.err = errors.New("550 mailbox unavailable")
	_, _, err = svc.Reply(ctx, lead.ID, "Re", "Hello")

	var sendErr *SendError
	require.ErrorAs(t, err, &sendErr)

	got, err := svc.Get(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, model.LeadStatusNew, got.Status)
	assert.False(t, got.ContactedAt.Valid)
}

func TestLeadService_ReplyErrors(t *testing.T) {
	svc, _, _ := newLeadService(t)
	ctx := context.Background()

	noEmail := sampleLead
	noEmail.Email = ""
	lead, err := svc.Create(ctx, noEmail)
	require.NoError(t, err)

	_, _, err = svc.Reply(ctx, lead.ID, "Re", "Hello")
	assert.ErrorIs(t, err, ErrNoLeadEmail)

	_, _, err = svc.Reply(ctx, lead.ID, "", "Hello")
	assert.True(t, IsValidation(err))

	_, _, err = svc.Reply(ctx, "00000000-0000-0000-0000-000000000000", "Re", "Hello")
	assert.True(t, store.IsNotFound(err))
}

func TestLeadService_SendTest(t *testing.T) {
	svc, sender, _ := newLeadService(t)
	ctx := context.Background()

	_, err := svc.SendTest(ctx, TestEmailNotification, sampleLead)
	require.NoError(t, err)
	_, err = svc.SendTest(ctx, TestEmailConfirmation, sampleLead)
	require.NoError(t, err)

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "admin@lefarm.vn", sender.sent[0].To)
	assert.Equal(t, "a@example.com", sender.sent[1].To)
	assert.Equal(t, mailer.ConfirmationSubject, sender.sent[1].Subject)

	sender.err = errors.New("dial tcp: timeout")
	_, err = svc.SendTest(ctx, TestEmailNotification, sampleLead)
	var sendErr *SendError
	assert.ErrorAs(t, err, &sendErr)
}
