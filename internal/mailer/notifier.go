// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/olegiv/lefarm/internal/model"
)

// DefaultNotifyTimeout bounds each background send.
const DefaultNotifyTimeout = 30 * time.Second

// Notifier sends lead emails in the background. Failures are logged and
// never retried.
type Notifier struct {
	sender     Sender
	templates  *Templates
	adminEmail string
	logger     *slog.Logger
	timeout    time.Duration
	wg         sync.WaitGroup
}

// NewNotifier creates a Notifier that sends new-lead notifications to adminEmail.
func NewNotifier(sender Sender, templates *Templates, adminEmail string, logger *slog.Logger) *Notifier {
	return &Notifier{
		sender:     sender,
		templates:  templates,
		adminEmail: adminEmail,
		logger:     logger.With("category", model.EventCategoryEmail),
		timeout:    DefaultNotifyTimeout,
	}
}

// LeadCreated notifies the shop about lead and, when the customer left an
// email address, sends them a confirmation. It returns immediately.
func (n *Notifier) LeadCreated(lead Lead) {
	var messages []Message

	if n.adminEmail != "" {
		msg, err := n.templates.Notification(n.adminEmail, lead)
		if err != nil {
			n.logger.Error("failed to render lead notification", "error", err)
		} else {
			messages = append(messages, msg)
		}
	}

	if lead.Email != "" {
		msg, err := n.templates.Confirmation(lead)
		if err != nil {
			n.logger.Error("failed to render lead confirmation", "error", err)
		} else {
			messages = append(messages, msg)
		}
	}

	for _, msg := range messages {
		n.wg.Add(1)
		go func(msg Message) {
			defer n.wg.Done()
			n.send(msg)
		}(msg)
	}
}

func (n *Notifier) send(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
	defer cancel()

	res, err := n.sender.Send(ctx, msg)
	if err != nil {
		n.logger.Warn("failed to send lead email", "to", msg.To, "subject", msg.Subject, "error", err)
		return
	}
	n.logger.Info("lead email sent", "to", msg.To, "message_id", res.MessageID)
}

// Wait blocks until all in-flight sends have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
