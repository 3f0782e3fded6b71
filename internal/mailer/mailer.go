// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package mailer sends transactional email: lead notifications for the
// shop owner, confirmations for customers and admin replies.
package mailer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
)

// Message is an outgoing email with an HTML body and a plain-text alternative.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Result describes an accepted message.
type Result struct {
	MessageID string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, msg Message) (Result, error)
}

// ErrNoRecipient is returned when a message has no To address.
var ErrNoRecipient = errors.New("mailer: message has no recipient")

// SMTPConfig configures the SMTP sender.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// SMTPSender delivers mail through an authenticated SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
	domain string
}

// NewSMTPSender creates an SMTP sender. Port 465 uses implicit TLS; other
// ports require STARTTLS.
func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.From == "" {
		cfg.From = cfg.Username
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTimeout(cfg.Timeout),
	}
	if cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating SMTP client: %w", err)
	}

	return &SMTPSender{client: client, from: cfg.From, domain: cfg.Host}, nil
}

// Send implements Sender.
func (s *SMTPSender) Send(ctx context.Context, msg Message) (Result, error) {
	if msg.To == "" {
		return Result{}, ErrNoRecipient
	}

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return Result{}, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return Result{}, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)

	messageID := newMessageID(s.domain)
	m.SetMessageIDWithValue(messageID)
	m.SetDate()

	if msg.Text != "" {
		m.SetBodyString(mail.TypeTextPlain, msg.Text)
		if msg.HTML != "" {
			m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
		}
	} else {
		m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return Result{}, fmt.Errorf("sending mail: %w", err)
	}

	return Result{MessageID: "<" + messageID + ">"}, nil
}

// LogSender logs messages instead of sending them. It is used when SMTP is
// not configured so that lead intake keeps working in development.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a sender that only logs.
func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send implements Sender.
func (s *LogSender) Send(_ context.Context, msg Message) (Result, error) {
	if msg.To == "" {
		return Result{}, ErrNoRecipient
	}
	id := "<" + newMessageID("localhost") + ">"
	s.logger.Info("email not sent, SMTP is not configured",
		"to", msg.To, "subject", msg.Subject, "message_id", id)
	return Result{MessageID: id}, nil
}

func newMessageID(domain string) string {
	if domain == "" {
		domain = "lefarm.vn"
	}
	return uuid.NewString() + "@" + domain
}

var (
	_ Sender = (*SMTPSender)(nil)
	_ Sender = (*LogSender)(nil)
)
