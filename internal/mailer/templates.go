// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package mailer

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Subject lines.
const (
	ConfirmationSubject      = "We received your message - LeFarm"
	notificationSubjectStart = "[LeFarm Contact] New submission from "
)

// vietnamTime is UTC+7, the shop's local time.
var vietnamTime = time.FixedZone("ICT", 7*60*60)

// Lead is the subset of a lead used in email bodies.
type Lead struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// Templates renders the transactional emails.
type Templates struct {
	tmpl     *template.Template
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time
}

// NewTemplates parses the embedded email templates.
func NewTemplates() (*Templates, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parsing email templates: %w", err)
	}

	return &Templates{
		tmpl: tmpl,
		markdown: goldmark.New(
			goldmark.WithRendererOptions(html.WithHardWraps()),
		),
		policy: bluemonday.UGCPolicy(),
		now:    time.Now,
	}, nil
}

// MustTemplates is like NewTemplates but panics on error. The templates
// are embedded, so a parse error is a build defect.
func MustTemplates() *Templates {
	t, err := NewTemplates()
	if err != nil {
		panic(err)
	}
	return t
}

func (t *Templates) render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// Notification builds the message telling the shop about a new lead.
func (t *Templates) Notification(to string, lead Lead) (Message, error) {
	body, err := t.render("notification.html", struct {
		Lead   Lead
		SentAt string
	}{lead, t.now().In(vietnamTime).Format("15:04:05 2/1/2006")})
	if err != nil {
		return Message{}, err
	}

	text := fmt.Sprintf("New Contact Form Submission\n\nName: %s\nEmail: %s\nPhone: %s\nSubject: %s\n\nMessage:\n%s",
		lead.Name, lead.Email, lead.Phone, lead.Subject, lead.Message)

	return Message{
		To:      to,
		Subject: notificationSubjectStart + lead.Name,
		HTML:    body,
		Text:    text,
	}, nil
}

// Confirmation builds the acknowledgement sent to the customer.
func (t *Templates) Confirmation(lead Lead) (Message, error) {
	body, err := t.render("confirmation.html", lead)
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      lead.Email,
		Subject: ConfirmationSubject,
		HTML:    body,
		Text: "Thank you for contacting LeFarm!\n\nWe have received your contact form submission. " +
			"Our team will review your message and get back to you as soon as possible.\n\nThank you,\nLeFarm Team",
	}, nil
}

// Reply builds an admin reply. The body is Markdown; single newlines
// become line breaks and the rendered HTML is sanitized.
func (t *Templates) Reply(to, subject, body string) (Message, error) {
	rendered, err := t.RenderMarkdown(body)
	if err != nil {
		return Message{}, err
	}

	// rendered has been through the bluemonday policy
	page, err := t.render("reply.html", struct {
		Body template.HTML
		Year int
	}{template.HTML(rendered), t.now().In(vietnamTime).Year()})
	if err != nil {
		return Message{}, err
	}

	return Message{
		To:      to,
		Subject: subject,
		HTML:    page,
		Text:    body,
	}, nil
}

// RenderMarkdown converts Markdown to sanitized HTML.
func (t *Templates) RenderMarkdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := t.markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return strings.TrimSpace(t.policy.Sanitize(buf.String())), nil
}
