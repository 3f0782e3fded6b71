// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/testutil"
)

// discardHandler is a slog.Handler that drops everything at INFO and above.
type discardHandler struct{}

func (h discardHandler) Enabled(_ context.Context, l slog.Level) bool { return l >= slog.LevelInfo }
func (h discardHandler) Handle(context.Context, slog.Record) error    { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler           { return h }
func (h discardHandler) WithGroup(string) slog.Handler                { return h }

func listEvents(t *testing.T, q *store.Queries) []store.Event {
	t.Helper()
	events, err := q.ListEvents(context.Background(), store.ListEventsParams{Limit: 50})
	if err != nil {
		t.Fatalf("ListEvents: %v", err)
	}
	return events
}

func TestEventLogHandler_PersistsWarnAndAbove(t *testing.T) {
	db, q := testutil.TestQueries(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.Info("server started")
	logger.Warn("slow query", "table", "products")
	logger.Error("database connection failed", "port", 5432)

	events := listEvents(t, q)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}

	levels := map[string]bool{}
	for _, e := range events {
		levels[e.Level] = true
	}
	if !levels[model.EventLevelWarning] || !levels[model.EventLevelError] {
		t.Errorf("levels = %v", levels)
	}
}

func TestEventLogHandler_CategoryAndMetadata(t *testing.T) {
	db, q := testutil.TestQueries(t)
	logger := slog.New(NewEventLogHandler(discardHandler{}, db))

	logger.With(CategoryKey, model.EventCategoryLead).
		Warn("notification skipped", "leadId", "abc", "attempt", 2, IPKey, "203.0.113.9")

	events := listEvents(t, q)
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Category != model.EventCategoryLead {
		t.Errorf("Category = %q, want %q", ev.Category, model.EventCategoryLead)
	}
	if ev.IpAddress != "203.0.113.9" {
		t.Errorf("IpAddress = %q", ev.IpAddress)
	}

	var meta map[string]any
	if err := json.Unmarshal([]byte(ev.Metadata), &meta); err != nil {
		t.Fatalf("metadata is not JSON: %v (%s)", err, ev.Metadata)
	}
	if meta["leadId"] != "abc" || meta["attempt"] != float64(2) {
		t.Errorf("metadata = %v", meta)
	}
	if _, ok := meta[CategoryKey]; ok {
		t.Error("category must not be duplicated into metadata")
	}
}

func TestEventLogHandler_CustomLevel(t *testing.T) {
	db, q := testutil.TestQueries(t)
	logger := slog.New(NewEventLogHandlerWithLevel(discardHandler{}, db, slog.LevelError))

	logger.Warn("cache miss storm")
	logger.Error("cache backend down")

	events := listEvents(t, q)
	if len(events) != 1 || events[0].Category != model.EventCategoryCache {
		t.Errorf("events = %+v", events)
	}
	if events[0].Metadata != "{}" {
		t.Errorf("Metadata = %q, want {}", events[0].Metadata)
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		msg  string
		want string
	}{
		{"Login failed", model.EventCategoryAuth},
		{"SMTP send failed", model.EventCategoryEmail},
		{"Cloudinary upload failed", model.EventCategoryMedia},
		{"lead notification failed", model.EventCategoryLead},
		{"product code collision", model.EventCategoryCatalog},
		{"news slug conflict", model.EventCategoryContent},
		{"redis unreachable", model.EventCategoryCache},
		{"something else", model.EventCategorySystem},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			if got := inferCategory(tt.msg); got != tt.want {
				t.Errorf("inferCategory(%q) = %q, want %q", tt.msg, got, tt.want)
			}
		})
	}
}

func TestSlogLevelToEventLevel(t *testing.T) {
	tests := []struct {
		level slog.Level
		want  string
	}{
		{slog.LevelDebug, model.EventLevelInfo},
		{slog.LevelInfo, model.EventLevelInfo},
		{slog.LevelWarn, model.EventLevelWarning},
		{slog.LevelError, model.EventLevelError},
		{slog.LevelError + 4, model.EventLevelError},
	}
	for _, tt := range tests {
		if got := slogLevelToEventLevel(tt.level); got != tt.want {
			t.Errorf("slogLevelToEventLevel(%v) = %q, want %q", tt.level, got, tt.want)
		}
	}
}
