// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/olegiv/lefarm/internal/i18n"
	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// Activity kinds.
const (
	ActivityLead    = "lead"
	ActivityNews    = "news"
	ActivityProduct = "product"
	ActivityContact = "contact"
)

// ActivityFeedSize is the number of entries in the dashboard feed.
const ActivityFeedSize = 10

// Per-source caps before merging.
const (
	activityLeadLimit    = 10
	activityNewsLimit    = 5
	activityProductLimit = 5
	activityContactLimit = 3
)

// Translation keys for feed actions.
const (
	actionLeadCreated    = "activity.lead_created"
	actionNewsCreated    = "activity.news_created"
	actionNewsPublished  = "activity.news_published"
	actionProductUpdated = "activity.product_updated"
	actionContactUpdated = "activity.contact_updated"
)

// activityLabels maps each activity kind to the translation key of its
// dashboard badge.
var activityLabels = map[string]string{
	ActivityProduct: "activity.label.product",
	ActivityContact: "activity.label.contact",
	ActivityLead:    "activity.label.lead",
	ActivityNews:    "activity.label.news",
}

var contactActions = map[string]string{
	model.ContactTypePhone:   "activity.contact_phone",
	model.ContactTypeEmail:   "activity.contact_email",
	model.ContactTypeAddress: "activity.contact_address",
	model.ContactTypeZalo:    "activity.contact_zalo",
}

// ActivityLabel returns the translated badge for an activity kind.
func ActivityLabel(lang, kind string) string {
	key, ok := activityLabels[kind]
	if !ok {
		return kind
	}
	return i18n.T(lang, key)
}

// Activity is one entry of the dashboard feed.
type Activity struct {
	ID          string    `json:"id"`
	Action      string    `json:"action"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	Label       string    `json:"label"`
	Time        string    `json:"time"`
	Timestamp   time.Time `json:"timestamp"`
}

// ActivityService builds the dashboard's recent activity feed.
type ActivityService struct {
	queries *store.Queries
	now     func() time.Time
}

// NewActivityService creates an ActivityService.
func NewActivityService(db *sql.DB) *ActivityService {
	return &ActivityService{queries: store.New(db), now: time.Now}
}

// Recent merges the latest leads, published news, products and contact
// changes into one newest-first list of at most ActivityFeedSize entries.
func (s *ActivityService) Recent(ctx context.Context, lang string) ([]Activity, error) {
	leads, err := s.queries.ListLeads(ctx, store.ListLeadsParams{Limit: activityLeadLimit})
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	news, err := s.queries.ListNews(ctx, store.ListNewsParams{Status: model.NewsStatusPublished, Limit: activityNewsLimit})
	if err != nil {
		return nil, fmt.Errorf("listing news: %w", err)
	}
	products, err := s.queries.ListLatestProducts(ctx, activityProductLimit)
	if err != nil {
		return nil, fmt.Errorf("listing products: %w", err)
	}
	contacts, err := s.queries.ListRecentContacts(ctx, activityContactLimit)
	if err != nil {
		return nil, fmt.Errorf("listing contacts: %w", err)
	}

	return MergeActivities(s.now(), lang, leads, news, products, contacts), nil
}

// MergeActivities converts rows into feed entries, sorts them newest first
// and labels each with its age relative to now.
func MergeActivities(now time.Time, lang string, leads []store.Lead, news []store.News, products []store.Product, contacts []store.Contact) []Activity {
	if !i18n.IsSupported(lang) {
		lang = i18n.DefaultLang
	}

	var out []Activity
	for _, l := range leads {
		out = append(out, Activity{
			ID:          "lead-" + l.ID,
			Action:      i18n.T(lang, actionLeadCreated),
			Description: l.Name + " - " + l.Subject,
			Type:        ActivityLead,
			Timestamp:   l.CreatedAt,
		})
	}
	for _, n := range news {
		if n.Status != model.NewsStatusPublished {
			continue
		}
		a := Activity{
			ID:          "news-" + n.ID,
			Action:      i18n.T(lang, actionNewsCreated),
			Description: n.Title,
			Type:        ActivityNews,
			Timestamp:   n.CreatedAt,
		}
		if n.PublishedAt.Valid {
			a.Action = i18n.T(lang, actionNewsPublished)
			a.Timestamp = n.PublishedAt.Time
		}
		out = append(out, a)
	}
	for _, p := range products {
		out = append(out, Activity{
			ID:          "product-" + p.ID,
			Action:      i18n.T(lang, actionProductUpdated),
			Description: p.NameVi,
			Type:        ActivityProduct,
			Timestamp:   p.UpdatedAt,
		})
	}
	for _, c := range contacts {
		action, ok := contactActions[c.Type]
		if !ok {
			action = actionContactUpdated
		}
		out = append(out, Activity{
			ID:          "contact-" + c.ID,
			Action:      i18n.T(lang, action),
			Description: c.Value,
			Type:        ActivityContact,
			Timestamp:   c.UpdatedAt,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	if len(out) > ActivityFeedSize {
		out = out[:ActivityFeedSize]
	}
	for i := range out {
		out[i].Label = ActivityLabel(lang, out[i].Type)
		out[i].Time = util.RelativeTime(out[i].Timestamp, now, lang)
	}
	if out == nil {
		out = []Activity{}
	}
	return out
}
