// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
)

// CategoryCount is the number of products in a category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	Products           int64            `json:"products"`
	Projects           int64            `json:"projects"`
	Leads              int64            `json:"leads"`
	NewLeads           int64            `json:"newLeads"`
	Contacts           int64            `json:"contacts"`
	Banners            int64            `json:"banners"`
	News               int64            `json:"news"`
	PublishedNews      int64            `json:"publishedNews"`
	Visits             int64            `json:"visits"`
	LeadsByStatus      map[string]int64 `json:"leadsByStatus"`
	ProductsByCategory []CategoryCount  `json:"productsByCategory"`
}

// StatsService computes dashboard counters.
type StatsService struct {
	queries *store.Queries
}

// NewStatsService creates a StatsService.
func NewStatsService(db *sql.DB) *StatsService {
	return &StatsService{queries: store.New(db)}
}

// Dashboard returns every counter. Categories without products are
// reported with a zero count, in their canonical order.
func (s *StatsService) Dashboard(ctx context.Context) (DashboardStats, error) {
	var st DashboardStats
	var err error

	counters := []struct {
		name string
		dst  *int64
		fn   func(context.Context) (int64, error)
	}{
		{"products", &st.Products, s.queries.CountProducts},
		{"projects", &st.Projects, s.queries.CountProjects},
		{"contacts", &st.Contacts, s.queries.CountContacts},
		{"banners", &st.Banners, s.queries.CountBanners},
		{"visits", &st.Visits, s.queries.CountPageVisits},
	}
	for _, c := range counters {
		if *c.dst, err = c.fn(ctx); err != nil {
			return DashboardStats{}, fmt.Errorf("counting %s: %w", c.name, err)
		}
	}

	if st.News, err = s.queries.CountNewsByStatus(ctx, ""); err != nil {
		return DashboardStats{}, fmt.Errorf("counting news: %w", err)
	}
	if st.PublishedNews, err = s.queries.CountNewsByStatus(ctx, model.NewsStatusPublished); err != nil {
		return DashboardStats{}, fmt.Errorf("counting published news: %w", err)
	}

	byStatus, err := s.queries.CountLeadsByStatus(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("counting leads: %w", err)
	}
	st.LeadsByStatus = make(map[string]int64, len(model.LeadStatuses))
	for _, status := range model.LeadStatuses {
		st.LeadsByStatus[status] = 0
	}
	for _, row := range byStatus {
		st.LeadsByStatus[row.Status] = row.Total
		st.Leads += row.Total
	}
	st.NewLeads = st.LeadsByStatus[model.LeadStatusNew]

	byCategory, err := s.queries.CountProductsByCategory(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("counting products by category: %w", err)
	}
	totals := make(map[string]int64, len(byCategory))
	for _, row := range byCategory {
		totals[row.Category] = row.Total
	}
	for _, c := range model.Categories {
		st.ProductsByCategory = append(st.ProductsByCategory, CategoryCount{Category: c, Count: totals[c]})
	}

	return st, nil
}
