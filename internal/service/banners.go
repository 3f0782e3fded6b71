// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// Move directions.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

const msgImageRequired = "Image is required"

// BannerInput is the full banner payload used for create and update.
type BannerInput struct {
	Title    string  `json:"title" validate:"max=200"`
	TitleEn  *string `json:"titleEn" validate:"omitempty,max=200"`
	TitleRu  *string `json:"titleRU" validate:"omitempty,max=200"`
	Subtitle *string `json:"subtitle"`
	Image    string  `json:"image"`
	Link     *string `json:"link"`
	Order    int64   `json:"order"`
	IsActive *bool   `json:"isActive"`
}

func (in BannerInput) active() bool {
	return in.IsActive == nil || *in.IsActive
}

// BannerService manages homepage carousel banners.
type BannerService struct {
	db      *sql.DB
	queries *store.Queries
	now     func() time.Time
}

// NewBannerService creates a BannerService.
func NewBannerService(db *sql.DB) *BannerService {
	return &BannerService{db: db, queries: store.New(db), now: time.Now}
}

// List returns banners in display order.
func (s *BannerService) List(ctx context.Context, activeOnly bool) ([]store.Banner, error) {
	return s.queries.ListBanners(ctx, activeOnly)
}

// Get returns a banner by id.
func (s *BannerService) Get(ctx context.Context, id string) (store.Banner, error) {
	return s.queries.GetBanner(ctx, id)
}

// Create stores a new banner. Banners are active unless told otherwise.
func (s *BannerService) Create(ctx context.Context, in BannerInput) (store.Banner, error) {
	image := strings.TrimSpace(in.Image)
	if image == "" {
		return store.Banner{}, invalid(msgImageRequired)
	}
	now := s.now().UTC()
	return s.queries.CreateBanner(ctx, store.CreateBannerParams{
		ID:        uuid.NewString(),
		Title:     strings.TrimSpace(in.Title),
		TitleEn:   util.NullStringFromPtr(in.TitleEn),
		TitleRu:   util.NullStringFromPtr(in.TitleRu),
		Subtitle:  util.NullStringFromPtr(in.Subtitle),
		Image:     image,
		Link:      util.NullStringFromPtr(in.Link),
		SortOrder: in.Order,
		IsActive:  in.active(),
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// Update replaces every field of a banner.
func (s *BannerService) Update(ctx context.Context, id string, in BannerInput) (store.Banner, error) {
	image := strings.TrimSpace(in.Image)
	if image == "" {
		return store.Banner{}, invalid(msgImageRequired)
	}
	if _, err := s.queries.GetBanner(ctx, id); err != nil {
		return store.Banner{}, err
	}
	return s.queries.UpdateBanner(ctx, store.UpdateBannerParams{
		Title:     strings.TrimSpace(in.Title),
		TitleEn:   util.NullStringFromPtr(in.TitleEn),
		TitleRu:   util.NullStringFromPtr(in.TitleRu),
		Subtitle:  util.NullStringFromPtr(in.Subtitle),
		Image:     image,
		Link:      util.NullStringFromPtr(in.Link),
		SortOrder: in.Order,
		IsActive:  in.active(),
		UpdatedAt: s.now().UTC(),
		ID:        id,
	})
}

// Delete removes a banner. It returns sql.ErrNoRows when nothing was deleted.
func (s *BannerService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteBanner(ctx, id))
}

// Move swaps the order of banner id with its neighbour in display order.
// Moving the first banner up or the last banner down is a no-op. Both
// order updates commit together.
func (s *BannerService) Move(ctx context.Context, id, direction string) ([]store.Banner, error) {
	if direction != DirectionUp && direction != DirectionDown {
		return nil, invalid("Direction must be up or down")
	}

	banners, err := s.queries.ListBanners(ctx, false)
	if err != nil {
		return nil, fmt.Errorf("listing banners: %w", err)
	}

	idx := -1
	for i, b := range banners {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, sql.ErrNoRows
	}

	neighbour := idx - 1
	if direction == DirectionDown {
		neighbour = idx + 1
	}
	if neighbour < 0 || neighbour >= len(banners) {
		return banners, nil
	}

	if err := s.swapOrder(ctx, banners[idx], banners[neighbour]); err != nil {
		return nil, err
	}
	return s.queries.ListBanners(ctx, false)
}

func (s *BannerService) swapOrder(ctx context.Context, a, b store.Banner) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning banner move: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	q := s.queries.WithTx(tx)
	now := s.now().UTC()
	if err := q.UpdateBannerOrder(ctx, store.UpdateBannerOrderParams{
		SortOrder: b.SortOrder,
		UpdatedAt: now,
		ID:        a.ID,
	}); err != nil {
		return fmt.Errorf("moving banner: %w", err)
	}
	if err := q.UpdateBannerOrder(ctx, store.UpdateBannerOrderParams{
		SortOrder: a.SortOrder,
		UpdatedAt: now,
		ID:        b.ID,
	}); err != nil {
		return fmt.Errorf("moving neighbour banner: %w", err)
	}
	return tx.Commit()
}
