// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const bannerColumns = `id, title, title_en, title_ru, subtitle, image, link, sort_order, is_active, created_at, updated_at`

func scanBanner(row rowScanner) (Banner, error) {
	var i Banner
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.TitleEn,
		&i.TitleRu,
		&i.Subtitle,
		&i.Image,
		&i.Link,
		&i.SortOrder,
		&i.IsActive,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const countBanners = `-- name: CountBanners :one
SELECT COUNT(*) FROM banners
`

func (q *Queries) CountBanners(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countBanners)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createBanner = `-- name: CreateBanner :exec
INSERT INTO banners (id, title, title_en, title_ru, subtitle, image, link, sort_order, is_active, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateBannerParams struct {
	ID        string
	Title     string
	TitleEn   sql.NullString
	TitleRu   sql.NullString
	Subtitle  sql.NullString
	Image     string
	Link      sql.NullString
	SortOrder int64
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateBanner(ctx context.Context, arg CreateBannerParams) (Banner, error) {
	_, err := q.db.ExecContext(ctx, createBanner,
		arg.ID,
		arg.Title,
		arg.TitleEn,
		arg.TitleRu,
		arg.Subtitle,
		arg.Image,
		arg.Link,
		arg.SortOrder,
		arg.IsActive,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Banner{}, err
	}
	return q.GetBanner(ctx, arg.ID)
}

const deleteBanner = `-- name: DeleteBanner :execrows
DELETE FROM banners WHERE id = ?
`

func (q *Queries) DeleteBanner(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteBanner, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getBanner = `-- name: GetBanner :one
SELECT ` + bannerColumns + ` FROM banners WHERE id = ?
`

func (q *Queries) GetBanner(ctx context.Context, id string) (Banner, error) {
	return scanBanner(q.db.QueryRowContext(ctx, getBanner, id))
}

const listBanners = `-- name: ListBanners :many
SELECT ` + bannerColumns + ` FROM banners
WHERE (?1 = 0 OR is_active = 1)
ORDER BY sort_order ASC, created_at DESC
`

func (q *Queries) ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error) {
	rows, err := q.db.QueryContext(ctx, listBanners, activeOnly)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Banner{}
	for rows.Next() {
		i, err := scanBanner(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateBanner = `-- name: UpdateBanner :exec
UPDATE banners SET
    title = ?,
    title_en = ?,
    title_ru = ?,
    subtitle = ?,
    image = ?,
    link = ?,
    sort_order = ?,
    is_active = ?,
    updated_at = ?
WHERE id = ?
`

type UpdateBannerParams struct {
	Title     string
	TitleEn   sql.NullString
	TitleRu   sql.NullString
	Subtitle  sql.NullString
	Image     string
	Link      sql.NullString
	SortOrder int64
	IsActive  bool
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateBanner(ctx context.Context, arg UpdateBannerParams) (Banner, error) {
	_, err := q.db.ExecContext(ctx, updateBanner,
		arg.Title,
		arg.TitleEn,
		arg.TitleRu,
		arg.Subtitle,
		arg.Image,
		arg.Link,
		arg.SortOrder,
		arg.IsActive,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return Banner{}, err
	}
	return q.GetBanner(ctx, arg.ID)
}

const updateBannerOrder = `-- name: UpdateBannerOrder :exec
UPDATE banners SET sort_order = ?, updated_at = ? WHERE id = ?
`

type UpdateBannerOrderParams struct {
	SortOrder int64
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateBannerOrder(ctx context.Context, arg UpdateBannerOrderParams) error {
	_, err := q.db.ExecContext(ctx, updateBannerOrder, arg.SortOrder, arg.UpdatedAt, arg.ID)
	return err
}
