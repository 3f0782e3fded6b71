// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

const newsColumns = `id, title, slug, excerpt, content, image, status, tags, published_at, created_at, updated_at`

func scanNews(row rowScanner) (News, error) {
	var i News
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Excerpt,
		&i.Content,
		&i.Image,
		&i.Status,
		&i.Tags,
		&i.PublishedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

// likeEscape escapes LIKE wildcards so search terms match literally.
func likeEscape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

const countNewsByStatus = `-- name: CountNewsByStatus :one
SELECT COUNT(*) FROM news WHERE (?1 = '' OR status = ?1)
`

func (q *Queries) CountNewsByStatus(ctx context.Context, status string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countNewsByStatus, status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createNews = `-- name: CreateNews :exec
INSERT INTO news (id, title, slug, excerpt, content, image, status, tags, published_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateNewsParams struct {
	ID          string
	Title       string
	Slug        string
	Excerpt     sql.NullString
	Content     string
	Image       sql.NullString
	Status      string
	Tags        StringList
	PublishedAt sql.NullTime
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateNews(ctx context.Context, arg CreateNewsParams) (News, error) {
	_, err := q.db.ExecContext(ctx, createNews,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.Image,
		arg.Status,
		arg.Tags,
		arg.PublishedAt,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return News{}, err
	}
	return q.GetNews(ctx, arg.ID)
}

const deleteNews = `-- name: DeleteNews :execrows
DELETE FROM news WHERE id = ?
`

func (q *Queries) DeleteNews(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteNews, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getNews = `-- name: GetNews :one
SELECT ` + newsColumns + ` FROM news WHERE id = ?
`

func (q *Queries) GetNews(ctx context.Context, id string) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx, getNews, id))
}

const getNewsBySlug = `-- name: GetNewsBySlug :one
SELECT ` + newsColumns + ` FROM news WHERE slug = ?
`

func (q *Queries) GetNewsBySlug(ctx context.Context, slug string) (News, error) {
	return scanNews(q.db.QueryRowContext(ctx, getNewsBySlug, slug))
}

const listNews = `-- name: ListNews :many
SELECT ` + newsColumns + ` FROM news
WHERE (?1 = '' OR status = ?1)
  AND (?2 = ''
    OR title LIKE '%' || ?2 || '%' ESCAPE '\'
    OR excerpt LIKE '%' || ?2 || '%' ESCAPE '\'
    OR content LIKE '%' || ?2 || '%' ESCAPE '\')
ORDER BY created_at DESC
LIMIT ?3
`

type ListNewsParams struct {
	Status string
	Search string
	Limit  int64
}

// ListNews filters by status and a case-insensitive substring over title,
// excerpt and content. A Limit of zero or less returns every match.
func (q *Queries) ListNews(ctx context.Context, arg ListNewsParams) ([]News, error) {
	limit := arg.Limit
	if limit <= 0 {
		limit = -1
	}
	rows, err := q.db.QueryContext(ctx, listNews, arg.Status, likeEscape(arg.Search), limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []News{}
	for rows.Next() {
		i, err := scanNews(rows)
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

const updateNews = `-- name: UpdateNews :exec
UPDATE news SET
    title = ?,
    slug = ?,
    excerpt = ?,
    content = ?,
    image = ?,
    status = ?,
    tags = ?,
    published_at = ?,
    updated_at = ?
WHERE id = ?
`

type UpdateNewsParams struct {
	Title       string
	Slug        string
	Excerpt     sql.NullString
	Content     string
	Image       sql.NullString
	Status      string
	Tags        StringList
	PublishedAt sql.NullTime
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateNews(ctx context.Context, arg UpdateNewsParams) (News, error) {
	_, err := q.db.ExecContext(ctx, updateNews,
		arg.Title,
		arg.Slug,
		arg.Excerpt,
		arg.Content,
		arg.Image,
		arg.Status,
		arg.Tags,
		arg.PublishedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return News{}, err
	}
	return q.GetNews(ctx, arg.ID)
}
