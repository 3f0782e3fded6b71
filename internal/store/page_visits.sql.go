// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"time"
)

const countPageVisits = `-- name: CountPageVisits :one
SELECT COUNT(*) FROM page_visits
`

func (q *Queries) CountPageVisits(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countPageVisits)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countVisitsByPath = `-- name: CountVisitsByPath :many
SELECT path, COUNT(*) AS visits FROM page_visits
GROUP BY path
ORDER BY visits DESC, path ASC
`

type CountVisitsByPathRow struct {
	Path   string
	Visits int64
}

func (q *Queries) CountVisitsByPath(ctx context.Context) ([]CountVisitsByPathRow, error) {
	rows, err := q.db.QueryContext(ctx, countVisitsByPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CountVisitsByPathRow{}
	for rows.Next() {
		var i CountVisitsByPathRow
		if err := rows.Scan(&i.Path, &i.Visits); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createPageVisit = `-- name: CreatePageVisit :exec
INSERT INTO page_visits (id, path, referrer, browser, os, device_type, country, visited_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type CreatePageVisitParams struct {
	ID         string
	Path       string
	Referrer   string
	Browser    string
	Os         string
	DeviceType string
	Country    string
	VisitedAt  time.Time
}

func (q *Queries) CreatePageVisit(ctx context.Context, arg CreatePageVisitParams) (PageVisit, error) {
	_, err := q.db.ExecContext(ctx, createPageVisit,
		arg.ID,
		arg.Path,
		arg.Referrer,
		arg.Browser,
		arg.Os,
		arg.DeviceType,
		arg.Country,
		arg.VisitedAt,
	)
	if err != nil {
		return PageVisit{}, err
	}
	return PageVisit(arg), nil
}

const deleteVisitsBefore = `-- name: DeleteVisitsBefore :execrows
DELETE FROM page_visits WHERE visited_at < ?
`

func (q *Queries) DeleteVisitsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteVisitsBefore, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listVisitTimesSince = `-- name: ListVisitTimesSince :many
SELECT visited_at FROM page_visits
WHERE visited_at >= ?1
  AND (?2 = '' OR path = ?2)
ORDER BY visited_at ASC
`

type ListVisitTimesSinceParams struct {
	Since time.Time
	Path  string
}

func (q *Queries) ListVisitTimesSince(ctx context.Context, arg ListVisitTimesSinceParams) ([]time.Time, error) {
	rows, err := q.db.QueryContext(ctx, listVisitTimesSince, arg.Since, arg.Path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []time.Time{}
	for rows.Next() {
		var visitedAt time.Time
		if err := rows.Scan(&visitedAt); err != nil {
			return nil, err
		}
		items = append(items, visitedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
