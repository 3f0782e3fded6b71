// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const leadColumns = `id, name, email, phone, subject, message, status, contacted_at, created_at, updated_at`

func scanLead(row rowScanner) (Lead, error) {
	var i Lead
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.Email,
		&i.Phone,
		&i.Subject,
		&i.Message,
		&i.Status,
		&i.ContactedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const countLeadsByStatus = `-- name: CountLeadsByStatus :many
SELECT status, COUNT(*) AS total FROM leads GROUP BY status ORDER BY status ASC
`

type CountLeadsByStatusRow struct {
	Status string
	Total  int64
}

func (q *Queries) CountLeadsByStatus(ctx context.Context) ([]CountLeadsByStatusRow, error) {
	rows, err := q.db.QueryContext(ctx, countLeadsByStatus)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CountLeadsByStatusRow{}
	for rows.Next() {
		var i CountLeadsByStatusRow
		if err := rows.Scan(&i.Status, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createLead = `-- name: CreateLead :exec
INSERT INTO leads (id, name, email, phone, subject, message, status, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateLeadParams struct {
	ID        string
	Name      string
	Email     sql.NullString
	Phone     string
	Subject   string
	Message   string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateLead(ctx context.Context, arg CreateLeadParams) (Lead, error) {
	_, err := q.db.ExecContext(ctx, createLead,
		arg.ID,
		arg.Name,
		arg.Email,
		arg.Phone,
		arg.Subject,
		arg.Message,
		arg.Status,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Lead{}, err
	}
	return q.GetLead(ctx, arg.ID)
}

const deleteLead = `-- name: DeleteLead :execrows
DELETE FROM leads WHERE id = ?
`

func (q *Queries) DeleteLead(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteLead, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getLead = `-- name: GetLead :one
SELECT ` + leadColumns + ` FROM leads WHERE id = ?
`

func (q *Queries) GetLead(ctx context.Context, id string) (Lead, error) {
	return scanLead(q.db.QueryRowContext(ctx, getLead, id))
}

const listLeads = `-- name: ListLeads :many
SELECT ` + leadColumns + ` FROM leads
WHERE (?1 = '' OR status = ?1)
ORDER BY created_at DESC
LIMIT ?2
`

type ListLeadsParams struct {
	Status string
	Limit  int64
}

func (q *Queries) ListLeads(ctx context.Context, arg ListLeadsParams) ([]Lead, error) {
	rows, err := q.db.QueryContext(ctx, listLeads, arg.Status, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Lead{}
	for rows.Next() {
		i, err := scanLead(rows)
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

const updateLeadStatus = `-- name: UpdateLeadStatus :exec
UPDATE leads SET status = ?, contacted_at = ?, updated_at = ? WHERE id = ?
`

type UpdateLeadStatusParams struct {
	Status      string
	ContactedAt sql.NullTime
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateLeadStatus(ctx context.Context, arg UpdateLeadStatusParams) (Lead, error) {
	_, err := q.db.ExecContext(ctx, updateLeadStatus,
		arg.Status,
		arg.ContactedAt,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return Lead{}, err
	}
	return q.GetLead(ctx, arg.ID)
}
