// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const contactColumns = `id, type, value, label, created_at, updated_at`

func scanContact(row rowScanner) (Contact, error) {
	var i Contact
	err := row.Scan(
		&i.ID,
		&i.Type,
		&i.Value,
		&i.Label,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryContacts(ctx context.Context, query string, args ...any) ([]Contact, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Contact{}
	for rows.Next() {
		i, err := scanContact(rows)
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

const countContacts = `-- name: CountContacts :one
SELECT COUNT(*) FROM contacts
`

func (q *Queries) CountContacts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countContacts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createContact = `-- name: CreateContact :exec
INSERT INTO contacts (id, type, value, label, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?)
`

type CreateContactParams struct {
	ID        string
	Type      string
	Value     string
	Label     sql.NullString
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (Contact, error) {
	_, err := q.db.ExecContext(ctx, createContact,
		arg.ID,
		arg.Type,
		arg.Value,
		arg.Label,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Contact{}, err
	}
	return q.GetContact(ctx, arg.ID)
}

const deleteContact = `-- name: DeleteContact :execrows
DELETE FROM contacts WHERE id = ?
`

func (q *Queries) DeleteContact(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteContact, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getContact = `-- name: GetContact :one
SELECT ` + contactColumns + ` FROM contacts WHERE id = ?
`

func (q *Queries) GetContact(ctx context.Context, id string) (Contact, error) {
	return scanContact(q.db.QueryRowContext(ctx, getContact, id))
}

const listContacts = `-- name: ListContacts :many
SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at ASC
`

func (q *Queries) ListContacts(ctx context.Context) ([]Contact, error) {
	return q.queryContacts(ctx, listContacts)
}

const listRecentContacts = `-- name: ListRecentContacts :many
SELECT ` + contactColumns + ` FROM contacts ORDER BY updated_at DESC LIMIT ?
`

func (q *Queries) ListRecentContacts(ctx context.Context, limit int64) ([]Contact, error) {
	return q.queryContacts(ctx, listRecentContacts, limit)
}

const updateContact = `-- name: UpdateContact :exec
UPDATE contacts SET type = ?, value = ?, label = ?, updated_at = ? WHERE id = ?
`

type UpdateContactParams struct {
	Type      string
	Value     string
	Label     sql.NullString
	UpdatedAt time.Time
	ID        string
}

func (q *Queries) UpdateContact(ctx context.Context, arg UpdateContactParams) (Contact, error) {
	_, err := q.db.ExecContext(ctx, updateContact,
		arg.Type,
		arg.Value,
		arg.Label,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return Contact{}, err
	}
	return q.GetContact(ctx, arg.ID)
}
