// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const projectColumns = `id, title, slug, description, image, images, category, results, year, created_at, updated_at`

func scanProject(row rowScanner) (Project, error) {
	var i Project
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Slug,
		&i.Description,
		&i.Image,
		&i.Images,
		&i.Category,
		&i.Results,
		&i.Year,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const countProjects = `-- name: CountProjects :one
SELECT COUNT(*) FROM projects
`

func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProjects)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const createProject = `-- name: CreateProject :exec
INSERT INTO projects (id, title, slug, description, image, images, category, results, year, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateProjectParams struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Image       sql.NullString
	Images      StringList
	Category    sql.NullString
	Results     sql.NullString
	Year        sql.NullInt64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateProject(ctx context.Context, arg CreateProjectParams) (Project, error) {
	_, err := q.db.ExecContext(ctx, createProject,
		arg.ID,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Image,
		arg.Images,
		arg.Category,
		arg.Results,
		arg.Year,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Project{}, err
	}
	return q.GetProject(ctx, arg.ID)
}

const deleteProject = `-- name: DeleteProject :execrows
DELETE FROM projects WHERE id = ?
`

func (q *Queries) DeleteProject(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProject, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProject = `-- name: GetProject :one
SELECT ` + projectColumns + ` FROM projects WHERE id = ?
`

func (q *Queries) GetProject(ctx context.Context, id string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProject, id))
}

const getProjectBySlug = `-- name: GetProjectBySlug :one
SELECT ` + projectColumns + ` FROM projects WHERE slug = ?
`

func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (Project, error) {
	return scanProject(q.db.QueryRowContext(ctx, getProjectBySlug, slug))
}

const listProjects = `-- name: ListProjects :many
SELECT ` + projectColumns + ` FROM projects
WHERE (?1 = '' OR category = ?1)
  AND (?2 = 0 OR year = ?2)
ORDER BY year DESC, created_at DESC
`

type ListProjectsParams struct {
	Category string
	Year     int64
}

func (q *Queries) ListProjects(ctx context.Context, arg ListProjectsParams) ([]Project, error) {
	rows, err := q.db.QueryContext(ctx, listProjects, arg.Category, arg.Year)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Project{}
	for rows.Next() {
		i, err := scanProject(rows)
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

const updateProject = `-- name: UpdateProject :exec
UPDATE projects SET
    title = ?,
    slug = ?,
    description = ?,
    image = ?,
    images = ?,
    category = ?,
    results = ?,
    year = ?,
    updated_at = ?
WHERE id = ?
`

type UpdateProjectParams struct {
	Title       string
	Slug        string
	Description string
	Image       sql.NullString
	Images      StringList
	Category    sql.NullString
	Results     sql.NullString
	Year        sql.NullInt64
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateProject(ctx context.Context, arg UpdateProjectParams) (Project, error) {
	_, err := q.db.ExecContext(ctx, updateProject,
		arg.Title,
		arg.Slug,
		arg.Description,
		arg.Image,
		arg.Images,
		arg.Category,
		arg.Results,
		arg.Year,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return Project{}, err
	}
	return q.GetProject(ctx, arg.ID)
}
