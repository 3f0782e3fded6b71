// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/lefarm/internal/testutil"
)

func newProjectService(t *testing.T) *ProjectService {
	t.Helper()
	svc := NewProjectService(testutil.TestDB(t))
	clock := time.Date(2026, 2, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc
}

func TestProjectService_CreateAndList(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	y2023, y2025 := int64(2023), int64(2025)
	old, err := svc.Create(ctx, ProjectInput{Title: "Trang trại Đà Lạt", Slug: "trang-trai-da-lat", Description: "Nhà kính", Year: &y2023, Category: ptr("farm")})
	require.NoError(t, err)
	recent, err := svc.Create(ctx, ProjectInput{
		Title:       "Hợp tác xã Mộc Châu",
		Slug:        "hop-tac-xa-moc-chau",
		Description: "Chuỗi cung ứng",
		Year:        &y2025,
		Images:      []string{"https://img/a.jpg", " "},
	})
	require.NoError(t, err)
	assert.Len(t, recent.Images, 1)

	all, err := svc.List(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, recent.ID, all[0].ID, "newest year first")

	farms, err := svc.List(ctx, "farm", 0)
	require.NoError(t, err)
	require.Len(t, farms, 1)
	assert.Equal(t, old.ID, farms[0].ID)

	in2025, err := svc.List(ctx, "", 2025)
	require.NoError(t, err)
	require.Len(t, in2025, 1)
	assert.Equal(t, recent.ID, in2025[0].ID)

	bySlug, err := svc.Lookup(ctx, "trang-trai-da-lat")
	require.NoError(t, err)
	assert.Equal(t, old.ID, bySlug.ID)
	byID, err := svc.Lookup(ctx, recent.ID)
	require.NoError(t, err)
	assert.Equal(t, recent.Slug, byID.Slug)
}

func TestProjectService_SlugRules(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, ProjectInput{Title: "A", Slug: "Not A Slug", Description: "x"})
	assert.True(t, IsValidation(err))

	first, err := svc.Create(ctx, ProjectInput{Title: "A", Slug: "du-an-a", Description: "x"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ProjectInput{Title: "B", Slug: "du-an-a", Description: "y"})
	assert.True(t, IsConflict(err))

	second, err := svc.Create(ctx, ProjectInput{Title: "B", Slug: "du-an-b", Description: "y"})
	require.NoError(t, err)
	_, err = svc.Update(ctx, second.ID, ProjectPatch{Slug: ptr(first.Slug)})
	assert.True(t, IsConflict(err))
}

func TestProjectService_UpdateAndDelete(t *testing.T) {
	svc := newProjectService(t)
	ctx := context.Background()

	year := int64(2024)
	p, err := svc.Create(ctx, ProjectInput{Title: "Vườn rau", Slug: "vuon-rau", Description: "Rau sạch", Year: &year, Results: ptr("+30%")})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, p.ID, ProjectPatch{Title: ptr("Vườn rau hữu cơ"), Results: ptr("")})
	require.NoError(t, err)
	assert.Equal(t, "Vườn rau hữu cơ", updated.Title)
	assert.Equal(t, "vuon-rau", updated.Slug)
	assert.False(t, updated.Results.Valid)
	assert.Equal(t, int64(2024), updated.Year.Int64)

	require.NoError(t, svc.Delete(ctx, p.ID))
	_, err = svc.Lookup(ctx, p.ID)
	assert.ErrorIs(t, err, sql.ErrNoRows)
}
