// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateNews_DuplicateSlug(t *testing.T) {
	env := newTestEnv(t)

	body := map[string]any{"title": "Mùa thu hoạch", "content": "<p>Rau sạch</p>"}
	rec := env.adminDo(http.MethodPost, "/api/news", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[NewsResponse](t, rec)
	assert.Equal(t, "mua-thu-hoach", created.Slug)
	assert.Equal(t, "draft", created.Status)

	rec = env.adminDo(http.MethodPost, "/api/news", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "Slug already exists", errorMessage(t, rec))
}

func TestCreateNews_Validation(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminDo(http.MethodPost, "/api/news", map[string]any{"title": "Only title"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "content is required", errorMessage(t, rec))

	rec = env.adminDo(http.MethodPost, "/api/news", map[string]any{"title": "T", "content": "c", "status": "archived"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNews_LookupAndFilter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminDo(http.MethodPost, "/api/news", map[string]any{
		"title":   "Giới thiệu nông trại",
		"content": "<p>Hello</p><script>alert(1)</script>",
		"status":  "published",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	published := decode[NewsResponse](t, rec)
	assert.NotNil(t, published.PublishedAt)
	assert.NotContains(t, published.Content, "<script>")

	rec = env.adminDo(http.MethodPost, "/api/news", map[string]any{"title": "Bản nháp", "content": "wip"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.public(http.MethodGet, "/api/news/gioi-thieu-nong-trai", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, published.ID, decode[NewsResponse](t, rec).ID)

	rec = env.public(http.MethodGet, "/api/news/"+published.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.public(http.MethodGet, "/api/news?status=published", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]NewsResponse](t, rec), 1)

	rec = env.public(http.MethodGet, "/api/news?status=all", nil)
	assert.Len(t, decode[[]NewsResponse](t, rec), 2)

	rec = env.public(http.MethodGet, "/api/news?search=NÔNG", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.public(http.MethodGet, "/api/news?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.public(http.MethodGet, "/api/news/missing-slug", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "News not found", errorMessage(t, rec))
}

func TestUpdateNews_SlugConflict(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminDo(http.MethodPost, "/api/news", map[string]any{"title": "Một", "content": "1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = env.adminDo(http.MethodPost, "/api/news", map[string]any{"title": "Hai", "content": "2"})
	require.Equal(t, http.StatusCreated, rec.Code)
	second := decode[NewsResponse](t, rec)

	rec = env.adminDo(http.MethodPut, "/api/news/"+second.ID, map[string]any{"slug": "mot"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = env.adminDo(http.MethodPut, "/api/news/"+second.ID, map[string]any{"title": "Hai (sửa)"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "hai", decode[NewsResponse](t, rec).Slug)
}
