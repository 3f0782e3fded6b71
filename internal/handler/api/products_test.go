// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateProduct_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.public(http.MethodPost, "/api/products", productBody("Rau muống", "Water spinach", "vegetables"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Unauthorized", errorMessage(t, rec))
}

func TestCreateProduct_Validation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name    string
		body    any
		wantMsg string
	}{
		{"invalid json", "{", "Invalid JSON body"},
		{"missing nameVi", map[string]any{"nameEn": "A", "category": "fruits", "images": threeImages}, "nameVi is required"},
		{"two images", map[string]any{"nameVi": "A", "nameEn": "A", "category": "fruits", "images": threeImages[:2]}, ""},
		{"negative price", map[string]any{"nameVi": "A", "nameEn": "A", "category": "fruits", "images": threeImages, "price": -1}, "price must be at least 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.adminDo(http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, errorMessage(t, rec))
			}
		})
	}
}

func TestProductLifecycle(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminDo(http.MethodPost, "/api/products", productBody("Xoài cát", "Mango", "fruits"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[ProductResponse](t, rec)
	assert.Regexp(t, `^FRU-\d{3}$`, created.ProductCode)
	assert.Equal(t, threeImages[0], created.Image)
	assert.Nil(t, created.NameRU)

	rec = env.public(http.MethodGet, "/api/products/"+created.ID+"?locale=ru", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[ProductResponse](t, rec)
	assert.Equal(t, "Mango", got.Name, "ru falls back to en")

	rec = env.adminDo(http.MethodPut, "/api/products/"+created.ID, map[string]any{"nameRU": "Манго", "stock": 12})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[ProductResponse](t, rec)
	require.NotNil(t, updated.NameRU)
	assert.Equal(t, "Манго", *updated.NameRU)
	assert.Equal(t, int64(12), updated.Stock)
	assert.Equal(t, "Xoài cát", updated.NameVi)

	rec = env.adminDo(http.MethodPut, "/api/products/"+created.ID, map[string]any{"images": []string{"a", "b"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.adminDo(http.MethodDelete, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.public(http.MethodGet, "/api/products/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Product not found", errorMessage(t, rec))
}

func TestCreateProduct_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)

	body := productBody("Gạo ST25", "ST25 rice", "grains")
	body["productCode"] = "GRN-100"
	rec := env.adminDo(http.MethodPost, "/api/products", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.adminDo(http.MethodPost, "/api/products", body)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGetProduct_InvalidID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.public(http.MethodGet, "/api/products/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid ID", errorMessage(t, rec))
}

func TestListProducts(t *testing.T) {
	env := newTestEnv(t)

	for _, b := range []map[string]any{
		productBody("Cải xanh", "Mustard greens", "vegetables"),
		productBody("Bưởi", "Pomelo", "fruits"),
	} {
		require.Equal(t, http.StatusCreated, env.adminDo(http.MethodPost, "/api/products", b).Code)
	}

	rec := env.public(http.MethodGet, "/api/products?category=fruits&locale=en", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]ProductResponse](t, rec)
	require.Len(t, list, 1)
	assert.Equal(t, "Pomelo", list[0].Name)

	rec = env.public(http.MethodGet, "/api/products?category=grains", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFeaturedProducts(t *testing.T) {
	env := newTestEnv(t)

	plain := productBody("Bí đỏ", "Pumpkin", "vegetables")
	require.Equal(t, http.StatusCreated, env.adminDo(http.MethodPost, "/api/products", plain).Code)

	rec := env.public(http.MethodGet, "/api/products/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]ProductResponse](t, rec), 1, "falls back to newest")

	star := productBody("Sầu riêng", "Durian", "fruits")
	star["featured"] = true
	require.Equal(t, http.StatusCreated, env.adminDo(http.MethodPost, "/api/products", star).Code)

	rec = env.public(http.MethodGet, "/api/products/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	featured := decode[[]ProductResponse](t, rec)
	require.Len(t, featured, 1, "cache dropped on write")
	assert.Equal(t, "Durian", featured[0].NameEn)
}

func TestFeaturedProducts_ConcurrentLocales(t *testing.T) {
	env := newTestEnv(t)

	star := productBody("Sầu riêng", "Durian", "fruits")
	star["nameRU"] = "Дуриан"
	star["featured"] = true
	require.Equal(t, http.StatusCreated, env.adminDo(http.MethodPost, "/api/products", star).Code)

	want := map[string]string{"vi": "Sầu riêng", "en": "Durian", "ru": "Дуриан"}
	locales := []string{"vi", "en", "ru"}

	for round := 0; round < 20; round++ {
		require.NoError(t, env.h.cacher.Clear(context.Background()))

		names := make([]string, 9)
		codes := make([]int, 9)
		var wg sync.WaitGroup
		for i := range names {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := env.public(http.MethodGet, "/api/products/featured?locale="+locales[i%3], nil)
				codes[i] = rec.Code
				var list []ProductResponse
				if json.Unmarshal(rec.Body.Bytes(), &list) == nil && len(list) == 1 {
					names[i] = list[0].Name
				}
			}(i)
		}
		wg.Wait()

		for i, name := range names {
			require.Equal(t, http.StatusOK, codes[i])
			assert.Equal(t, want[locales[i%3]], name, "round %d locale %s", round, locales[i%3])
		}
	}
}
