// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/lefarm/internal/auth"
	"github.com/olegiv/lefarm/internal/media"
)

// upload posts a multipart form. An empty filename sends no file part.
func (e *testEnv) upload(path, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	e.t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(e.t, mw.WriteField(k, v))
	}
	if filename != "" {
		part, err := mw.CreateFormFile("file", filename)
		require.NoError(e.t, err)
		_, err = part.Write(data)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: e.admin})
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestUploadImage(t *testing.T) {
	env := newTestEnv(t)
	png := testPNG(t)

	tests := []struct {
		name       string
		path       string
		fields     map[string]string
		wantFolder string
	}{
		{"default folder", "/api/cloudinary/upload", nil, "lefarm/products"},
		{"banner folder", "/api/cloudinary/upload", map[string]string{"folder": "banners"}, "lefarm/banners"},
		{"unsafe folder", "/api/cloudinary/upload", map[string]string{"folder": "../etc"}, "lefarm/products"},
		{"editor", "/api/upload/image", map[string]string{"folder": "banners"}, "lefarm/blog"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.upload(tt.path, "photo.png", png, tt.fields)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			res := decode[media.Result](t, rec)
			assert.Equal(t, tt.wantFolder, env.host.folder)
			assert.Contains(t, res.URL, tt.wantFolder)
			assert.Equal(t, len(png), res.Bytes)
		})
	}
}

func TestUploadImage_Rejected(t *testing.T) {
	env := newTestEnv(t)

	rec := env.upload("/api/cloudinary/upload", "", nil, map[string]string{"folder": "products"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No file provided", errorMessage(t, rec))

	rec = env.upload("/api/cloudinary/upload", "notes.txt", []byte("plain text, not an image"), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, media.ErrUnsupportedType.Error(), errorMessage(t, rec))

	req := httptest.NewRequest(http.MethodPost, "/api/cloudinary/upload", bytes.NewBufferString("{}"))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: env.admin})
	rec = httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid form data", errorMessage(t, rec))
}

func TestUploadImage_NotConfigured(t *testing.T) {
	env := newTestEnv(t, withoutMedia())

	rec := env.upload("/api/cloudinary/upload", "photo.png", testPNG(t), nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Image hosting is not configured", errorMessage(t, rec))

	rec = env.adminDo(http.MethodPost, "/api/cloudinary/delete", map[string]any{"publicId": "lefarm/products/abc"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestUploadImage_RequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.public(http.MethodPost, "/api/cloudinary/upload", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteImage(t *testing.T) {
	env := newTestEnv(t)

	rec := env.adminDo(http.MethodPost, "/api/cloudinary/delete", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "publicId is required", errorMessage(t, rec))

	rec = env.adminDo(http.MethodPost, "/api/cloudinary/delete", map[string]any{"publicId": "lefarm/products/abc"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "lefarm/products/abc", env.host.deleted)
}
