// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/lefarm/internal/media"
	"github.com/olegiv/lefarm/internal/model"
)

// multipartOverhead is allowed on top of the file size limit for form fields.
const multipartOverhead = 1 << 20

// DeleteImageRequest is the body of POST /api/cloudinary/delete.
type DeleteImageRequest struct {
	PublicID string `json:"publicId" validate:"required,max=255"`
}

// UploadImage handles POST /api/cloudinary/upload (multipart file,
// optional folder).
func (h *Handler) UploadImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, "")
}

// UploadEditorImage handles POST /api/upload/image used by the rich text
// editor. Files always go to the blog folder.
func (h *Handler) UploadEditorImage(w http.ResponseWriter, r *http.Request) {
	h.upload(w, r, media.EditorFolder)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request, folder string) {
	if !h.media.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "Image hosting is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.media.MaxSize()+multipartOverhead)
	if err := r.ParseMultipartForm(h.media.MaxSize()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer func() { _ = file.Close() }()

	if folder == "" {
		folder = r.FormValue("folder")
	}

	res, err := h.media.Upload(r.Context(), file, header.Filename, folder)
	switch {
	case err == nil:
	case errors.Is(err, media.ErrTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "File is too large")
		return
	case errors.Is(err, media.ErrUnsupportedType), errors.Is(err, media.ErrEmptyFile):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	default:
		h.logger.Error("image upload failed", "filename", header.Filename, "error", err)
		writeError(w, http.StatusBadGateway, "Upload failed")
		return
	}

	h.audit(r, model.EventCategoryMedia, "Image uploaded", map[string]any{"public_id": res.PublicID, "bytes": res.Bytes})
	writeJSON(w, http.StatusOK, res)
}

// DeleteImage handles POST /api/cloudinary/delete.
func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	if !h.media.Enabled() {
		writeError(w, http.StatusServiceUnavailable, "Image hosting is not configured")
		return
	}
	var req DeleteImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := h.media.Delete(r.Context(), req.PublicID); err != nil {
		h.logger.Error("image delete failed", "public_id", req.PublicID, "error", err)
		writeError(w, http.StatusBadGateway, "Delete failed")
		return
	}

	h.audit(r, model.EventCategoryMedia, "Image deleted", map[string]any{"public_id": req.PublicID})
	writeJSON(w, http.StatusOK, MessageResponse{Success: true})
}
