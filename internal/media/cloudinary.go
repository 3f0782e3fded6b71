// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// DefaultUploadTimeout bounds a single Cloudinary request.
const DefaultUploadTimeout = 60 * time.Second

// CloudinaryHost stores images on Cloudinary.
type CloudinaryHost struct {
	cld     *cloudinary.Cloudinary
	timeout time.Duration
}

// NewCloudinaryHost creates a host from account credentials.
func NewCloudinaryHost(cloudName, apiKey, apiSecret string) (*CloudinaryHost, error) {
	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, ErrNotConfigured
	}
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("configuring cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryHost{cld: cld, timeout: DefaultUploadTimeout}, nil
}

// Upload implements Host. Cloudinary assigns the public id, so the
// filename is not used.
func (h *CloudinaryHost) Upload(ctx context.Context, data []byte, _, folder string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       folder,
		ResourceType: "image",
	})
	if err != nil {
		return Result{}, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return Result{}, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return Result{
		URL:      resp.SecureURL,
		PublicID: resp.PublicID,
		Width:    resp.Width,
		Height:   resp.Height,
		Format:   resp.Format,
		Bytes:    resp.Bytes,
	}, nil
}

// ThumbnailURL returns the card-sized delivery URL for publicID.
func (h *CloudinaryHost) ThumbnailURL(publicID string) string {
	return TransformURL(h.cld.Config.Cloud.CloudName, publicID, ThumbnailOptions)
}

// Delete implements Host.
func (h *CloudinaryHost) Delete(ctx context.Context, publicID string) error {
	if publicID == "" {
		return errors.New("public id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	resp, err := h.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("cloudinary delete: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary delete: %s", resp.Error.Message)
	}
	return nil
}

var _ Host = (*CloudinaryHost)(nil)
