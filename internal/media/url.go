// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package media

import (
	"fmt"
	"strings"
)

// TransformOptions selects a Cloudinary delivery transformation.
type TransformOptions struct {
	Width   int
	Height  int
	Quality string // auto, low, high; defaults to auto
	Crop    string // fill, fit, scale; only applied with both dimensions
}

// ThumbnailOptions size the preview returned with each upload.
var ThumbnailOptions = TransformOptions{Width: 400, Height: 300}

// TransformURL builds a delivery URL for publicID on cloudName.
func TransformURL(cloudName, publicID string, opts TransformOptions) string {
	quality := opts.Quality
	if quality == "" {
		quality = "auto"
	}
	crop := opts.Crop
	if crop == "" {
		crop = "fill"
	}

	var transforms []string
	if opts.Width > 0 {
		transforms = append(transforms, fmt.Sprintf("w_%d", opts.Width))
	}
	if opts.Height > 0 {
		transforms = append(transforms, fmt.Sprintf("h_%d", opts.Height))
	}
	if opts.Width > 0 && opts.Height > 0 {
		transforms = append(transforms, "c_"+crop)
	}
	transforms = append(transforms, "q_"+quality)

	return fmt.Sprintf("https://res.cloudinary.com/%s/image/upload/%s/%s",
		cloudName, strings.Join(transforms, ","), strings.TrimPrefix(publicID, "/"))
}
