// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package imaging normalizes uploaded images before they are sent to the
// image host: EXIF orientation is applied and oversized images are
// downscaled.
package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Image MIME types accepted for upload.
const (
	MimeTypeJPEG = "image/jpeg"
	MimeTypePNG  = "image/png"
	MimeTypeGIF  = "image/gif"
	MimeTypeWebP = "image/webp"
)

// Defaults used by NewProcessor when zero values are given.
const (
	DefaultMaxDimension = 2048
	DefaultQuality      = 85
)

// ErrUnsupportedFormat is returned for payloads that are not a supported image.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Result is a prepared image ready for upload.
type Result struct {
	Data     []byte
	Width    int
	Height   int
	MimeType string
	// Changed is false when Data is the original payload.
	Changed bool
}

// Processor prepares raster images for upload.
type Processor struct {
	maxDimension int
	quality      int
}

// NewProcessor creates a processor that fits images into a
// maxDimension x maxDimension box and re-encodes JPEGs at quality.
func NewProcessor(maxDimension, quality int) *Processor {
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultQuality
	}
	return &Processor{maxDimension: maxDimension, quality: quality}
}

// MaxDimension returns the longest edge an output image may have.
func (p *Processor) MaxDimension() int {
	return p.maxDimension
}

// Prepare decodes data, applies EXIF orientation and downscales when the
// image exceeds the maximum dimension. Images that need neither are
// returned untouched. GIFs are never re-encoded so animations survive.
func (p *Processor) Prepare(data []byte) (*Result, error) {
	mimeType := DetectMimeType(data)
	if !IsSupportedType(mimeType) {
		return nil, ErrUnsupportedFormat
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to read image header: %w", err)
	}

	untouched := &Result{Data: data, Width: cfg.Width, Height: cfg.Height, MimeType: mimeType}
	if mimeType == MimeTypeGIF {
		return untouched, nil
	}

	orientation := 1
	if mimeType == MimeTypeJPEG {
		orientation = readExifOrientation(bytes.NewReader(data))
	}
	oversized := cfg.Width > p.maxDimension || cfg.Height > p.maxDimension
	if orientation == 1 && !oversized {
		return untouched, nil
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	img = applyOrientation(img, orientation)
	if oversized {
		img = imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
	}

	// WebP has no pure Go encoder; it is re-encoded as JPEG.
	outType := mimeType
	if outType == MimeTypeWebP {
		outType = MimeTypeJPEG
	}

	encoded, err := encodeImage(img, outType, p.quality)
	if err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	bounds := img.Bounds()
	return &Result{
		Data:     encoded,
		Width:    bounds.Dx(),
		Height:   bounds.Dy(),
		MimeType: outType,
		Changed:  true,
	}, nil
}

// IsSupportedType reports whether mimeType is an accepted upload type.
func IsSupportedType(mimeType string) bool {
	switch mimeType {
	case MimeTypeJPEG, MimeTypePNG, MimeTypeGIF, MimeTypeWebP:
		return true
	default:
		return false
	}
}

// DetectMimeType sniffs the content type of data. TIFF is reported as
// unsupported (CVE-2023-36308 in disintegration/imaging).
func DetectMimeType(data []byte) string {
	contentType := http.DetectContentType(data)
	switch {
	case strings.Contains(contentType, "tiff"):
		return ""
	case strings.Contains(contentType, "jpeg"):
		return MimeTypeJPEG
	case strings.Contains(contentType, "png"):
		return MimeTypePNG
	case strings.Contains(contentType, "gif"):
		return MimeTypeGIF
	case strings.Contains(contentType, "webp"):
		return MimeTypeWebP
	default:
		return contentType
	}
}

// ExtensionFor returns the file extension for an image MIME type.
func ExtensionFor(mimeType string) string {
	switch mimeType {
	case MimeTypeJPEG:
		return ".jpg"
	case MimeTypePNG:
		return ".png"
	case MimeTypeGIF:
		return ".gif"
	case MimeTypeWebP:
		return ".webp"
	default:
		return ""
	}
}

// readExifOrientation reads the EXIF orientation tag from image data.
// Returns 1 (normal) if orientation cannot be determined.
func readExifOrientation(r io.Reader) int {
	x, err := exif.Decode(r)
	if err != nil {
		return 1
	}

	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}

	orientation, err := tag.Int(0)
	if err != nil {
		return 1
	}

	return orientation
}

// applyOrientation applies an EXIF orientation (1-8) to img.
func applyOrientation(img image.Image, orientation int) image.Image {
	switch orientation {
	case 2:
		return imaging.FlipH(img)
	case 3:
		return imaging.Rotate180(img)
	case 4:
		return imaging.FlipV(img)
	case 5:
		return imaging.FlipH(imaging.Rotate270(img))
	case 6:
		return imaging.Rotate270(img)
	case 7:
		return imaging.FlipH(imaging.Rotate90(img))
	case 8:
		return imaging.Rotate90(img)
	default:
		return img
	}
}

func encodeImage(img image.Image, mimeType string, quality int) ([]byte, error) {
	var buf bytes.Buffer

	switch mimeType {
	case MimeTypePNG:
		if err := png.Encode(&buf, img); err != nil {
			return nil, err
		}
	default:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
			return nil, err
		}
	}

	return buf.Bytes(), nil
}
