// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package media uploads product, banner and article images to the image host.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/olegiv/lefarm/internal/imaging"
	"github.com/olegiv/lefarm/internal/util"
)

// Folder names and limits.
const (
	RootFolder     = "lefarm"
	DefaultFolder  = "products"
	EditorFolder   = "blog"
	DefaultMaxSize = 10 << 20
)

var (
	// ErrNotConfigured is returned when no image host credentials are set.
	ErrNotConfigured = errors.New("image hosting is not configured")
	// ErrTooLarge is returned for payloads above the size limit.
	ErrTooLarge = errors.New("file is too large")
	// ErrUnsupportedType is returned for payloads that are not an image.
	ErrUnsupportedType = errors.New("only JPEG, PNG, GIF and WebP images are allowed")
	// ErrEmptyFile is returned for zero-length uploads.
	ErrEmptyFile = errors.New("file is empty")
)

// Result describes an uploaded asset.
type Result struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	Format   string `json:"format"`
	Bytes    int    `json:"bytes"`

	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

// Host stores image bytes and returns a public URL.
type Host interface {
	Upload(ctx context.Context, data []byte, filename, folder string) (Result, error)
	Delete(ctx context.Context, publicID string) error
}

// thumbnailer is implemented by hosts that serve resized variants.
type thumbnailer interface {
	ThumbnailURL(publicID string) string
}

// Service validates and normalizes uploads before handing them to a Host.
type Service struct {
	host      Host
	processor *imaging.Processor
	maxSize   int64
}

// NewService creates an upload service. A nil host makes every upload
// fail with ErrNotConfigured.
func NewService(host Host, processor *imaging.Processor, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if processor == nil {
		processor = imaging.NewProcessor(0, 0)
	}
	return &Service{host: host, processor: processor, maxSize: maxSize}
}

// Enabled reports whether an image host is configured.
func (s *Service) Enabled() bool {
	return s.host != nil
}

// MaxSize returns the upload size limit in bytes.
func (s *Service) MaxSize() int64 {
	return s.maxSize
}

// Upload reads an image from r and stores it under lefarm/<folder>.
func (s *Service) Upload(ctx context.Context, r io.Reader, filename, folder string) (Result, error) {
	if s.host == nil {
		return Result{}, ErrNotConfigured
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return Result{}, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return Result{}, ErrEmptyFile
	}
	if int64(len(data)) > s.maxSize {
		return Result{}, ErrTooLarge
	}

	prepared, err := s.processor.Prepare(data)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedFormat) {
			return Result{}, ErrUnsupportedType
		}
		return Result{}, fmt.Errorf("preparing image: %w", err)
	}

	name := uploadName(filename, prepared.MimeType)
	res, err := s.host.Upload(ctx, prepared.Data, name, FolderPath(folder))
	if err != nil {
		return Result{}, err
	}
	if res.Width == 0 {
		res.Width, res.Height = prepared.Width, prepared.Height
	}
	if t, ok := s.host.(thumbnailer); ok && res.ThumbnailURL == "" && res.PublicID != "" {
		res.ThumbnailURL = t.ThumbnailURL(res.PublicID)
	}
	return res, nil
}

// Delete removes an uploaded asset.
func (s *Service) Delete(ctx context.Context, publicID string) error {
	if s.host == nil {
		return ErrNotConfigured
	}
	return s.host.Delete(ctx, publicID)
}

var folderSegment = regexp.MustCompile(`^[a-z0-9_-]+$`)

// FolderPath returns the host folder for a client-supplied folder name.
// Unknown or unsafe names fall back to the default folder.
func FolderPath(folder string) string {
	folder = strings.ToLower(strings.Trim(strings.TrimSpace(folder), "/"))
	if folder == "" {
		folder = DefaultFolder
	}
	for _, seg := range strings.Split(folder, "/") {
		if !folderSegment.MatchString(seg) {
			folder = DefaultFolder
			break
		}
	}
	return RootFolder + "/" + folder
}

// uploadName strips directories from filename and fixes its extension to
// match the prepared image type.
func uploadName(filename, mimeType string) string {
	base, err := util.SanitizeFilename(filename)
	if err != nil {
		base = "image"
	}
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "image"
	}
	return stem + imaging.ExtensionFor(mimeType)
}
