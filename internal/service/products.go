// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/lefarm/internal/model"
	"github.com/olegiv/lefarm/internal/store"
	"github.com/olegiv/lefarm/internal/util"
)

// productCodeAttempts bounds how many generated codes are tried before
// giving up on a collision.
const productCodeAttempts = 5

// Product validation messages.
const (
	msgTooFewImages    = "Please provide at least 3 product images"
	msgInvalidCategory = "Invalid category"
	msgDuplicateCode   = "Product code already exists"
	msgInvalidCode     = "Product code must look like VEG-123"
)

// ProductInput is the payload for creating a product.
type ProductInput struct {
	NameVi      string   `json:"nameVi" validate:"required,max=200"`
	NameEn      string   `json:"nameEn" validate:"required,max=200"`
	NameRu      *string  `json:"nameRU" validate:"omitempty,max=200"`
	ProductCode string   `json:"productCode"`
	Category    string   `json:"category" validate:"required"`
	Price       float64  `json:"price" validate:"gte=0"`
	Stock       int64    `json:"stock" validate:"gte=0"`
	Unit        *string  `json:"unit"`
	Image       string   `json:"image"`
	Images      []string `json:"images"`
	Description *string  `json:"description"`
	Benefits    []string `json:"benefits"`
	Featured    bool     `json:"featured"`
}

// ProductPatch is a partial product update. Nil fields are left unchanged.
type ProductPatch struct {
	NameVi      *string   `json:"nameVi" validate:"omitempty,max=200"`
	NameEn      *string   `json:"nameEn" validate:"omitempty,max=200"`
	NameRu      *string   `json:"nameRU" validate:"omitempty,max=200"`
	Description *string   `json:"description"`
	Image       *string   `json:"image"`
	Images      *[]string `json:"images"`
	Category    *string   `json:"category"`
	Price       *float64  `json:"price" validate:"omitempty,gte=0"`
	Stock       *int64    `json:"stock" validate:"omitempty,gte=0"`
	Unit        *string   `json:"unit"`
	Benefits    *[]string `json:"benefits"`
	Featured    *bool     `json:"featured"`
}

// ProductService applies catalog rules on top of the product store.
type ProductService struct {
	queries *store.Queries
	policy  *bluemonday.Policy
	now     func() time.Time
	rnd     *rand.Rand
}

// NewProductService creates a ProductService. Descriptions are sanitized
// with the user-generated-content policy before they are stored.
func NewProductService(db *sql.DB) *ProductService {
	return &ProductService{
		queries: store.New(db),
		policy:  bluemonday.UGCPolicy(),
		now:     time.Now,
	}
}

func (s *ProductService) description(raw *string) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return util.NullStringFromValue(s.policy.Sanitize(*raw))
}

// List returns products newest first, optionally filtered.
func (s *ProductService) List(ctx context.Context, category string, featuredOnly bool) ([]store.Product, error) {
	return s.queries.ListProducts(ctx, store.ListProductsParams{
		Category:     category,
		FeaturedOnly: featuredOnly,
	})
}

// Featured returns up to four featured products, or the four newest
// products when none are featured.
func (s *ProductService) Featured(ctx context.Context) ([]store.Product, error) {
	products, err := s.queries.ListFeaturedProducts(ctx, model.FeaturedProductsLimit)
	if err != nil {
		return nil, fmt.Errorf("listing featured products: %w", err)
	}
	if len(products) > 0 {
		return products, nil
	}
	return s.queries.ListLatestProducts(ctx, model.FeaturedProductsLimit)
}

// Get returns a product by id.
func (s *ProductService) Get(ctx context.Context, id string) (store.Product, error) {
	return s.queries.GetProduct(ctx, id)
}

// Create validates in and stores a new product. A missing product code is
// generated from the category.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (store.Product, error) {
	if !model.IsValidCategory(in.Category) {
		return store.Product{}, invalid(msgInvalidCategory)
	}
	images := NormalizeList(in.Images)
	if len(images) < model.MinProductImages {
		return store.Product{}, invalid(msgTooFewImages)
	}
	primary := strings.TrimSpace(in.Image)
	if primary == "" {
		primary = images[0]
	}

	code := strings.ToUpper(strings.TrimSpace(in.ProductCode))
	if code != "" && !util.IsValidProductCode(code) {
		return store.Product{}, invalid(msgInvalidCode)
	}

	now := s.now().UTC()
	params := store.CreateProductParams{
		NameVi:      strings.TrimSpace(in.NameVi),
		NameEn:      strings.TrimSpace(in.NameEn),
		NameRu:      util.NullStringFromPtr(in.NameRu),
		Category:    in.Category,
		Price:       in.Price,
		Stock:       in.Stock,
		Unit:        util.NullStringFromPtr(in.Unit),
		Image:       primary,
		Images:      images,
		Description: s.description(in.Description),
		Benefits:    NormalizeList(in.Benefits),
		Featured:    in.Featured,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if code != "" {
		params.ID = uuid.NewString()
		params.ProductCode = code
		p, err := s.queries.CreateProduct(ctx, params)
		if store.IsUniqueViolation(err) {
			return store.Product{}, conflict(msgDuplicateCode)
		}
		return p, err
	}

	for range productCodeAttempts {
		params.ID = uuid.NewString()
		params.ProductCode = util.ProductCode(in.Category, s.now(), s.rnd)
		p, err := s.queries.CreateProduct(ctx, params)
		if err == nil {
			return p, nil
		}
		if !store.IsUniqueViolation(err) {
			return store.Product{}, fmt.Errorf("creating product: %w", err)
		}
	}
	return store.Product{}, conflict("Could not generate a unique product code")
}

// Update applies patch to the product with the given id. The product code
// never changes.
func (s *ProductService) Update(ctx context.Context, id string, patch ProductPatch) (store.Product, error) {
	p, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		return store.Product{}, err
	}

	if patch.NameVi != nil && strings.TrimSpace(*patch.NameVi) != "" {
		p.NameVi = strings.TrimSpace(*patch.NameVi)
	}
	if patch.NameEn != nil && strings.TrimSpace(*patch.NameEn) != "" {
		p.NameEn = strings.TrimSpace(*patch.NameEn)
	}
	if patch.NameRu != nil {
		p.NameRu = util.NullStringFromValue(*patch.NameRu)
	}
	if patch.Description != nil && *patch.Description != "" {
		p.Description = s.description(patch.Description)
	}
	if patch.Category != nil && *patch.Category != "" {
		if !model.IsValidCategory(*patch.Category) {
			return store.Product{}, invalid(msgInvalidCategory)
		}
		p.Category = *patch.Category
	}
	if patch.Images != nil {
		images := NormalizeList(*patch.Images)
		if len(images) < model.MinProductImages {
			return store.Product{}, invalid(msgTooFewImages)
		}
		p.Images = images
		if patch.Image == nil {
			p.Image = images[0]
		}
	}
	if patch.Image != nil {
		p.Image = strings.TrimSpace(*patch.Image)
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Unit != nil {
		p.Unit = util.NullStringFromValue(*patch.Unit)
	}
	if patch.Benefits != nil {
		p.Benefits = NormalizeList(*patch.Benefits)
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}

	return s.queries.UpdateProduct(ctx, store.UpdateProductParams{
		NameVi:      p.NameVi,
		NameEn:      p.NameEn,
		NameRu:      p.NameRu,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		Unit:        p.Unit,
		Image:       p.Image,
		Images:      p.Images,
		Description: p.Description,
		Benefits:    p.Benefits,
		Featured:    p.Featured,
		UpdatedAt:   s.now().UTC(),
		ID:          id,
	})
}

// Delete removes a product. It returns sql.ErrNoRows when nothing was deleted.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	return deleted(s.queries.DeleteProduct(ctx, id))
}

// NormalizeList trims entries and drops blanks.
func NormalizeList(in []string) store.StringList {
	out := make(store.StringList, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
