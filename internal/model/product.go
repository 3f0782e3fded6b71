// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

// Product categories.
const (
	CategoryVegetables = "vegetables"
	CategoryFruits     = "fruits"
	CategoryGrains     = "grains"
	CategoryOrganic    = "organic"
)

// Categories lists the product categories in display order.
var Categories = []string{CategoryVegetables, CategoryFruits, CategoryGrains, CategoryOrganic}

// MinProductImages is the number of non-blank images every product must carry.
const MinProductImages = 3

// FeaturedProductsLimit caps the homepage featured product list.
const FeaturedProductsLimit = 4

var categoryPrefixes = map[string]string{
	CategoryVegetables: "VEG",
	CategoryFruits:     "FRU",
	CategoryGrains:     "GRN",
	CategoryOrganic:    "ORG",
}

// CategoryPrefix returns the product code prefix for a category, or "" if unknown.
func CategoryPrefix(category string) string {
	return categoryPrefixes[category]
}

// IsValidCategory reports whether category is one of the known product categories.
func IsValidCategory(category string) bool {
	_, ok := categoryPrefixes[category]
	return ok
}
