// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"time"
)

const productColumns = `id, name_vi, name_en, name_ru, product_code, category, price, stock, unit,
    image, images, description, benefits, featured, created_at, updated_at`

func scanProduct(row rowScanner) (Product, error) {
	var i Product
	err := row.Scan(
		&i.ID,
		&i.NameVi,
		&i.NameEn,
		&i.NameRu,
		&i.ProductCode,
		&i.Category,
		&i.Price,
		&i.Stock,
		&i.Unit,
		&i.Image,
		&i.Images,
		&i.Description,
		&i.Benefits,
		&i.Featured,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

func (q *Queries) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []Product{}
	for rows.Next() {
		i, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countProducts = `-- name: CountProducts :one
SELECT COUNT(*) FROM products
`

func (q *Queries) CountProducts(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countProducts)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const countProductsByCategory = `-- name: CountProductsByCategory :many
SELECT category, COUNT(*) AS total FROM products GROUP BY category ORDER BY total DESC, category ASC
`

type CountProductsByCategoryRow struct {
	Category string
	Total    int64
}

func (q *Queries) CountProductsByCategory(ctx context.Context) ([]CountProductsByCategoryRow, error) {
	rows, err := q.db.QueryContext(ctx, countProductsByCategory)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	items := []CountProductsByCategoryRow{}
	for rows.Next() {
		var i CountProductsByCategoryRow
		if err := rows.Scan(&i.Category, &i.Total); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createProduct = `-- name: CreateProduct :exec
INSERT INTO products (
    id, name_vi, name_en, name_ru, product_code, category, price, stock, unit,
    image, images, description, benefits, featured, created_at, updated_at
) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateProductParams struct {
	ID          string
	NameVi      string
	NameEn      string
	NameRu      sql.NullString
	ProductCode string
	Category    string
	Price       float64
	Stock       int64
	Unit        sql.NullString
	Image       string
	Images      StringList
	Description sql.NullString
	Benefits    StringList
	Featured    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (Product, error) {
	_, err := q.db.ExecContext(ctx, createProduct,
		arg.ID,
		arg.NameVi,
		arg.NameEn,
		arg.NameRu,
		arg.ProductCode,
		arg.Category,
		arg.Price,
		arg.Stock,
		arg.Unit,
		arg.Image,
		arg.Images,
		arg.Description,
		arg.Benefits,
		arg.Featured,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return Product{}, err
	}
	return q.GetProduct(ctx, arg.ID)
}

const deleteProduct = `-- name: DeleteProduct :execrows
DELETE FROM products WHERE id = ?
`

func (q *Queries) DeleteProduct(ctx context.Context, id string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteProduct, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const getProduct = `-- name: GetProduct :one
SELECT ` + productColumns + ` FROM products WHERE id = ?
`

func (q *Queries) GetProduct(ctx context.Context, id string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProduct, id))
}

const getProductByCode = `-- name: GetProductByCode :one
SELECT ` + productColumns + ` FROM products WHERE product_code = ?
`

func (q *Queries) GetProductByCode(ctx context.Context, productCode string) (Product, error) {
	return scanProduct(q.db.QueryRowContext(ctx, getProductByCode, productCode))
}

const listFeaturedProducts = `-- name: ListFeaturedProducts :many
SELECT ` + productColumns + ` FROM products
WHERE featured = 1
ORDER BY created_at DESC
LIMIT ?
`

func (q *Queries) ListFeaturedProducts(ctx context.Context, limit int64) ([]Product, error) {
	return q.queryProducts(ctx, listFeaturedProducts, limit)
}

const listLatestProducts = `-- name: ListLatestProducts :many
SELECT ` + productColumns + ` FROM products
ORDER BY created_at DESC
LIMIT ?
`

func (q *Queries) ListLatestProducts(ctx context.Context, limit int64) ([]Product, error) {
	return q.queryProducts(ctx, listLatestProducts, limit)
}

const listProducts = `-- name: ListProducts :many
SELECT ` + productColumns + ` FROM products
WHERE (?1 = '' OR category = ?1)
  AND (?2 = 0 OR featured = 1)
ORDER BY created_at DESC
`

type ListProductsParams struct {
	Category     string
	FeaturedOnly bool
}

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]Product, error) {
	return q.queryProducts(ctx, listProducts, arg.Category, arg.FeaturedOnly)
}

const updateProduct = `-- name: UpdateProduct :exec
UPDATE products SET
    name_vi = ?,
    name_en = ?,
    name_ru = ?,
    category = ?,
    price = ?,
    stock = ?,
    unit = ?,
    image = ?,
    images = ?,
    description = ?,
    benefits = ?,
    featured = ?,
    updated_at = ?
WHERE id = ?
`

type UpdateProductParams struct {
	NameVi      string
	NameEn      string
	NameRu      sql.NullString
	Category    string
	Price       float64
	Stock       int64
	Unit        sql.NullString
	Image       string
	Images      StringList
	Description sql.NullString
	Benefits    StringList
	Featured    bool
	UpdatedAt   time.Time
	ID          string
}

func (q *Queries) UpdateProduct(ctx context.Context, arg UpdateProductParams) (Product, error) {
	_, err := q.db.ExecContext(ctx, updateProduct,
		arg.NameVi,
		arg.NameEn,
		arg.NameRu,
		arg.Category,
		arg.Price,
		arg.Stock,
		arg.Unit,
		arg.Image,
		arg.Images,
		arg.Description,
		arg.Benefits,
		arg.Featured,
		arg.UpdatedAt,
		arg.ID,
	)
	if err != nil {
		return Product{}, err
	}
	return q.GetProduct(ctx, arg.ID)
}
