// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package product

import (
	"fmt"
	"time"

	stdctx "context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/database/schema"
	"github.com/codelearn/codelearn-api/internal/platform/dberr"
	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # Product Repository

// PostgresProductRepository implements the ProductRepository interface using pgx.
type PostgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewProductRepository creates a new PostgreSQL implementation of the ProductRepository.
func NewProductRepository(pool *pgxpool.Pool) *PostgresProductRepository {
	return &PostgresProductRepository{pool: pool}
}

/*
Create persists a new product record into the catalog.product table.

Parameters:
  - context: context.Context
  - product: *Product (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate slug, or connectivity errors
*/
func (repository *PostgresProductRepository) Create(context stdctx.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, slug, description, price, stock, category, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		schema.CatalogProduct.Table,
	)

	now := time.Now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Product")
	}

	return nil
}

/*
FindByID retrieves a product record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Product: Hydrated catalog entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresProductRepository) FindByID(context stdctx.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, description, price, stock, category, createdat, updatedat
		FROM %s
		WHERE id = $1`,
		schema.CatalogProduct.Table,
	)

	product := &Product{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Product")
	}

	return product, nil
}

/*
FindBySlug retrieves a product record by its unique URL slug.

Parameters:
  - context: context.Context
  - slug: string

Returns:
  - *Product: Hydrated catalog entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresProductRepository) FindBySlug(context stdctx.Context, slug string) (*Product, error) {
	query := fmt.Sprintf(`
		SELECT id, name, slug, description, price, stock, category, createdat, updatedat
		FROM %s
		WHERE slug = $1`,
		schema.CatalogProduct.Table,
	)

	product := &Product{}
	err := repository.pool.QueryRow(context, query, slug).Scan(
		&product.ID,
		&product.Name,
		&product.Slug,
		&product.Description,
		&product.Price,
		&product.Stock,
		&product.Category,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "Product")
	}

	return product, nil
}

/*
List returns one page of products ordered by creation time, newest first.

Description: An empty category matches every product; otherwise rows are
filtered to the exact category value.

Parameters:
  - context: context.Context
  - category: string (Optional exact-match filter)
  - params: pagination.Params

Returns:
  - []*Product: One page of products
  - int: Total row count across all pages
  - error: Execution errors
*/
func (repository *PostgresProductRepository) List(context stdctx.Context, category string, params pagination.Params) ([]*Product, int, error) {
	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE ($1 = '' OR category = $1)`,
		schema.CatalogProduct.Table,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, category).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Product")
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, description, price, stock, category, createdat, updatedat
		FROM %s
		WHERE ($1 = '' OR category = $1)
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`,
		schema.CatalogProduct.Table,
	)

	rows, err := repository.pool.Query(context, query, category, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Product")
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

/*
Search returns one page of products whose name or description contains the
keyword, case-insensitively.

Parameters:
  - context: context.Context
  - keyword: string (Substring to match)
  - params: pagination.Params

Returns:
  - []*Product: One page of matching products
  - int: Total match count across all pages
  - error: Execution errors
*/
func (repository *PostgresProductRepository) Search(context stdctx.Context, keyword string, params pagination.Params) ([]*Product, int, error) {
	pattern := "%" + keyword + "%"

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE name ILIKE $1 OR description ILIKE $1`,
		schema.CatalogProduct.Table,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "Product")
	}

	query := fmt.Sprintf(`
		SELECT id, name, slug, description, price, stock, category, createdat, updatedat
		FROM %s
		WHERE name ILIKE $1 OR description ILIKE $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`,
		schema.CatalogProduct.Table,
	)

	rows, err := repository.pool.Query(context, query, pattern, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Product")
	}
	defer rows.Close()

	products, err := scanProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

/*
Update persists changes to a product's mutable fields.

Parameters:
  - context: context.Context
  - product: *Product

Returns:
  - error: apperr.NotFound when the row is gone, apperr.Conflict on duplicate slug
*/
func (repository *PostgresProductRepository) Update(context stdctx.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $2, slug = $3, description = $4, price = $5, stock = $6, category = $7, updatedat = $8
		WHERE id = $1`,
		schema.CatalogProduct.Table,
	)

	product.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		product.ID,
		product.Name,
		product.Slug,
		product.Description,
		product.Price,
		product.Stock,
		product.Category,
		product.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "Product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

/*
Delete permanently removes a product.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresProductRepository) Delete(context stdctx.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", schema.CatalogProduct.Table)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "Product")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Product")
	}

	return nil
}

// scanProducts drains a result set of full catalog rows.
func scanProducts(rows pgx.Rows) ([]*Product, error) {
	products := make([]*Product, 0)
	for rows.Next() {
		product := &Product{}
		err := rows.Scan(
			&product.ID,
			&product.Name,
			&product.Slug,
			&product.Description,
			&product.Price,
			&product.Stock,
			&product.Category,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "Product")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "Product")
	}

	return products, nil
}
