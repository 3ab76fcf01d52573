// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package product

import (
	"context"

	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # Repository Contract

/*
ProductRepository defines the persistence operations of the catalog.

Implementations must translate driver errors into application errors (see the
dberr package) so callers never see raw database failures.
*/
type ProductRepository interface {
	// FindByID returns the product with the given identifier.
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindBySlug returns the product with the given URL slug.
	FindBySlug(ctx context.Context, slug string) (*Product, error)

	// List returns one page of products ordered by creation time, newest
	// first, together with the total row count. An empty category matches
	// every product.
	List(ctx context.Context, category string, params pagination.Params) ([]*Product, int, error)

	// Search returns one page of products whose name or description contains
	// the keyword, case-insensitively, together with the total match count.
	Search(ctx context.Context, keyword string, params pagination.Params) ([]*Product, int, error)

	// Create persists a new product row.
	Create(ctx context.Context, product *Product) error

	// Update persists mutable fields of an existing product.
	Update(ctx context.Context, product *Product) error

	// Delete removes the product row permanently.
	Delete(ctx context.Context, id string) error
}
