// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package product

import (
	"context"
	"fmt"
	"time"

	"github.com/codelearn/codelearn-api/internal/platform/cache"
	"github.com/codelearn/codelearn-api/internal/platform/constants"
	"github.com/codelearn/codelearn-api/pkg/pagination"
	"github.com/codelearn/codelearn-api/pkg/slug"
	"github.com/codelearn/codelearn-api/pkg/uuidv7"
)

// # Definitions & Constructors

// Service implements catalog use cases with cached browse reads.
//
// The eviction policy mirrors the user management layer: membership changes
// (create, delete) drop the whole "products:" namespace, while in-place
// updates drop only the affected single-entity entries.
type Service struct {
	productRepository ProductRepository
	cacheStore        cache.Store
	cacheTTL          time.Duration
}

// NewService constructs the catalog service.
func NewService(productRepository ProductRepository, cacheStore cache.Store, cacheTTL time.Duration) *Service {
	return &Service{
		productRepository: productRepository,
		cacheStore:        cacheStore,
		cacheTTL:          cacheTTL,
	}
}

// ProductPage bundles one page of products with its total count so the pair
// can be cached as a single entry.
type ProductPage struct {
	Products []*Product `json:"products"`
	Total    int        `json:"total"`
}

// # Cache Keys

func keyByID(id string) string {
	return constants.CachePrefixProducts + "id:" + id
}

func keyBySlug(productSlug string) string {
	return constants.CachePrefixProducts + "slug:" + productSlug
}

func keyPage(category string, params pagination.Params) string {
	return fmt.Sprintf("%sall:c%s:p%d:l%d", constants.CachePrefixProducts, category, params.Page, params.Limit)
}

// # Read Path

/*
GetByID returns a single product through the cache.

Description: Cache-aside read keyed by "products:id:<id>".

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - *Product: Hydrated catalog entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetByID(ctx context.Context, id string) (*Product, error) {
	return cache.ReadThrough(ctx, service.cacheStore, keyByID(id), service.cacheTTL,
		func(ctx context.Context) (*Product, error) {
			return service.productRepository.FindByID(ctx, id)
		},
	)
}

/*
GetBySlug returns a single product through the cache.

Description: Cache-aside read keyed by "products:slug:<slug>". Used by the
public storefront URLs.

Parameters:
  - ctx: context.Context
  - productSlug: string

Returns:
  - *Product: Hydrated catalog entity
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetBySlug(ctx context.Context, productSlug string) (*Product, error) {
	return cache.ReadThrough(ctx, service.cacheStore, keyBySlug(productSlug), service.cacheTTL,
		func(ctx context.Context) (*Product, error) {
			return service.productRepository.FindBySlug(ctx, productSlug)
		},
	)
}

/*
List returns one page of products through the cache.

Description: Cache-aside read keyed by "products:all:c<category>:p<page>:l<limit>";
each category/page shape is its own entry.

Parameters:
  - ctx: context.Context
  - category: string (Optional exact-match filter; empty matches all)
  - params: pagination.Params

Returns:
  - []*Product: One page of products
  - int: Total row count
  - error: Storage errors
*/
func (service *Service) List(ctx context.Context, category string, params pagination.Params) ([]*Product, int, error) {
	page, err := cache.ReadThrough(ctx, service.cacheStore, keyPage(category, params), service.cacheTTL,
		func(ctx context.Context) (*ProductPage, error) {
			products, total, err := service.productRepository.List(ctx, category, params)
			if err != nil {
				return nil, err
			}
			return &ProductPage{Products: products, Total: total}, nil
		},
	)
	if err != nil {
		return nil, 0, err
	}

	return page.Products, page.Total, nil
}

/*
Search returns one page of products matching a keyword.

Description: Keyword reads hit the store directly; their key space is
unbounded, so caching them would dilute the namespace without a useful hit
rate.

Parameters:
  - context: context.Context
  - keyword: string
  - params: pagination.Params

Returns:
  - []*Product: One page of matches
  - int: Total match count
  - error: Storage errors
*/
func (service *Service) Search(context context.Context, keyword string, params pagination.Params) ([]*Product, int, error) {
	return service.productRepository.Search(context, keyword, params)
}

// # Write Path

// CreateInput holds the data for a new catalog entry.
type CreateInput struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

/*
Create adds a new product to the catalog.

Description: Derives the URL slug from the name and persists the row.
Membership changed, so the whole products namespace is evicted.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *Product: Created catalog entity
  - error: apperr.Conflict on duplicate slug, or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*Product, error) {
	product := &Product{
		ID:          uuidv7.New(),
		Name:        input.Name,
		Slug:        slug.From(input.Name),
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
	}

	if err := service.productRepository.Create(context, product); err != nil {
		return nil, err
	}

	cache.EvictPrefix(context, service.cacheStore, constants.CachePrefixProducts)
	return product, nil
}

// UpdateInput holds the mutable fields of a catalog entry. Nil fields keep
// their current value.
type UpdateInput struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
	Category    *string
}

/*
Update modifies an existing product.

Description: Loads the current row, applies the non-nil input fields, and
persists the result. Renaming regenerates the slug. The single-entity cache
entries (by ID and both the old and new slug) are evicted; list entries serve
their previous snapshot until the TTL lapses.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *Product: Updated catalog entity
  - error: apperr.NotFound, apperr.Conflict, or storage errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*Product, error) {
	product, err := service.productRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	previousSlug := product.Slug

	if input.Name != nil {
		product.Name = *input.Name
		product.Slug = slug.From(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.Category != nil {
		product.Category = *input.Category
	}

	if err := service.productRepository.Update(context, product); err != nil {
		return nil, err
	}

	cache.EvictKeys(context, service.cacheStore,
		keyByID(id),
		keyBySlug(previousSlug),
		keyBySlug(product.Slug),
	)

	return product, nil
}

/*
Delete removes a product permanently.

Description: Membership changed, so the whole products namespace is evicted.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.productRepository.Delete(context, id); err != nil {
		return err
	}

	cache.EvictPrefix(context, service.cacheStore, constants.CachePrefixProducts)
	return nil
}
