// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
Package product implements the course-material catalog: creation, updates, and
cached browse reads.

Reads go through the cache-aside decorator with keys under the "products:"
namespace, mirroring the user management layer. Writes go straight to
PostgreSQL and evict the affected entries.
*/
package product

import (
	"time"
)

// # Domain Entities

// Product represents a purchasable item in the CodeLearn catalog.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Category    string    `json:"category"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// InStock reports whether the product can currently be ordered.
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// # Field Identifiers

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldPrice       = "price"
	FieldStock       = "stock"
	FieldCategory    = "category"
)
