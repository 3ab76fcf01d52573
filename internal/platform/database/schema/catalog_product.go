// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package schema

// CatalogProductTable represents the 'catalog.product' table
type CatalogProductTable struct {
	Table       string
	ID          string
	Name        string
	Slug        string
	Description string
	Price       string
	Stock       string
	Category    string
	CreatedAt   string
	UpdatedAt   string
}

// CatalogProduct is the schema definition for catalog.product
var CatalogProduct = CatalogProductTable{
	Table:       "catalog.product",
	ID:          "id",
	Name:        "name",
	Slug:        "slug",
	Description: "description",
	Price:       "price",
	Stock:       "stock",
	Category:    "category",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

func (t CatalogProductTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Description, t.Price, t.Stock, t.Category, t.CreatedAt, t.UpdatedAt}
}
