// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

// Package bootstrap provisions initial data for fresh environments.
//
// Seeding runs once at startup when SEED_DATA is set, after migrations. Every
// insert is guarded by an existence check, so repeated startups are no-ops.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/codelearn/codelearn-api/internal/catalog/product"
	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/users/auth"
	"github.com/codelearn/codelearn-api/pkg/slug"
	"github.com/codelearn/codelearn-api/pkg/uuidv7"
)

type seedUser struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

type seedProduct struct {
	Name        string
	Description string
	Price       float64
	Stock       int
	Category    string
}

// Defaults for local development and demos. Production deployments run with
// SEED_DATA unset and manage accounts through the admin API.
var (
	seedUsers = []seedUser{
		{Username: "admin", Email: "admin@codelearn.dev", Password: "admin123", Role: sec.RoleAdmin},
		{Username: "student", Email: "student@codelearn.dev", Password: "student123", Role: sec.RoleUser},
	}

	seedProducts = []seedProduct{
		{Name: "Go Fundamentals", Description: "Introductory course covering syntax, tooling, and testing.", Price: 49.90, Stock: 100, Category: "course"},
		{Name: "Distributed Systems Workshop", Description: "Hands-on workshop on consensus, replication, and caching.", Price: 129.00, Stock: 25, Category: "workshop"},
		{Name: "SQL Deep Dive", Description: "Query planning, indexing, and transaction isolation in practice.", Price: 59.00, Stock: 80, Category: "course"},
	}
)

/*
Run provisions the default accounts and catalog entries.

Description: Inserts each seed row unless an equivalent row already exists.
Failures abort seeding; a partially seeded database is completed on the next
startup thanks to the per-row guards.

Parameters:
  - context: context.Context
  - users: auth.UserRepository
  - products: product.ProductRepository
  - logger: *slog.Logger

Returns:
  - error: The first guard or insert failure
*/
func Run(context context.Context, users auth.UserRepository, products product.ProductRepository, logger *slog.Logger) error {
	for _, seed := range seedUsers {
		exists, err := users.ExistsByUsername(context, seed.Username)
		if err != nil {
			return fmt.Errorf("bootstrap_user_guard_failed: %w", err)
		}
		if exists {
			continue
		}

		hashedPassword, err := sec.HashPassword(seed.Password)
		if err != nil {
			return fmt.Errorf("bootstrap_hash_failed: %w", err)
		}

		err = users.Create(context, &auth.User{
			ID:           uuidv7.New(),
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hashedPassword,
			Role:         seed.Role,
			Status:       auth.StatusActive,
		})
		if err != nil {
			// A concurrent replica may have won the insert race.
			if apperr.IsConflict(err) {
				continue
			}
			return fmt.Errorf("bootstrap_user_insert_failed: %w", err)
		}

		logger.Info("seeded_user", slog.String("username", seed.Username), slog.String("role", string(seed.Role)))
	}

	for _, seed := range seedProducts {
		productSlug := slug.From(seed.Name)

		_, err := products.FindBySlug(context, productSlug)
		if err == nil {
			continue
		}
		if !apperr.IsNotFound(err) {
			return fmt.Errorf("bootstrap_product_guard_failed: %w", err)
		}

		err = products.Create(context, &product.Product{
			ID:          uuidv7.New(),
			Name:        seed.Name,
			Slug:        productSlug,
			Description: seed.Description,
			Price:       seed.Price,
			Stock:       seed.Stock,
			Category:    seed.Category,
		})
		if err != nil {
			if apperr.IsConflict(err) {
				continue
			}
			return fmt.Errorf("bootstrap_product_insert_failed: %w", err)
		}

		logger.Info("seeded_product", slog.String("slug", productSlug))
	}

	return nil
}
