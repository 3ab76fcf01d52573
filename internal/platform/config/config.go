// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the CodeLearn API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// CacheTTL is the lifetime of cache-aside entries.
	CacheTTL time.Duration `env:"CACHE_TTL" envDefault:"30m"`

	// JWTSecret is the process-wide HMAC signing key. Loaded once, never mutated.
	JWTSecret string `env:"JWT_SECRET,required"`

	// JWTTTL is the fixed lifetime of issued access tokens.
	JWTTTL time.Duration `env:"JWT_TTL" envDefault:"24h"`

	// PublicPathPrefixes lists path prefixes that bypass token extraction
	// entirely. Requests under these prefixes are always anonymous.
	PublicPathPrefixes []string `env:"PUBLIC_PATH_PREFIXES" envSeparator:"," envDefault:"/health,/ready,/api/v1/auth/login,/api/v1/auth/register,/api/v1/auth/validate"`

	// SeedData enables idempotent bootstrap of demo accounts and products.
	SeedData bool `env:"SEED_DATA" envDefault:"false"`

	// ExtraOrigins lists additional exact origins allowed by CORS in
	// production, beyond the codelearn.dev domain.
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra exact origins permitted by CORS.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}
