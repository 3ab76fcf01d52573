// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
Package auth implements the user identity layer: registration, credential
verification, and token issuance.

It defines the core domain entity (User) and the business rules around it.

# Architecture

This layer is the "Truth" of the system. Entities defined here have no external
dependencies and encapsulate all business rules related to user identity.
*/
package auth

import (
	"time"

	"github.com/codelearn/codelearn-api/internal/platform/sec"
)

// # Domain Entities

// UserStatus represents the lifecycle state of an account.
//
// A disabled account fails credential verification even with a correct
// password. Tokens issued before the account was disabled stay valid until
// their natural expiry (see the authentication middleware).
type UserStatus string

const (
	// StatusActive marks an account that may authenticate.
	StatusActive UserStatus = "active"

	// StatusDisabled marks an account that is locked out of login.
	StatusDisabled UserStatus = "disabled"
)

// User represents a registered member of the CodeLearn platform.
type User struct {
	ID           string       `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"` // Explicitly omitted from JSON for security.
	Role         sec.UserRole `json:"role"`
	Status       UserStatus   `json:"status"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsDisabled reports whether the account is locked out of authentication.
func (u *User) IsDisabled() bool {
	return u.Status == StatusDisabled
}

// Stats aggregates account counts for the management dashboard.
type Stats struct {
	TotalUsers  int `json:"total_users"`
	ActiveUsers int `json:"active_users"`
	AdminUsers  int `json:"admin_users"`
}

// # Field Identifiers

// Global field names for validation and identity mapping in the authentication domain.
const (
	FieldUsername    = "username"
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldRole        = "role"
	FieldToken       = "token"
	FieldAccessToken = "access_token"
	FieldTokenType   = "token_type"
	FieldExpiresIn   = "expires_in"
	FieldUser        = "user"
	FieldMessage     = "message"
)
