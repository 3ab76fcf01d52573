// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package auth

import (
	"context"

	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # Repository Contract

/*
UserRepository defines the persistence operations required by the identity and
account-management layers.

Implementations must translate driver errors into application errors (see the
dberr package) so callers never see raw database failures.
*/
type UserRepository interface {
	// FindByID returns the user with the given identifier.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByUsername returns the user with the given username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List returns one page of users ordered by creation time, newest first,
	// together with the total row count.
	List(ctx context.Context, params pagination.Params) ([]*User, int, error)

	// ListActive returns one page of users whose status is active, ordered by
	// creation time, newest first, together with the total active count.
	ListActive(ctx context.Context, params pagination.Params) ([]*User, int, error)

	// Search returns one page of users whose username or email contains the
	// keyword, case-insensitively, together with the total match count.
	Search(ctx context.Context, keyword string, params pagination.Params) ([]*User, int, error)

	// ExistsByUsername reports whether any account holds the username.
	ExistsByUsername(ctx context.Context, username string) (bool, error)

	// ExistsByEmail reports whether any account holds the email address.
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// Create persists a new user row.
	Create(ctx context.Context, user *User) error

	// Update persists mutable profile fields of an existing user.
	Update(ctx context.Context, user *User) error

	// Delete removes the user row permanently.
	Delete(ctx context.Context, id string) error

	// SetStatus flips the account lifecycle state.
	SetStatus(ctx context.Context, id string, status UserStatus) error

	// Stats returns aggregate account counts.
	Stats(ctx context.Context) (*Stats, error)
}
