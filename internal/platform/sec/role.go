// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Full access to management endpoints
	RoleAdmin UserRole = "admin"

	// Default role for standard registered users
	RoleUser UserRole = "user"
)

// Valid reports whether the role is a known member of the enum.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// Is reports whether the role exactly matches the target role.
//
// # No Hierarchy
//
// Route requirements are exact declared matches: an admin does NOT implicitly
// satisfy a user-role requirement. Routes that should accept both roles
// declare authentication only, not a role.
func (r UserRole) Is(target UserRole) bool {
	return r == target
}
