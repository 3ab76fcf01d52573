// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

// Package schema defines table and column identifiers for SQL construction.
//
// Centralizing identifiers here keeps hand-written queries in the repository
// layer free of string literals that silently drift from the migrations.
package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table     string
	ID        string
	Username  string
	Email     string
	Password  string
	Role      string
	Status    string
	CreatedAt string
	UpdatedAt string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:     "users.account",
	ID:        "id",
	Username:  "username",
	Email:     "email",
	Password:  "password",
	Role:      "role",
	Status:    "status",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Username, t.Email, t.Password, t.Role, t.Status, t.CreatedAt, t.UpdatedAt}
}
