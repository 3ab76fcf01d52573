// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package auth

import (
	"fmt"
	"time"

	stdctx "context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/database/schema"
	"github.com/codelearn/codelearn-api/internal/platform/dberr"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// # User Repository

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// Driver errors are mapped to domain-friendly application errors via the
// dberr package so callers never see storage implementation details.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

/*
Create persists a new user record into the users.account table.

Description: Inserts the full account row, initializing timestamps when the
caller left them zero. Unique constraint violations on username or email are
surfaced as conflict errors.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: apperr.Conflict on duplicate username or email, or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context stdctx.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, username, email, password, role, status, createdat, updatedat)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserAccount.Table,
	)

	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}

	return nil
}

/*
FindByID retrieves a user record by their unique ID.

Description: Primary key resolution for user accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context stdctx.Context, id string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password, role, status, createdat, updatedat
		FROM %s
		WHERE id = $1`,
		schema.UserAccount.Table,
	)

	user := &User{}
	err := repository.pool.QueryRow(context, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
FindByUsername retrieves a user record by their unique username.

Description: Standard lookup by username for authentication and profile resolution.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - *User: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByUsername(context stdctx.Context, username string) (*User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password, role, status, createdat, updatedat
		FROM %s
		WHERE username = $1`,
		schema.UserAccount.Table,
	)

	user := &User{}
	err := repository.pool.QueryRow(context, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Status,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return user, nil
}

/*
List returns one page of user accounts ordered by creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*User: One page of accounts
  - int: Total row count across all pages
  - error: Execution errors
*/
func (repository *PostgresUserRepository) List(context stdctx.Context, params pagination.Params) ([]*User, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s", schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, password, role, status, createdat, updatedat
		FROM %s
		ORDER BY createdat DESC
		LIMIT $1 OFFSET $2`,
		schema.UserAccount.Table,
	)

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

/*
ListActive returns one page of accounts whose status is active, ordered by
creation time, newest first.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*User: One page of active accounts
  - int: Total active count across all pages
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ListActive(context stdctx.Context, params pagination.Params) ([]*User, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE status = $1", schema.UserAccount.Table)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, StatusActive).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, password, role, status, createdat, updatedat
		FROM %s
		WHERE status = $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`,
		schema.UserAccount.Table,
	)

	rows, err := repository.pool.Query(context, query, StatusActive, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

/*
Search returns one page of user accounts whose username or email contains the
keyword, case-insensitively.

Parameters:
  - context: context.Context
  - keyword: string (Substring to match)
  - params: pagination.Params

Returns:
  - []*User: One page of matching accounts
  - int: Total match count across all pages
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Search(context stdctx.Context, keyword string, params pagination.Params) ([]*User, int, error) {
	pattern := "%" + keyword + "%"

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE username ILIKE $1 OR email ILIKE $1`,
		schema.UserAccount.Table,
	)

	var total int
	if err := repository.pool.QueryRow(context, countQuery, pattern).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}

	query := fmt.Sprintf(`
		SELECT id, username, email, password, role, status, createdat, updatedat
		FROM %s
		WHERE username ILIKE $1 OR email ILIKE $1
		ORDER BY createdat DESC
		LIMIT $2 OFFSET $3`,
		schema.UserAccount.Table,
	)

	rows, err := repository.pool.Query(context, query, pattern, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "User")
	}
	defer rows.Close()

	users, err := scanUsers(rows)
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

/*
ExistsByUsername reports whether any account already holds the username.

Parameters:
  - context: context.Context
  - username: string

Returns:
  - bool: True when a matching row exists
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ExistsByUsername(context stdctx.Context, username string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE username = $1)", schema.UserAccount.Table)

	var exists bool
	if err := repository.pool.QueryRow(context, query, username).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "User")
	}

	return exists, nil
}

/*
ExistsByEmail reports whether any account already holds the email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - bool: True when a matching row exists
  - error: Execution errors
*/
func (repository *PostgresUserRepository) ExistsByEmail(context stdctx.Context, email string) (bool, error) {
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s WHERE email = $1)", schema.UserAccount.Table)

	var exists bool
	if err := repository.pool.QueryRow(context, query, email).Scan(&exists); err != nil {
		return false, dberr.Wrap(err, "User")
	}

	return exists, nil
}

/*
Update persists changes to a user's mutable profile fields.

Description: Synchronizes the in-memory user state with the database,
refreshing the updatedat timestamp. The password hash is written as-is, so the
caller must carry the existing hash forward when the password is unchanged.

Parameters:
  - context: context.Context
  - user: *User

Returns:
  - error: apperr.NotFound when the row is gone, apperr.Conflict on duplicates
*/
func (repository *PostgresUserRepository) Update(context stdctx.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET username = $2, email = $3, password = $4, role = $5, status = $6, updatedat = $7
		WHERE id = $1`,
		schema.UserAccount.Table,
	)

	user.UpdatedAt = time.Now()
	tag, err := repository.pool.Exec(context, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Status,
		user.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Delete permanently removes a user account.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresUserRepository) Delete(context stdctx.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE id = $1", schema.UserAccount.Table)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
SetStatus flips the lifecycle state of an account.

Parameters:
  - context: context.Context
  - id: string
  - status: UserStatus (active or disabled)

Returns:
  - error: apperr.NotFound when no row matched, or execution errors
*/
func (repository *PostgresUserRepository) SetStatus(context stdctx.Context, id string, status UserStatus) error {
	query := fmt.Sprintf("UPDATE %s SET status = $2, updatedat = $3 WHERE id = $1", schema.UserAccount.Table)

	tag, err := repository.pool.Exec(context, query, id, status, time.Now())
	if err != nil {
		return dberr.Wrap(err, "User")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

/*
Stats returns aggregate account counts for the management dashboard.

Parameters:
  - context: context.Context

Returns:
  - *Stats: Total, active, and admin account counts
  - error: Execution errors
*/
func (repository *PostgresUserRepository) Stats(context stdctx.Context) (*Stats, error) {
	query := fmt.Sprintf(`
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = $1),
			COUNT(*) FILTER (WHERE role = $2)
		FROM %s`,
		schema.UserAccount.Table,
	)

	stats := &Stats{}
	err := repository.pool.QueryRow(context, query, StatusActive, sec.RoleAdmin).Scan(
		&stats.TotalUsers,
		&stats.ActiveUsers,
		&stats.AdminUsers,
	)

	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return stats, nil
}

// scanUsers drains a result set of full account rows.
func scanUsers(rows pgx.Rows) ([]*User, error) {
	users := make([]*User, 0)
	for rows.Next() {
		user := &User{}
		err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Email,
			&user.PasswordHash,
			&user.Role,
			&user.Status,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, dberr.Wrap(err, "User")
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "User")
	}

	return users, nil
}
