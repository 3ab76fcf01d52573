// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
Package account implements administrative user management on top of the
identity layer.

Reads go through the cache-aside decorator with keys under the "users:"
namespace; writes go straight to PostgreSQL and evict the affected entries.

# Eviction Policy

  - Create / Delete: the whole "users:" namespace is dropped, since list and
    aggregate entries all changed membership.
  - Update / status flips: only the "users:id:<id>" entry is dropped. List
    entries keep serving the previous snapshot until their TTL lapses.
*/
package account

import (
	"context"
	"fmt"
	"time"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/cache"
	"github.com/codelearn/codelearn-api/internal/platform/constants"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/users/auth"
	"github.com/codelearn/codelearn-api/pkg/pagination"
	"github.com/codelearn/codelearn-api/pkg/uuidv7"
)

// # Definitions & Constructors

// Service implements user management use cases for administrators.
type Service struct {
	userRepository auth.UserRepository
	cacheStore     cache.Store
	cacheTTL       time.Duration
}

// NewService constructs the account management service.
func NewService(userRepository auth.UserRepository, cacheStore cache.Store, cacheTTL time.Duration) *Service {
	return &Service{
		userRepository: userRepository,
		cacheStore:     cacheStore,
		cacheTTL:       cacheTTL,
	}
}

// UserPage bundles one page of accounts with its total count so the pair can
// be cached as a single entry.
type UserPage struct {
	Users []*auth.User `json:"users"`
	Total int          `json:"total"`
}

// # Cache Keys

func keyByID(id string) string {
	return constants.CachePrefixUsers + "id:" + id
}

func keyByUsername(username string) string {
	return constants.CachePrefixUsers + "username:" + username
}

func keyPage(params pagination.Params) string {
	return fmt.Sprintf("%sall:p%d:l%d", constants.CachePrefixUsers, params.Page, params.Limit)
}

func keyActivePage(params pagination.Params) string {
	return fmt.Sprintf("%sactive:p%d:l%d", constants.CachePrefixUsers, params.Page, params.Limit)
}

// # Read Path

/*
GetByID returns a single account through the cache.

Description: Cache-aside read keyed by "users:id:<id>". The password hash is
stripped before the entry is cached, so a cache hit and a direct store read
produce identical values.

Parameters:
  - ctx: context.Context
  - id: string

Returns:
  - *auth.User: Hydrated account, password hash cleared
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetByID(ctx context.Context, id string) (*auth.User, error) {
	return cache.ReadThrough(ctx, service.cacheStore, keyByID(id), service.cacheTTL,
		func(ctx context.Context) (*auth.User, error) {
			user, err := service.userRepository.FindByID(ctx, id)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = ""
			return user, nil
		},
	)
}

/*
GetByUsername returns a single account through the cache.

Description: Cache-aside read keyed by "users:username:<name>".

Parameters:
  - ctx: context.Context
  - username: string

Returns:
  - *auth.User: Hydrated account, password hash cleared
  - error: apperr.NotFound or storage errors
*/
func (service *Service) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return cache.ReadThrough(ctx, service.cacheStore, keyByUsername(username), service.cacheTTL,
		func(ctx context.Context) (*auth.User, error) {
			user, err := service.userRepository.FindByUsername(ctx, username)
			if err != nil {
				return nil, err
			}
			user.PasswordHash = ""
			return user, nil
		},
	)
}

/*
List returns one page of accounts through the cache.

Description: Cache-aside read keyed by "users:all:p<page>:l<limit>"; each page
shape is its own entry. The page and its total count are cached together.

Parameters:
  - ctx: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: One page of accounts, password hashes cleared
  - int: Total row count
  - error: Storage errors
*/
func (service *Service) List(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	page, err := cache.ReadThrough(ctx, service.cacheStore, keyPage(params), service.cacheTTL,
		func(ctx context.Context) (*UserPage, error) {
			users, total, err := service.userRepository.List(ctx, params)
			if err != nil {
				return nil, err
			}
			for _, user := range users {
				user.PasswordHash = ""
			}
			return &UserPage{Users: users, Total: total}, nil
		},
	)
	if err != nil {
		return nil, 0, err
	}

	return page.Users, page.Total, nil
}

/*
ListActive returns one page of active accounts through the cache.

Description: Cache-aside read keyed by "users:active:p<page>:l<limit>".
Status flips evict only the id key, so an active page may keep serving a
just-disabled account until its TTL lapses.

Parameters:
  - ctx: context.Context
  - params: pagination.Params

Returns:
  - []*auth.User: One page of active accounts, password hashes cleared
  - int: Total active count
  - error: Storage errors
*/
func (service *Service) ListActive(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	page, err := cache.ReadThrough(ctx, service.cacheStore, keyActivePage(params), service.cacheTTL,
		func(ctx context.Context) (*UserPage, error) {
			users, total, err := service.userRepository.ListActive(ctx, params)
			if err != nil {
				return nil, err
			}
			for _, user := range users {
				user.PasswordHash = ""
			}
			return &UserPage{Users: users, Total: total}, nil
		},
	)
	if err != nil {
		return nil, 0, err
	}

	return page.Users, page.Total, nil
}

/*
Search returns one page of accounts matching a keyword.

Description: Keyword reads hit the store directly; their key space is
unbounded, so caching them would dilute the namespace without a useful hit
rate.

Parameters:
  - context: context.Context
  - keyword: string
  - params: pagination.Params

Returns:
  - []*auth.User: One page of matches, password hashes cleared
  - int: Total match count
  - error: Storage errors
*/
func (service *Service) Search(context context.Context, keyword string, params pagination.Params) ([]*auth.User, int, error) {
	users, total, err := service.userRepository.Search(context, keyword, params)
	if err != nil {
		return nil, 0, err
	}

	for _, user := range users {
		user.PasswordHash = ""
	}

	return users, total, nil
}

/*
Stats returns aggregate account counts.

Description: Dashboard read served directly from the store; the counts change
with every registration and are cheap to compute.

Parameters:
  - context: context.Context

Returns:
  - *auth.Stats: Aggregate counts
  - error: Storage errors
*/
func (service *Service) Stats(context context.Context) (*auth.Stats, error) {
	return service.userRepository.Stats(context)
}

// # Write Path

// CreateInput holds the data for an administratively created account.
type CreateInput struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

/*
Create provisions a new account with an explicit role.

Description: Administrative variant of registration; the caller chooses the
role. Membership changed, so the whole users namespace is evicted.

Parameters:
  - context: context.Context
  - input: CreateInput

Returns:
  - *auth.User: Created account, password hash cleared
  - error: apperr.Conflict on duplicate identity, or storage errors
*/
func (service *Service) Create(context context.Context, input CreateInput) (*auth.User, error) {
	taken, err := service.userRepository.ExistsByUsername(context, input.Username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Username is already taken")
	}

	taken, err = service.userRepository.ExistsByEmail(context, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.Conflict("Email is already registered")
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("account_service_hash_failed: %w", err)
	}

	role := input.Role
	if !role.Valid() {
		role = sec.RoleUser
	}

	user := &auth.User{
		ID:           uuidv7.New(),
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
		Role:         role,
		Status:       auth.StatusActive,
	}

	if err := service.userRepository.Create(context, user); err != nil {
		return nil, err
	}

	cache.EvictPrefix(context, service.cacheStore, constants.CachePrefixUsers)

	user.PasswordHash = ""
	return user, nil
}

// UpdateInput holds the mutable profile fields of an account. Empty fields
// keep their current value.
type UpdateInput struct {
	Username string
	Email    string
	Password string
	Role     sec.UserRole
}

/*
Update modifies an existing account's profile.

Description: Loads the current row, applies the non-empty input fields, and
persists the result. Only the "users:id:<id>" cache entry is evicted; list and
username entries serve their previous snapshot until the TTL lapses.

Parameters:
  - context: context.Context
  - id: string
  - input: UpdateInput

Returns:
  - *auth.User: Updated account, password hash cleared
  - error: apperr.NotFound, apperr.Conflict, or storage errors
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*auth.User, error) {
	user, err := service.userRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Role != "" && input.Role.Valid() {
		user.Role = input.Role
	}
	if input.Password != "" {
		hashedPassword, err := sec.HashPassword(input.Password)
		if err != nil {
			return nil, fmt.Errorf("account_service_hash_failed: %w", err)
		}
		user.PasswordHash = hashedPassword
	}

	if err := service.userRepository.Update(context, user); err != nil {
		return nil, err
	}

	cache.EvictKeys(context, service.cacheStore, keyByID(id))

	user.PasswordHash = ""
	return user, nil
}

/*
Delete removes an account permanently.

Description: Membership changed, so the whole users namespace is evicted.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) Delete(context context.Context, id string) error {
	if err := service.userRepository.Delete(context, id); err != nil {
		return err
	}

	cache.EvictPrefix(context, service.cacheStore, constants.CachePrefixUsers)
	return nil
}

/*
SetStatus enables or disables an account.

Description: Flips the lifecycle flag. Already-issued tokens for a disabled
account remain valid until expiry; the flag only blocks future logins. Only
the "users:id:<id>" cache entry is evicted.

Parameters:
  - context: context.Context
  - id: string
  - status: auth.UserStatus

Returns:
  - error: apperr.NotFound or storage errors
*/
func (service *Service) SetStatus(context context.Context, id string, status auth.UserStatus) error {
	if err := service.userRepository.SetStatus(context, id, status); err != nil {
		return err
	}

	cache.EvictKeys(context, service.cacheStore, keyByID(id))
	return nil
}
