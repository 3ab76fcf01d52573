// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package account_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelearn/codelearn-api/internal/platform/apperr"
	"github.com/codelearn/codelearn-api/internal/platform/cache"
	"github.com/codelearn/codelearn-api/internal/platform/sec"
	"github.com/codelearn/codelearn-api/internal/users/account"
	"github.com/codelearn/codelearn-api/internal/users/auth"
	"github.com/codelearn/codelearn-api/pkg/pagination"
)

// memStore is an in-memory cache.Store with fault injection for tests.
type memStore struct {
	entries map[string]string
	getErr  error
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]string)}
}

func (store *memStore) Get(ctx context.Context, key string) (string, error) {
	if store.getErr != nil {
		return "", store.getErr
	}
	value, ok := store.entries[key]
	if !ok {
		return "", cache.ErrMiss
	}
	return value, nil
}

func (store *memStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	store.entries[key] = value
	return nil
}

func (store *memStore) Delete(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(store.entries, key)
	}
	return nil
}

func (store *memStore) DeletePrefix(ctx context.Context, prefix string) error {
	for key := range store.entries {
		if strings.HasPrefix(key, prefix) {
			delete(store.entries, key)
		}
	}
	return nil
}

// countingRepository is an in-memory auth.UserRepository that counts reads so
// tests can observe which calls were answered by the cache.
type countingRepository struct {
	users map[string]*auth.User

	findByIDCalls       int
	findByUsernameCalls int
	listCalls           int
	listActiveCalls     int
}

func newCountingRepository() *countingRepository {
	return &countingRepository{users: make(map[string]*auth.User)}
}

func (repository *countingRepository) add(user *auth.User) {
	clone := *user
	repository.users[user.ID] = &clone
}

func (repository *countingRepository) FindByID(ctx context.Context, id string) (*auth.User, error) {
	repository.findByIDCalls++
	user, ok := repository.users[id]
	if !ok {
		return nil, apperr.NotFound("User")
	}
	clone := *user
	return &clone, nil
}

func (repository *countingRepository) FindByUsername(ctx context.Context, username string) (*auth.User, error) {
	repository.findByUsernameCalls++
	for _, user := range repository.users {
		if user.Username == username {
			clone := *user
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("User")
}

func (repository *countingRepository) List(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	repository.listCalls++
	users := make([]*auth.User, 0, len(repository.users))
	for _, user := range repository.users {
		clone := *user
		users = append(users, &clone)
	}
	return users, len(users), nil
}

func (repository *countingRepository) ListActive(ctx context.Context, params pagination.Params) ([]*auth.User, int, error) {
	repository.listActiveCalls++
	users := make([]*auth.User, 0, len(repository.users))
	for _, user := range repository.users {
		if user.Status != auth.StatusActive {
			continue
		}
		clone := *user
		users = append(users, &clone)
	}
	return users, len(users), nil
}

func (repository *countingRepository) Search(ctx context.Context, keyword string, params pagination.Params) ([]*auth.User, int, error) {
	matches := make([]*auth.User, 0)
	for _, user := range repository.users {
		if strings.Contains(user.Username, keyword) || strings.Contains(user.Email, keyword) {
			clone := *user
			matches = append(matches, &clone)
		}
	}
	return matches, len(matches), nil
}

func (repository *countingRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	for _, user := range repository.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (repository *countingRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	for _, user := range repository.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (repository *countingRepository) Create(ctx context.Context, user *auth.User) error {
	repository.add(user)
	return nil
}

func (repository *countingRepository) Update(ctx context.Context, user *auth.User) error {
	if _, ok := repository.users[user.ID]; !ok {
		return apperr.NotFound("User")
	}
	repository.add(user)
	return nil
}

func (repository *countingRepository) Delete(ctx context.Context, id string) error {
	if _, ok := repository.users[id]; !ok {
		return apperr.NotFound("User")
	}
	delete(repository.users, id)
	return nil
}

func (repository *countingRepository) SetStatus(ctx context.Context, id string, status auth.UserStatus) error {
	user, ok := repository.users[id]
	if !ok {
		return apperr.NotFound("User")
	}
	user.Status = status
	return nil
}

func (repository *countingRepository) Stats(ctx context.Context) (*auth.Stats, error) {
	return &auth.Stats{TotalUsers: len(repository.users)}, nil
}

func newTestService(t *testing.T) (*account.Service, *countingRepository, *memStore) {
	t.Helper()
	repository := newCountingRepository()
	store := newMemStore()
	return account.NewService(repository, store, 30*time.Minute), repository, store
}

func seedAccount(t *testing.T, repository *countingRepository, id, username string) *auth.User {
	t.Helper()

	user := &auth.User{
		ID:           id,
		Username:     username,
		Email:        username + "@codelearn.dev",
		PasswordHash: "$2a$10$not.a.real.hash.but.secret",
		Role:         sec.RoleUser,
		Status:       auth.StatusActive,
	}
	repository.add(user)
	return user
}

/*
TestService_GetByID verifies the cache-aside read: the first call hits the
repository and repopulates, later calls are served from the cache, and the
password hash never enters the cache.
*/
func TestService_GetByID(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	first, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Username)
	assert.Empty(t, first.PasswordHash)
	assert.Equal(t, 1, repository.findByIDCalls)

	// Cached entry must not contain the hash.
	cached, ok := store.entries["users:id:u1"]
	require.True(t, ok)
	assert.NotContains(t, cached, "$2a$10$")

	second, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, repository.findByIDCalls, "second read must be a cache hit")
}

/*
TestService_GetByID_Degraded verifies that a broken cache backend yields the
same result as a healthy one, just without the hit.
*/
func TestService_GetByID_Degraded(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	healthy, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)

	store.getErr = errors.New("connection refused")

	degraded, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, healthy, degraded)
	assert.Equal(t, 2, repository.findByIDCalls)
}

/*
TestService_GetByID_NotFound propagates the miss from the store of record.
*/
func TestService_GetByID_NotFound(t *testing.T) {
	service, _, store := newTestService(t)

	_, err := service.GetByID(context.Background(), "ghost")
	assert.True(t, apperr.IsNotFound(err))
	assert.Empty(t, store.entries, "a failed load must not be cached")
}

/*
TestService_GetByUsername verifies the username-keyed cache entry.
*/
func TestService_GetByUsername(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	user, err := service.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
	assert.Contains(t, store.entries, "users:username:alice")

	_, err = service.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, repository.findByUsernameCalls)
}

/*
TestService_List verifies that each page shape is cached as its own entry.
*/
func TestService_List(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")
	seedAccount(t, repository, "u2", "bob")

	users, total, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, 2, total)
	for _, user := range users {
		assert.Empty(t, user.PasswordHash)
	}
	assert.Contains(t, store.entries, "users:all:p1:l20")

	_, _, err = service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, repository.listCalls)

	// A different page shape is a different entry.
	_, _, err = service.List(context.Background(), pagination.Params{Page: 2, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, repository.listCalls)
	assert.Contains(t, store.entries, "users:all:p2:l20")
}

/*
TestService_ListActive verifies that the active-only listing filters out
disabled accounts and is cached under its own key space, separate from the
full listing.
*/
func TestService_ListActive(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")
	disabled := seedAccount(t, repository, "u2", "bob")
	disabled.Status = auth.StatusDisabled
	repository.add(disabled)

	users, total, err := service.ListActive(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "alice", users[0].Username)
	assert.Empty(t, users[0].PasswordHash)
	assert.Contains(t, store.entries, "users:active:p1:l20")
	assert.NotContains(t, store.entries, "users:all:p1:l20")

	_, _, err = service.ListActive(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 1, repository.listActiveCalls)
}

/*
TestService_Update_EvictsOnlyIDKey verifies the narrow eviction on update:
the id entry is dropped while username and list entries keep serving their
previous snapshot until the TTL lapses.
*/
func TestService_Update_EvictsOnlyIDKey(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	// Warm all three entry kinds.
	_, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	_, err = service.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	_, _, err = service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	updated, err := service.Update(context.Background(), "u1", account.UpdateInput{Email: "new@codelearn.dev"})
	require.NoError(t, err)
	assert.Equal(t, "new@codelearn.dev", updated.Email)

	assert.NotContains(t, store.entries, "users:id:u1")
	assert.Contains(t, store.entries, "users:username:alice")
	assert.Contains(t, store.entries, "users:all:p1:l20")

	// Stale window: the username entry still serves the old email.
	stale, err := service.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@codelearn.dev", stale.Email)

	// The id read reloads fresh data.
	fresh, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "new@codelearn.dev", fresh.Email)
}

/*
TestService_Create_EvictsNamespace verifies the wide eviction on membership
change.
*/
func TestService_Create_EvictsNamespace(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	_, _, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	_, err = service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, store.entries)

	created, err := service.Create(context.Background(), account.CreateInput{
		Username: "bob",
		Email:    "bob@codelearn.dev",
		Password: "secret123",
		Role:     sec.RoleAdmin,
	})
	require.NoError(t, err)
	assert.Equal(t, sec.RoleAdmin, created.Role)
	assert.Empty(t, created.PasswordHash)

	assert.Empty(t, store.entries, "create must drop the whole users namespace")

	// The next list sees the new member immediately.
	_, total, err := service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

/*
TestService_Create_Conflicts verifies identity conflicts for the admin path.
*/
func TestService_Create_Conflicts(t *testing.T) {
	service, repository, _ := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	_, err := service.Create(context.Background(), account.CreateInput{
		Username: "alice",
		Email:    "fresh@codelearn.dev",
		Password: "secret123",
	})
	assert.True(t, apperr.IsConflict(err))

	_, err = service.Create(context.Background(), account.CreateInput{
		Username: "fresh",
		Email:    "alice@codelearn.dev",
		Password: "secret123",
	})
	assert.True(t, apperr.IsConflict(err))
}

/*
TestService_Delete_EvictsNamespace verifies the wide eviction on removal.
*/
func TestService_Delete_EvictsNamespace(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	_, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotEmpty(t, store.entries)

	require.NoError(t, service.Delete(context.Background(), "u1"))
	assert.Empty(t, store.entries)

	_, err = service.GetByID(context.Background(), "u1")
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestService_SetStatus verifies the status flip and its narrow eviction.
*/
func TestService_SetStatus(t *testing.T) {
	service, repository, store := newTestService(t)
	seedAccount(t, repository, "u1", "alice")

	_, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	_, _, err = service.List(context.Background(), pagination.Params{Page: 1, Limit: 20})
	require.NoError(t, err)

	require.NoError(t, service.SetStatus(context.Background(), "u1", auth.StatusDisabled))

	assert.NotContains(t, store.entries, "users:id:u1")
	assert.Contains(t, store.entries, "users:all:p1:l20")

	fresh, err := service.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, auth.StatusDisabled, fresh.Status)

	assert.True(t, apperr.IsNotFound(service.SetStatus(context.Background(), "ghost", auth.StatusActive)))
}
