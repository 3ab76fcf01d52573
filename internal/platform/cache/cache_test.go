// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package cache_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codelearn/codelearn-api/internal/platform/cache"
)

// memStore is an in-memory cache.Store with fault injection for tests.
type memStore struct {
	entries map[string]string
	getErr  error
	setErr  error
	delErr  error

	gets int
	sets int
}

func newMemStore() *memStore {
	return &memStore{entries: make(map[string]string)}
}

func (store *memStore) Get(ctx context.Context, key string) (string, error) {
	store.gets++
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
	store.sets++
	if store.setErr != nil {
		return store.setErr
	}
	store.entries[key] = value
	return nil
}

func (store *memStore) Delete(ctx context.Context, keys ...string) error {
	if store.delErr != nil {
		return store.delErr
	}
	for _, key := range keys {
		delete(store.entries, key)
	}
	return nil
}

func (store *memStore) DeletePrefix(ctx context.Context, prefix string) error {
	if store.delErr != nil {
		return store.delErr
	}
	for key := range store.entries {
		if strings.HasPrefix(key, prefix) {
			delete(store.entries, key)
		}
	}
	return nil
}

type account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

/*
TestReadThrough_MissThenHit verifies the canonical cache-aside flow: the first
read loads from the store of record and repopulates, the second is served
entirely from the cache.
*/
func TestReadThrough_MissThenHit(t *testing.T) {
	store := newMemStore()
	loads := 0

	loader := func(ctx context.Context) (*account, error) {
		loads++
		return &account{ID: "u1", Name: "alice"}, nil
	}

	first, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "alice", first.Name)
	assert.Equal(t, 1, loads)
	assert.Contains(t, store.entries, "users:id:u1")

	second, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, loads, "second read must not touch the loader")
}

/*
TestReadThrough_BackendFailure verifies degradation: a failing cache backend
falls through to the loader and the caller sees an identical result.
*/
func TestReadThrough_BackendFailure(t *testing.T) {
	store := newMemStore()
	store.getErr = errors.New("connection refused")

	loader := func(ctx context.Context) (*account, error) {
		return &account{ID: "u1", Name: "alice"}, nil
	}

	value, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute, loader)
	require.NoError(t, err)
	assert.Equal(t, "alice", value.Name)

	// Degraded reads do not attempt a write-back for that call.
	assert.Zero(t, store.sets)
}

/*
TestReadThrough_LoaderError verifies that only loader errors propagate.
*/
func TestReadThrough_LoaderError(t *testing.T) {
	store := newMemStore()
	wantErr := errors.New("row not found")

	_, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute,
		func(ctx context.Context) (*account, error) {
			return nil, wantErr
		},
	)

	assert.ErrorIs(t, err, wantErr)
	assert.Empty(t, store.entries, "a failed load must not be cached")
}

/*
TestReadThrough_SetFailureIsSwallowed verifies that a failing repopulation
never surfaces to the caller.
*/
func TestReadThrough_SetFailureIsSwallowed(t *testing.T) {
	store := newMemStore()
	store.setErr = errors.New("OOM command not allowed")

	value, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute,
		func(ctx context.Context) (*account, error) {
			return &account{ID: "u1", Name: "alice"}, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "alice", value.Name)
}

/*
TestReadThrough_CorruptEntry verifies that undecodable cached bytes are
treated as a miss and repaired from the store of record.
*/
func TestReadThrough_CorruptEntry(t *testing.T) {
	store := newMemStore()
	store.entries["users:id:u1"] = "{not json"

	loads := 0
	value, err := cache.ReadThrough(context.Background(), store, "users:id:u1", time.Minute,
		func(ctx context.Context) (*account, error) {
			loads++
			return &account{ID: "u1", Name: "alice"}, nil
		},
	)

	require.NoError(t, err)
	assert.Equal(t, "alice", value.Name)
	assert.Equal(t, 1, loads)
	assert.JSONEq(t, `{"id":"u1","name":"alice"}`, store.entries["users:id:u1"])
}

/*
TestEvict covers key and namespace eviction, including failure swallowing.
*/
func TestEvict(t *testing.T) {
	t.Run("keys", func(t *testing.T) {
		store := newMemStore()
		store.entries["users:id:u1"] = "{}"
		store.entries["users:id:u2"] = "{}"

		cache.EvictKeys(context.Background(), store, "users:id:u1")

		assert.NotContains(t, store.entries, "users:id:u1")
		assert.Contains(t, store.entries, "users:id:u2")
	})

	t.Run("prefix", func(t *testing.T) {
		store := newMemStore()
		store.entries["users:id:u1"] = "{}"
		store.entries["users:all:p1:l20"] = "{}"
		store.entries["products:id:p1"] = "{}"

		cache.EvictPrefix(context.Background(), store, "users:")

		assert.NotContains(t, store.entries, "users:id:u1")
		assert.NotContains(t, store.entries, "users:all:p1:l20")
		assert.Contains(t, store.entries, "products:id:p1")
	})

	t.Run("failure_is_swallowed", func(t *testing.T) {
		store := newMemStore()
		store.delErr = errors.New("connection refused")

		// Must not panic or propagate.
		cache.EvictKeys(context.Background(), store, "users:id:u1")
		cache.EvictPrefix(context.Background(), store, "users:")
	})
}
