// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// scanBatchSize is the COUNT hint for SCAN during prefix eviction.
const scanBatchSize = 256

// RedisStore implements [Store] using Redis.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a new Redis-backed [Store].
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

/*
Get retrieves the raw value for a key.

Description: Returns [ErrMiss] when the key is absent. Any other error is a
backend failure and is classified as such by the read-through helper.

Parameters:
  - context: context.Context
  - key: string

Returns:
  - string: Raw cached value
  - error: ErrMiss or connectivity errors
*/
func (store *RedisStore) Get(context context.Context, key string) (string, error) {
	value, err := store.client.Get(context, key).Result()

	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrMiss
		}
		return "", fmt.Errorf("redis_cache_get_failed: %w", err)
	}

	return value, nil
}

/*
Set stores a value under a key with a TTL.

Parameters:
  - context: context.Context
  - key: string
  - value: string
  - ttl: time.Duration

Returns:
  - error: Execution errors
*/
func (store *RedisStore) Set(context context.Context, key, value string, ttl time.Duration) error {
	if err := store.client.Set(context, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis_cache_set_failed: %w", err)
	}

	return nil
}

/*
Delete removes the given keys. Missing keys are not an error.

Parameters:
  - context: context.Context
  - keys: ...string

Returns:
  - error: Deletion failures
*/
func (store *RedisStore) Delete(context context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	if err := store.client.Del(context, keys...).Err(); err != nil {
		return fmt.Errorf("redis_cache_delete_failed: %w", err)
	}

	return nil
}

/*
DeletePrefix removes every key under a namespace prefix.

Description: Uses cursor-based SCAN rather than KEYS so eviction never blocks
the Redis event loop on large keyspaces. Deletion happens in batches as the
scan progresses.

Parameters:
  - context: context.Context
  - prefix: string (e.g. "users:")

Returns:
  - error: Scan or deletion failures
*/
func (store *RedisStore) DeletePrefix(context context.Context, prefix string) error {
	var cursor uint64

	for {
		keys, nextCursor, err := store.client.Scan(context, cursor, prefix+"*", scanBatchSize).Result()
		if err != nil {
			return fmt.Errorf("redis_cache_scan_failed: %w", err)
		}

		if len(keys) > 0 {
			if err := store.client.Del(context, keys...).Err(); err != nil {
				return fmt.Errorf("redis_cache_delete_prefix_failed: %w", err)
			}
		}

		cursor = nextCursor
		if cursor == 0 {
			return nil
		}
	}
}
