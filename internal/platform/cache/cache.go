// Copyright (c) 2026 CodeLearn. All rights reserved.
// Author: platform@codelearn.dev

/*
Package cache implements the cache-aside read path over the relational store.

It consists of two parts:

  - Store: a minimal key/value contract with TTL and explicit eviction,
    implemented by Redis. Every Store operation may fail; none of those
    failures is ever surfaced to a caller of this package's helpers.
  - ReadThrough: a generic read-through decorator. Cache hit → return cached
    value. Cache miss → run the loader, best-effort repopulate. Cache backend
    error → log a degradation notice and fall through to the loader directly.

Invariants:

  - The cache is never the sole source of truth: every entry is reproducible
    by recomputing from the store the loader reads.
  - Cache unavailability must never block a read, only slow it down. Callers
    cannot distinguish "cache down" from "cache hit" by anything but latency.
  - Every call probes the cache independently; no circuit-breaker state is
    retained across calls.

There is no single-flight deduplication: concurrent misses for the same key
may each run the loader and each repopulate the cache. The last writer's TTL
wins. The loaders are idempotent reads, so this is an accepted inefficiency,
not a correctness bug.
*/
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/codelearn/codelearn-api/internal/platform/ctxutil"
)

// ErrMiss is returned by [Store.Get] when the key is absent.
//
// A miss is a normal outcome of the protocol, distinct from a backend failure
// (connectivity, timeout), which is any other non-nil error.
var ErrMiss = errors.New("cache: miss")

// Store is the key/value contract backing the cache-aside read path.
//
// # Failure Semantics
//
// Every method may fail with a backend error. Callers in this package treat
// all of them as non-fatal: reads fall back to the loader, writes and
// evictions are logged and swallowed.
type Store interface {
	// Get returns the raw value for key, or ErrMiss if absent.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// DeletePrefix removes every key under the given namespace prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

/*
ReadThrough reads a value through the cache-aside policy.

Description: Attempts a cache get first. On a hit the cached JSON is decoded
and returned without touching the store. On a miss the loader runs and, on
success, the result is best-effort written back with the given TTL. On any
backend failure during the get, the loader runs directly and no write-back is
attempted for that call.

Parameters:
  - ctx: context.Context (per-request logger is taken from here)
  - store: Store
  - key: string (composite key describing the query shape, e.g. "users:id:<id>")
  - ttl: time.Duration
  - loader: the underlying store query; must be idempotent and side-effect-free

Returns:
  - T: The cached or freshly loaded value
  - error: Only loader errors propagate; cache failures never do
*/
func ReadThrough[T any](ctx context.Context, store Store, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	logger := ctxutil.GetLogger(ctx)

	raw, err := store.Get(ctx, key)

	// Backend failure (not a miss): degrade to a direct store read for this
	// call. No retry against the cache, no state carried to the next call.
	if err != nil && !errors.Is(err, ErrMiss) {
		logger.Warn("cache_degraded_falling_back_to_store",
			slog.String("key", key),
			slog.String("error", err.Error()),
		)
		var zero T
		value, loadErr := loader(ctx)
		if loadErr != nil {
			return zero, loadErr
		}
		return value, nil
	}

	// Cache hit: decode and return. A corrupt entry is treated as a miss.
	if err == nil {
		var value T
		if decodeErr := json.Unmarshal([]byte(raw), &value); decodeErr == nil {
			return value, nil
		}
		logger.Warn("cache_entry_corrupt_treated_as_miss", slog.String("key", key))
	}

	// Cache miss: load from the source of truth.
	value, loadErr := loader(ctx)
	if loadErr != nil {
		var zero T
		return zero, loadErr
	}

	// Best-effort repopulation. A set failure is swallowed and logged; the
	// loaded value is returned regardless.
	if encoded, encodeErr := json.Marshal(value); encodeErr == nil {
		if setErr := store.Set(ctx, key, string(encoded), ttl); setErr != nil {
			logger.Warn("cache_set_failed",
				slog.String("key", key),
				slog.String("error", setErr.Error()),
			)
		}
	}

	return value, nil
}

// EvictKeys removes specific keys, swallowing and logging any failure.
//
// A degraded cache must never block a write that already succeeded against
// the store of record; stale entries age out via their TTL.
func EvictKeys(ctx context.Context, store Store, keys ...string) {
	if err := store.Delete(ctx, keys...); err != nil {
		ctxutil.GetLogger(ctx).Warn("cache_evict_failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()),
		)
	}
}

// EvictPrefix removes an entire namespace, swallowing and logging any failure.
//
// Used after membership changes (create/delete), where list and aggregate
// entries under the namespace may all be stale.
func EvictPrefix(ctx context.Context, store Store, prefix string) {
	if err := store.DeletePrefix(ctx, prefix); err != nil {
		ctxutil.GetLogger(ctx).Warn("cache_evict_namespace_failed",
			slog.String("prefix", prefix),
			slog.String("error", err.Error()),
		)
	}
}
