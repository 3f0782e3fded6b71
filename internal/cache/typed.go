// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

// TypedCache stores values of type T as JSON in an underlying Cacher.
// Concurrent misses for one key share a single load.
type TypedCache[T any] struct {
	cache Cacher
	ttl   time.Duration
	group singleflight.Group
}

// NewTypedCache wraps cache; ttl applies to Set and GetOrSet.
func NewTypedCache[T any](cache Cacher, ttl time.Duration) *TypedCache[T] {
	return &TypedCache[T]{cache: cache, ttl: ttl}
}

// Get returns the cached value and true. Misses, backend errors and
// undecodable payloads all report false.
func (c *TypedCache[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := c.cache.Get(ctx, key)
	if err != nil || json.Unmarshal(data, &value) != nil {
		var zero T
		return zero, false
	}
	return value, true
}

// Set stores value with the default TTL.
func (c *TypedCache[T]) Set(ctx context.Context, key string, value T) error {
	return c.SetWithTTL(ctx, key, value, c.ttl)
}

// SetWithTTL stores value with ttl.
func (c *TypedCache[T]) SetWithTTL(ctx context.Context, key string, value T, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return c.cache.Set(ctx, key, data, ttl)
}

// Delete removes key.
func (c *TypedCache[T]) Delete(ctx context.Context, key string) error {
	return c.cache.Delete(ctx, key)
}

// DeleteByPrefix removes every key starting with prefix.
func (c *TypedCache[T]) DeleteByPrefix(ctx context.Context, prefix string) error {
	return c.cache.DeleteByPrefix(ctx, prefix)
}

// GetOrSet returns the cached value for key or loads it with fn. A load
// error is returned to every waiter and nothing is stored.
func (c *TypedCache[T]) GetOrSet(ctx context.Context, key string, fn func() (T, error)) (T, error) {
	if value, ok := c.Get(ctx, key); ok {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// a load that finished between the miss and Do already stored the value
		if value, ok := c.Get(ctx, key); ok {
			return value, nil
		}
		value, err := fn()
		if err != nil {
			return value, err
		}
		// a failed write costs a future miss only
		_ = c.SetWithTTL(ctx, key, value, c.ttl)
		return value, nil
	})
	value, _ := v.(T)
	return value, err
}
