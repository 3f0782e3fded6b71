// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// MemoryCache keeps entries in process memory. It is the default backend
// for a single instance.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	bytes   int64
	closed  bool

	ttl     time.Duration
	limit   int
	done    chan struct{}
	now     func() time.Time
	counter counters
}

// MemoryCacheOptions configures the memory cache.
type MemoryCacheOptions struct {
	DefaultTTL time.Duration
	// MaxSize caps the number of entries; 0 means unbounded.
	MaxSize int
	// CleanupInterval drives the background sweep of expired entries; 0 disables it.
	CleanupInterval time.Duration
}

// NewMemoryCache creates a memory cache.
func NewMemoryCache(opts MemoryCacheOptions) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[string]entry),
		ttl:     opts.DefaultTTL,
		limit:   opts.MaxSize,
		done:    make(chan struct{}),
		now:     time.Now,
	}
	if opts.CleanupInterval > 0 {
		go c.sweepEvery(opts.CleanupInterval)
	}
	return c
}

// NewSimpleMemoryCache creates an unbounded memory cache swept once a minute.
func NewSimpleMemoryCache(ttl time.Duration) *MemoryCache {
	return NewMemoryCache(MemoryCacheOptions{DefaultTTL: ttl, CleanupInterval: time.Minute})
}

// Get returns a copy of the stored value.
func (c *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return nil, ErrCacheClosed
	}
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || e.expired(c.now()) {
		if ok {
			c.mu.Lock()
			c.removeIfExpired(key)
			c.mu.Unlock()
		}
		c.counter.miss()
		return nil, ErrCacheMiss
	}
	c.counter.hit()
	return clone(e.value), nil
}

// Set stores a copy of value. A full cache first drops expired entries and
// then evicts the entry closest to expiry; overwrites never evict.
func (c *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.ttl
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}

	old, exists := c.entries[key]
	if !exists && c.limit > 0 && len(c.entries) >= c.limit {
		c.dropExpired()
		if len(c.entries) >= c.limit {
			c.evictOne()
		}
	}
	if exists {
		c.bytes -= int64(len(old.value))
	}

	c.entries[key] = entry{value: clone(value), expiresAt: c.now().Add(ttl)}
	c.bytes += int64(len(value))
	c.counter.set()
	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	c.remove(key)
	return nil
}

// DeleteByPrefix removes every key starting with prefix.
func (c *MemoryCache) DeleteByPrefix(_ context.Context, prefix string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			c.remove(key)
		}
	}
	return nil
}

// Clear drops all entries.
func (c *MemoryCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrCacheClosed
	}
	clear(c.entries)
	c.bytes = 0
	return nil
}

// Has reports whether key holds an unexpired value.
func (c *MemoryCache) Has(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	if c.closed {
		c.mu.RUnlock()
		return false, ErrCacheClosed
	}
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if ok && e.expired(c.now()) {
		c.mu.Lock()
		c.removeIfExpired(key)
		c.mu.Unlock()
		return false, nil
	}
	return ok, nil
}

// Close stops the sweeper. Later calls on the cache return ErrCacheClosed.
func (c *MemoryCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.done)
	}
	return nil
}

// Stats returns the counters together with the entry count and stored bytes.
func (c *MemoryCache) Stats() Stats {
	s := c.counter.snapshot("memory")
	c.mu.RLock()
	s.Items = len(c.entries)
	s.Size = c.bytes
	c.mu.RUnlock()
	return s
}

// ResetStats zeroes the hit, miss and set counters.
func (c *MemoryCache) ResetStats() {
	c.counter.reset()
}

// remove deletes key; callers hold mu.
func (c *MemoryCache) remove(key string) {
	if e, ok := c.entries[key]; ok {
		delete(c.entries, key)
		c.bytes -= int64(len(e.value))
	}
}

// removeIfExpired rechecks under the write lock since a concurrent Set may
// have refreshed the entry.
func (c *MemoryCache) removeIfExpired(key string) {
	if e, ok := c.entries[key]; ok && e.expired(c.now()) {
		c.remove(key)
	}
}

func (c *MemoryCache) dropExpired() {
	now := c.now()
	for key, e := range c.entries {
		if e.expired(now) {
			c.remove(key)
		}
	}
}

func (c *MemoryCache) evictOne() {
	var (
		victim   string
		earliest time.Time
		found    bool
	)
	for key, e := range c.entries {
		if !found || e.expiresAt.Before(earliest) {
			victim, earliest, found = key, e.expiresAt, true
		}
	}
	if found {
		c.remove(victim)
	}
}

func (c *MemoryCache) sweepEvery(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			c.dropExpired()
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}

func clone(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

var (
	_ Cacher        = (*MemoryCache)(nil)
	_ StatsProvider = (*MemoryCache)(nil)
)
