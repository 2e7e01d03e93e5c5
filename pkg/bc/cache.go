package bc

import (
	"context"
	"sync"
	"time"
)

// Cache is a key/value store for short-lived entries such as bearer tokens.
type Cache interface {
	Get(ctx context.Context, key string) (*CacheEntry, error)
	Set(ctx context.Context, key string, entry *CacheEntry) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	Has(ctx context.Context, key string) bool
}

// CacheEntry is a cached value with its expiry.
type CacheEntry struct {
	Data      []byte    `json:"data"`
	ExpiresAt time.Time `json:"expires_at"`
	ETag      string    `json:"etag,omitempty"`
}

// Expired reports whether the entry has passed its expiry. Entries without
// an expiry never expire.
func (e *CacheEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// MemoryCache is an in-process Cache bounded to a maximum number of entries.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	maxSize int
}

// NewMemoryCache creates a memory cache holding at most maxSize entries.
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1
	}

	return &MemoryCache{
		entries: make(map[string]*CacheEntry),
		maxSize: maxSize,
	}
}

// Get returns the entry for key, or an error when it is missing or expired.
func (c *MemoryCache) Get(ctx context.Context, key string) (*CacheEntry, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, ErrKeyNotFound
	}

	if entry.Expired(time.Now()) {
		return nil, ErrEntryExpired
	}

	return entry, nil
}

// Set stores entry under key. A full cache first drops expired entries, then
// evicts the entry closest to expiry.
func (c *MemoryCache) Set(ctx context.Context, key string, entry *CacheEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxSize {
		c.dropExpiredLocked(time.Now())

		if len(c.entries) >= c.maxSize {
			c.evictLocked()
		}
	}

	c.entries[key] = entry

	return nil
}

// Delete removes key.
func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()

	return nil
}

// Clear removes all entries.
func (c *MemoryCache) Clear(ctx context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*CacheEntry)
	c.mu.Unlock()

	return nil
}

// Has reports whether key holds an unexpired entry.
func (c *MemoryCache) Has(ctx context.Context, key string) bool {
	_, err := c.Get(ctx, key)

	return err == nil
}

func (c *MemoryCache) dropExpiredLocked(now time.Time) {
	for key, entry := range c.entries {
		if entry.Expired(now) {
			delete(c.entries, key)
		}
	}
}

func (c *MemoryCache) evictLocked() {
	var (
		victim string
		oldest time.Time
		found  bool
	)

	for key, entry := range c.entries {
		if !found || entry.ExpiresAt.Before(oldest) {
			victim = key
			oldest = entry.ExpiresAt
			found = true
		}
	}

	if found {
		delete(c.entries, victim)
	}
}
