package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// sweepInterval is how often the memory layer evicts expired entries. Reads
// never return stale values regardless; the cadence only bounds memory
// growth between sweeps.
const sweepInterval = 10 * time.Minute

// Memory caches byte values in process with per-entry TTL
type Memory struct {
	cache *gocache.Cache
}

// NewMemory creates a memory cache. defaultTTL applies to entries stored
// with ttl 0.
func NewMemory(defaultTTL time.Duration) *Memory {
	return &Memory{cache: gocache.New(defaultTTL, sweepInterval)}
}

// Get returns the cached value for key, if present and fresh
func (c *Memory) Get(key string) ([]byte, bool) {
	if val, found := c.cache.Get(key); found {
		return val.([]byte), true
	}
	return nil, false
}

// Set stores value under key; ttl 0 selects the default TTL
func (c *Memory) Set(key string, value []byte, ttl time.Duration) error {
	c.cache.Set(key, value, ttl)
	return nil
}

// Delete removes key
func (c *Memory) Delete(key string) error {
	c.cache.Delete(key)
	return nil
}

// Clear drops every entry
func (c *Memory) Clear() error {
	c.cache.Flush()
	return nil
}
