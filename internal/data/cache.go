package data

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"uptime-optimizer/internal/model"
)

// CacheEntry represents a cached price response.
type CacheEntry struct {
	Response  *model.GridStatusLMPResponse
	ExpiresAt time.Time
}

// ResponseCache is an in-memory TTL cache for price source responses.
// Historical windows do not change once published, so repeated analyses of
// the same window can be served without another upstream call.
type ResponseCache struct {
	mu    sync.RWMutex
	store map[string]*CacheEntry
	ttl   time.Duration
	now   func() time.Time
}

// NewResponseCache returns a cache with the given TTL (default 1h).
func NewResponseCache(ttl time.Duration) *ResponseCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResponseCache{
		store: make(map[string]*CacheEntry),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Get retrieves a cached response if available and not expired.
func (c *ResponseCache) Get(key string) (*model.GridStatusLMPResponse, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.store[key]
	if !exists || c.now().After(entry.ExpiresAt) {
		return nil, false
	}
	return entry.Response, true
}

// Set stores a response in the cache.
func (c *ResponseCache) Set(key string, response *model.GridStatusLMPResponse) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.store[key] = &CacheEntry{
		Response:  response,
		ExpiresAt: c.now().Add(c.ttl),
	}
}

// Len returns the number of stored entries, expired or not.
func (c *ResponseCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.store)
}

// Clear removes all entries from the cache.
func (c *ResponseCache) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store = make(map[string]*CacheEntry)
}

// Purge removes expired entries.
func (c *ResponseCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for key, entry := range c.store {
		if now.After(entry.ExpiresAt) {
			delete(c.store, key)
		}
	}
}

// Run purges expired entries every interval until ctx is done.
func (c *ResponseCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Purge()
		}
	}
}

// GenerateCacheKey creates a cache key from query parameters.
func GenerateCacheKey(params QueryLocationParams) string {
	keyStr := fmt.Sprintf("%s:%s:%s:%s:%s",
		params.DatasetID,
		params.LocationID,
		params.StartTime.Format("2006-01-02"),
		params.EndTime.Format("2006-01-02"),
		params.Timezone,
	)
	hash := sha256.Sum256([]byte(keyStr))
	return hex.EncodeToString(hash[:])
}
