package marketdata

import (
	"sync"
	"time"
)

// DefaultCacheTTL is how long a cached payload is considered fresh.
const DefaultCacheTTL = 60 * time.Second

// cacheEntry wraps a cached payload with the time it was stored.
type cacheEntry struct {
	data     interface{}
	cachedAt time.Time
}

// QuoteCache is a short-lived in-memory memoization of fetched quotes and
// series, keyed by operation kind + symbol. Entries older than the TTL are
// treated as absent on lookup and silently overwritten by the next Put; there
// is no proactive sweep. Memory stays bounded by the small symbol universe
// the tracker manages.
type QuoteCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	ttl     time.Duration
}

// NewQuoteCache creates a cache with the given TTL. A non-positive TTL falls
// back to DefaultCacheTTL.
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &QuoteCache{
		entries: make(map[string]cacheEntry),
		ttl:     ttl,
	}
}

// Get returns the cached payload for key, or (nil, false) if the entry is
// missing or older than the TTL.
func (c *QuoteCache) Get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		return nil, false
	}
	return entry.data, true
}

// Put unconditionally overwrites the entry for key.
func (c *QuoteCache) Put(key string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = cacheEntry{
		data:     data,
		cachedAt: time.Now(),
	}
}

// Delete drops the entry for key if present.
func (c *QuoteCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}
