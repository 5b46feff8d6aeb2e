package tenant

import (
	"sync"
	"time"

	"github.com/saod-ux/saas-project-sub000/internal/domain"
)

type cacheEntry struct {
	tenant  *domain.Tenant // nil records a known miss
	expires time.Time
}

// Cache is a TTL map of tenant lookups, safe for concurrent use.
// It stores misses as well as hits.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

// Get returns the cached tenant for key. ok is false when the key is absent
// or expired; a cached miss returns (nil, true).
func (c *Cache) Get(key string) (*domain.Tenant, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, ok := c.entries[key]; ok && cur.expires == e.expires {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return nil, false
	}
	return e.tenant, true
}

// Set stores t under key for ttl. A nil t caches a miss. Non-positive ttl is a no-op.
func (c *Cache) Set(key string, t *domain.Tenant, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{tenant: t, expires: c.now().Add(ttl)}
	c.mu.Unlock()
}

// Delete removes keys.
func (c *Cache) Delete(keys ...string) {
	c.mu.Lock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	c.mu.Unlock()
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	c.entries = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Len counts entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
