// internal/app/policy/accesspolicy/cache.go
package accesspolicy

import (
	"sync"
	"time"
)

// Cache is a short-TTL cache for resolved principals (user row + teams).
// It exists so the several predicate calls made while serving one request
// hit the stores once, not once per predicate. The TTL is deliberately
// short; permission-mutating admin handlers additionally call Purge (via
// Resolver.Invalidate) so edits take effect immediately on the node that
// performed them.
type Cache struct {
	mu  sync.Mutex
	ttl time.Duration
	m   map[string]cacheEntry
}

type cacheEntry struct {
	p       *principal
	expires time.Time
}

// NewCache creates a principal cache with the given TTL.
func NewCache(ttl time.Duration) *Cache {
	return &Cache{
		ttl: ttl,
		m:   make(map[string]cacheEntry),
	}
}

func (c *Cache) get(username string) (*principal, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.m[username]
	if !ok || time.Now().After(e.expires) {
		delete(c.m, username)
		return nil, false
	}
	return e.p, true
}

func (c *Cache) put(username string, p *principal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[username] = cacheEntry{p: p, expires: time.Now().Add(c.ttl)}
}

// Purge drops every cached principal.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m = make(map[string]cacheEntry)
}
