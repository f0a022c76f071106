package queue

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"
)

// RenderCache memoizes rendered HTML fragments so repeated snapshots are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// TTLRenderCache is an in-memory TTL cache for rendered fragments.
type TTLRenderCache struct {
	ttl     time.Duration
	mu      sync.RWMutex
	entries map[string]cachedFragment
}

type cachedFragment struct {
	html    string
	expires time.Time
}

// NewTTLRenderCache builds a cache with the provided TTL.
func NewTTLRenderCache(ttl time.Duration) *TTLRenderCache {
	return &TTLRenderCache{
		ttl:     ttl,
		entries: make(map[string]cachedFragment),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *TTLRenderCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

func (c *TTLRenderCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *TTLRenderCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.entries[key] = cachedFragment{
		html:    html,
		expires: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

// snapshotKey returns a deterministic cache key for a KPI snapshot and the
// filters that scoped it.
func snapshotKey(snapshot KpiSnapshot, filters FilterState) string {
	b, err := json.Marshal(struct {
		K KpiSnapshot
		F FilterState
	}{snapshot, filters})
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
