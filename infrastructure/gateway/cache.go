package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// responseCache is a TTL cache for gateway responses, keyed by operation and
// corpus hash. Repeated reads over the same corpus snapshot hit the cache,
// which is what makes façade calls idempotent per snapshot.
type responseCache struct {
	mu    sync.RWMutex
	items map[string]cacheItem
}

type cacheItem struct {
	value     interface{}
	expiresAt time.Time
}

func newResponseCache() *responseCache {
	cache := &responseCache{
		items: make(map[string]cacheItem),
	}
	go cache.cleanupExpired()
	return cache
}

// cacheKey derives a stable key from the operation name and corpus text.
func cacheKey(operation, corpus string) string {
	sum := sha256.Sum256([]byte(operation + "\x00" + corpus))
	return operation + ":" + hex.EncodeToString(sum[:])
}

func (c *responseCache) get(key string) (interface{}, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, exists := c.items[key]
	if !exists {
		return nil, false
	}
	if time.Now().After(item.expiresAt) {
		return nil, false
	}
	return item.value, true
}

func (c *responseCache) set(key string, value interface{}, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = cacheItem{
		value:     value,
		expiresAt: time.Now().Add(ttl),
	}
}

// cleanupExpired periodically removes expired items
func (c *responseCache) cleanupExpired() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		now := time.Now()
		for key, item := range c.items {
			if now.After(item.expiresAt) {
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
