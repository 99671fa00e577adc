package cache

import (
	"sync"
	"time"
)

const cleanupInterval = 5 * time.Minute

type entry struct {
	names      map[string]string
	expiration int64
}

// CategoryCache holds per-owner category lookup maps with a TTL. Maps are
// treated as read-only once stored; callers must not mutate them.
type CategoryCache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	done  chan struct{}
}

// New creates a category cache and starts its cleanup loop.
func New(ttl time.Duration) *CategoryCache {
	c := &CategoryCache{
		items: make(map[string]entry),
		ttl:   ttl,
		done:  make(chan struct{}),
	}
	go c.cleanupExpired()
	return c
}

// Get returns the cached lookup map for an owner, if present and fresh.
func (c *CategoryCache) Get(ownerID string) (map[string]string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[ownerID]
	if !found {
		return nil, false
	}
	if time.Now().UnixNano() > item.expiration {
		return nil, false
	}
	return item.names, true
}

// Set stores an owner's lookup map.
func (c *CategoryCache) Set(ownerID string, names map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[ownerID] = entry{
		names:      names,
		expiration: time.Now().Add(c.ttl).UnixNano(),
	}
}

// Invalidate drops an owner's cached map. Called after category mutations so
// the next fetch cycle re-reads the collection.
func (c *CategoryCache) Invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, ownerID)
}

// Size returns the number of cached owner maps.
func (c *CategoryCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Close stops the cleanup loop.
func (c *CategoryCache) Close() {
	close(c.done)
}

func (c *CategoryCache) cleanupExpired() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now().UnixNano()
			for key, item := range c.items {
				if now > item.expiration {
					delete(c.items, key)
				}
			}
			c.mu.Unlock()
		case <-c.done:
			return
		}
	}
}
