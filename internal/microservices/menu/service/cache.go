package service

import (
	"context"
	"sync"
	"time"

	"cafesync/internal/domain"
)

// menuCache holds the full menu for ttl. Loads are serialized so a burst of
// misses reaches the repository once.
type menuCache struct {
	ttl  time.Duration
	now  func() time.Time
	load func(context.Context) ([]domain.MenuItem, error)

	mu      sync.RWMutex
	items   []domain.MenuItem
	expires time.Time
	gen     uint64 // bumped by Invalidate
	loadMu  sync.Mutex
}

func newMenuCache(ttl time.Duration, load func(context.Context) ([]domain.MenuItem, error)) *menuCache {
	return &menuCache{ttl: ttl, now: time.Now, load: load}
}

func (c *menuCache) cached() ([]domain.MenuItem, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.items == nil || c.now().After(c.expires) {
		return nil, false
	}
	return c.items, true
}

func (c *menuCache) Get(ctx context.Context) ([]domain.MenuItem, error) {
	if items, ok := c.cached(); ok {
		return items, nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	// another caller may have filled it while we waited
	if items, ok := c.cached(); ok {
		return items, nil
	}
	c.mu.RLock()
	gen := c.gen
	c.mu.RUnlock()

	items, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.MenuItem{}
	}
	c.mu.Lock()
	// a write landed during the load; serve the result but don't keep it
	if c.gen == gen {
		c.items, c.expires = items, c.now().Add(c.ttl)
	}
	c.mu.Unlock()
	return items, nil
}

func (c *menuCache) Invalidate() {
	c.mu.Lock()
	c.items = nil
	c.gen++
	c.mu.Unlock()
}
