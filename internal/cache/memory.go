package cache

import (
	"context"
	"sync"
	"time"
)

// pruneEvery bounds how much expired garbage can pile up between writes.
const pruneEvery = 256

type memEntry struct {
	value    []byte
	deadline time.Time
}

func (e memEntry) expired(now time.Time) bool {
	return !e.deadline.IsZero() && now.After(e.deadline)
}

// MemoryCache is the default backend. Expiry is lazy: stale entries fall out
// on read, and every pruneEvery writes the whole map is swept. No background
// goroutine, so Close has nothing to stop.
type MemoryCache struct {
	mu     sync.Mutex
	items  map[string]memEntry
	writes int
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{items: make(map[string]memEntry, 256)}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false, nil
	}
	if e.expired(time.Now()) {
		delete(c.items, key)
		return nil, false, nil
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e := memEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.deadline = time.Now().Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e
	c.writes++
	if c.writes%pruneEvery == 0 {
		c.prune(time.Now())
	}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}

func (c *MemoryCache) Close() error {
	return nil
}

// prune drops every expired entry. Caller holds the lock.
func (c *MemoryCache) prune(now time.Time) {
	for k, e := range c.items {
		if e.expired(now) {
			delete(c.items, k)
		}
	}
}
