package memory

import (
	"context"
	"sync"
	"time"

	"ims/internal/domain"
)

// ScoreCache is the in-process ports.ScoreCache used when no Redis is
// configured. A zero TTL keeps entries until invalidated; a positive one only
// bounds how long unused entries are held.
type ScoreCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[domain.Standard]cacheEntry
}

type cacheEntry struct {
	entry   domain.CachedScore
	expires time.Time
}

func NewScoreCache(ttl time.Duration) *ScoreCache {
	return &ScoreCache{ttl: ttl, now: time.Now, entries: map[domain.Standard]cacheEntry{}}
}

func (c *ScoreCache) Get(_ context.Context, std domain.Standard) (domain.CachedScore, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[std]
	if !ok {
		return domain.CachedScore{}, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		delete(c.entries, std)
		return domain.CachedScore{}, false, nil
	}
	return e.entry, true, nil
}

func (c *ScoreCache) Set(_ context.Context, entry domain.CachedScore) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	e := cacheEntry{entry: entry}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.entries[entry.Score.Standard] = e
	return nil
}

func (c *ScoreCache) Invalidate(_ context.Context, stds ...domain.Standard) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, std := range stds {
		delete(c.entries, std)
	}
	return nil
}
