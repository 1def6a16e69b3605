package assets

import (
	"context"
	"sync"
	"time"
)

// Prober measures the playable duration of an asset location.
type Prober interface {
	Duration(ctx context.Context, location string) (time.Duration, error)
}

type cacheEntry struct {
	duration time.Duration
	expires  time.Time
}

// CachingProber wraps another Prober with a TTL-based in-memory cache, so
// repeated probes of the same stored asset skip the external process.
type CachingProber struct {
	base Prober
	ttl  time.Duration

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachingProber returns a Prober that caches measurements for the provided TTL.
func NewCachingProber(base Prober, ttl time.Duration) *CachingProber {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CachingProber{
		base:  base,
		ttl:   ttl,
		items: make(map[string]cacheEntry),
	}
}

// Duration returns a cached measurement when available, otherwise it
// delegates to the underlying prober and stores the result.
func (c *CachingProber) Duration(ctx context.Context, location string) (time.Duration, error) {
	if c == nil || c.base == nil {
		return 0, ErrProbeUnavailable
	}

	now := time.Now()

	c.mu.RLock()
	entry, ok := c.items[location]
	c.mu.RUnlock()
	if ok && now.Before(entry.expires) {
		return entry.duration, nil
	}

	duration, err := c.base.Duration(ctx, location)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	c.items[location] = cacheEntry{duration: duration, expires: now.Add(c.ttl)}
	c.mu.Unlock()

	return duration, nil
}
