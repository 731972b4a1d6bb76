// Package ratelimit bounds chat requests per identity over a sliding window.
// The store is injected behind the Limiter interface so the in-memory map can
// be swapped for a shared redis backend without touching call sites.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Limiter interface {
	// Allow reports whether one more request for identity fits in the
	// current window, recording it if so.
	Allow(ctx context.Context, identity string) (bool, error)
}

// MemoryLimiter keeps a per-identity timestamp log, pruned to the trailing
// window on each check. Process-local; state resets on restart.
type MemoryLimiter struct {
	mu        sync.Mutex
	hits      map[string][]time.Time
	limit     int
	window    time.Duration
	now       func() time.Time
	lastSweep time.Time
}

func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit <= 0 {
		limit = 10
	}
	if window <= 0 {
		window = time.Minute
	}
	return &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
		now:    time.Now,
	}
}

func (l *MemoryLimiter) Allow(_ context.Context, identity string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := l.hits[identity][:0]
	for _, t := range l.hits[identity] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.hits[identity] = recent
		return false, nil
	}

	l.hits[identity] = append(recent, now)
	return true, nil
}

// sweep drops identities whose whole log has aged out, keeping the map from
// growing with every identity ever seen. Runs at most once per window.
func (l *MemoryLimiter) sweep(cutoff time.Time) {
	for id, ts := range l.hits {
		if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
			delete(l.hits, id)
		}
	}
}
