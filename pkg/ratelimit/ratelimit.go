package ratelimit

import (
	"sync"
	"time"
)

// Limiter is a fixed-window request counter keyed by caller identity
// (typically client IP). It is injected where rate limiting is needed so the
// backing store can be swapped for an external cache later.
type Limiter struct {
	mu      sync.Mutex
	max     int
	window  time.Duration
	entries map[string]*entry
	now     func() time.Time
}

type entry struct {
	count       int
	windowStart time.Time
}

// New creates a Limiter allowing max requests per window per key.
func New(max int, window time.Duration) *Limiter {
	return &Limiter{
		max:     max,
		window:  window,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Allow records a request for key and reports whether it is within the
// limit. A request that is denied is not counted.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{count: 1, windowStart: now}
		return true
	}
	if e.count >= l.max {
		return false
	}
	e.count++
	return true
}

// Remaining reports how many more requests key may make in its current
// window without consuming one.
func (l *Limiter) Remaining(key string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || l.now().Sub(e.windowStart) >= l.window {
		return l.max
	}
	if e.count >= l.max {
		return 0
	}
	return l.max - e.count
}
