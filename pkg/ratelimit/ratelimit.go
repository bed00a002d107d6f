package ratelimit

import (
	"sync"
	"time"
)

// Limiter bounds request rates per key. It is a best-effort abuse guard,
// not a correctness mechanism; implementations may lose state on restart.
type Limiter interface {
	Allow(key string, limit int, window time.Duration) bool
}

type entry struct {
	count   int
	resetAt time.Time
}

// MemoryLimiter is a fixed-window in-process limiter. In a multi-process
// deployment the Limiter interface should be backed by a shared counter
// store instead.
type MemoryLimiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	now     func() time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

func (l *MemoryLimiter) Allow(key string, limit int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[key]
	if !ok || now.After(e.resetAt) {
		l.entries[key] = &entry{count: 1, resetAt: now.Add(window)}
		return true
	}
	if e.count >= limit {
		return false
	}
	e.count++
	return true
}
