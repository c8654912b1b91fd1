package ratelimit

import (
	"sync"
	"time"
)

type bucket struct {
	tokens float64
	last   time.Time
}

// Limiter is a token bucket limiter keyed by string, typically the upstream
// host or symbol. All keys share the same capacity and refill rate.
type Limiter struct {
	capacity   float64
	refillRate float64 // tokens per second

	mu sync.Mutex
	m  map[string]*bucket
}

func New(capacity, refillPerSec float64) *Limiter {
	return &Limiter{
		capacity:   capacity,
		refillRate: refillPerSec,
		m:          make(map[string]*bucket),
	}
}

// Allow returns true if one token can be consumed for key.
func (l *Limiter) Allow(key string) bool {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.m[key]
	if !ok {
		b = &bucket{tokens: l.capacity, last: now}
		l.m[key] = b
	}
	elapsed := now.Sub(b.last).Seconds()
	if elapsed > 0 {
		b.tokens += elapsed * l.refillRate
		if b.tokens > l.capacity {
			b.tokens = l.capacity
		}
		b.last = now
	}
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}
