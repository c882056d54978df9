// Package ratelimit throttles callers by key, usually the client IP.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per key. Buckets idle for longer than the
// idle window are dropped by Cleanup.
type Limiter struct {
	perMinute int
	burst     int
	idle      time.Duration
	now       func() time.Time

	mu       sync.Mutex
	visitors map[string]*visitor
}

func New(perMinute, burst int) *Limiter {
	if burst <= 0 {
		burst = 1
	}
	return &Limiter{
		perMinute: perMinute,
		burst:     burst,
		idle:      10 * time.Minute,
		now:       time.Now,
		visitors:  make(map[string]*visitor),
	}
}

// IsAllowed consumes one token for key. A limit of zero or less disables
// throttling.
func (l *Limiter) IsAllowed(key string) bool {
	if l.perMinute <= 0 {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Cleanup forgets keys that have not been seen within the idle window.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	removed := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			removed++
		}
	}
	return removed
}
