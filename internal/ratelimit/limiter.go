// Package ratelimit limits reveal-server requests per client key.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultMaxKeys bounds the number of clients tracked at once.
	DefaultMaxKeys = 10000

	// DefaultIdleTimeout is how long an unused client entry is kept.
	DefaultIdleTimeout = 10 * time.Minute
)

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter provides per-key token-bucket rate limiting. Keys are usually
// client IP addresses.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*entry
	rate    rate.Limit
	burst   int
	maxKeys int
	idle    time.Duration
	now     func() time.Time
}

// Option configures a Limiter.
type Option func(*Limiter)

// WithMaxKeys sets how many keys are tracked before new keys are refused.
func WithMaxKeys(n int) Option {
	return func(l *Limiter) { l.maxKeys = n }
}

// WithIdleTimeout sets how long an unused key survives a Sweep.
func WithIdleTimeout(d time.Duration) Option {
	return func(l *Limiter) { l.idle = d }
}

// New creates a new rate limiter.
//
// Parameters:
//   - perSecond: sustained requests per second per key
//   - burst: maximum burst size per key
//   - opts: optional settings
//
// Returns a new Limiter instance.
func New(perSecond float64, burst int, opts ...Option) *Limiter {
	l := &Limiter{
		entries: make(map[string]*entry),
		rate:    rate.Limit(perSecond),
		burst:   burst,
		maxKeys: DefaultMaxKeys,
		idle:    DefaultIdleTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow reports whether a request for key may proceed now.
//
// When the table is full, unknown keys are refused until Sweep frees room.
func (l *Limiter) Allow(key string) bool {
	now := l.now()

	l.mu.Lock()
	e, ok := l.entries[key]
	if !ok {
		if len(l.entries) >= l.maxKeys {
			l.mu.Unlock()
			return false
		}
		e = &entry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.entries[key] = e
	}
	e.lastSeen = now
	l.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Sweep removes keys not seen within the idle timeout.
//
// Returns the number of keys removed.
func (l *Limiter) Sweep() int {
	cutoff := l.now().Add(-l.idle)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Len returns the number of tracked keys.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
