// Package ratelimit provides in-process request rate limiting.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter provides rate limiting functionality
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// TokenBucketLimiter implements token bucket rate limiting, one bucket per key
type TokenBucketLimiter struct {
	mu         sync.Mutex
	buckets    map[string]*bucket
	burst      int
	refillRate time.Duration
	idleAfter  time.Duration
	now        func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewTokenBucketLimiter creates a limiter allowing bursts of maxTokens and
// adding one token every refillRate.
func NewTokenBucketLimiter(maxTokens int, refillRate time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		buckets:    make(map[string]*bucket),
		burst:      maxTokens,
		refillRate: refillRate,
		idleAfter:  time.Hour,
		now:        time.Now,
		stop:       make(chan struct{}),
	}
}

// NewPerMinuteLimiter creates a limiter sustaining requestsPerMinute with the
// given burst.
func NewPerMinuteLimiter(requestsPerMinute, burst int) *TokenBucketLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return NewTokenBucketLimiter(burst, time.Minute/time.Duration(requestsPerMinute))
}

// Allow checks if a request is allowed
func (l *TokenBucketLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{limiter: rate.NewLimiter(rate.Every(l.refillRate), l.burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	return b.limiter.AllowN(now, 1), nil
}

// Reset resets the rate limit for a key
func (l *TokenBucketLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.buckets, key)
	return nil
}

// RetryAfter is the time until the next token for an exhausted bucket
func (l *TokenBucketLimiter) RetryAfter() time.Duration {
	return l.refillRate
}

// Len reports the number of tracked keys
func (l *TokenBucketLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// StartCleanup drops idle buckets every interval until Close is called.
func (l *TokenBucketLimiter) StartCleanup(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.sweep()
			case <-l.stop:
				return
			}
		}
	}()
}

func (l *TokenBucketLimiter) sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleAfter {
			delete(l.buckets, key)
		}
	}
}

// Close stops the cleanup goroutine
func (l *TokenBucketLimiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

var _ RateLimiter = (*TokenBucketLimiter)(nil)
