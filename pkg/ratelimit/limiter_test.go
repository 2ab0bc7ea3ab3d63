package ratelimit

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxTokens int, refill time.Duration) (*TokenBucketLimiter, *time.Time) {
	l := NewTokenBucketLimiter(maxTokens, refill)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func allowN(t *testing.T, l *TokenBucketLimiter, key string, n int) int {
	t.Helper()
	allowed := 0
	for i := 0; i < n; i++ {
		ok, err := l.Allow(context.Background(), key)
		require.NoError(t, err)
		if ok {
			allowed++
		}
	}
	return allowed
}

func TestTokenBucketLimiter_Burst(t *testing.T) {
	l, _ := newTestLimiter(3, time.Second)

	assert.Equal(t, 3, allowN(t, l, "ip:1", 5))
	assert.Equal(t, 3, allowN(t, l, "ip:2", 3), "keys have separate buckets")
}

func TestTokenBucketLimiter_Refill(t *testing.T) {
	l, now := newTestLimiter(2, time.Second)
	require.Equal(t, 2, allowN(t, l, "k", 2))

	*now = now.Add(1500 * time.Millisecond)
	assert.Equal(t, 1, allowN(t, l, "k", 2))

	// the half second left over counts toward the next token
	*now = now.Add(500 * time.Millisecond)
	assert.Equal(t, 1, allowN(t, l, "k", 2))

	*now = now.Add(time.Hour)
	assert.Equal(t, 2, allowN(t, l, "k", 5), "refill is capped at the burst")
}

func TestTokenBucketLimiter_Reset(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)
	require.Equal(t, 1, allowN(t, l, "k", 2))

	require.NoError(t, l.Reset(context.Background(), "k"))
	assert.Equal(t, 1, allowN(t, l, "k", 1))
}

func TestTokenBucketLimiter_Sweep(t *testing.T) {
	l, now := newTestLimiter(1, time.Second)
	allowN(t, l, "old", 1)

	*now = now.Add(2 * time.Hour)
	allowN(t, l, "fresh", 1)
	l.sweep()

	assert.Equal(t, 1, l.Len())
}

func TestTokenBucketLimiter_SweepKeepsActiveKeys(t *testing.T) {
	l, now := newTestLimiter(5, time.Second)

	for i := 0; i < 3; i++ {
		allowN(t, l, "busy", 1)
		*now = now.Add(50 * time.Minute)
	}
	l.sweep()

	assert.Equal(t, 1, l.Len(), "a key seen within the idle window is kept")
}

func TestNewPerMinuteLimiter(t *testing.T) {
	l := NewPerMinuteLimiter(120, 10)
	assert.Equal(t, 500*time.Millisecond, l.RetryAfter())
	assert.Equal(t, 10, l.burst)

	fallback := NewPerMinuteLimiter(0, 0)
	assert.Equal(t, time.Minute, fallback.RetryAfter())
	assert.Equal(t, 1, fallback.burst)
}

func TestTokenBucketLimiter_Concurrent(t *testing.T) {
	l := NewTokenBucketLimiter(50, time.Hour)
	l.StartCleanup(time.Millisecond)
	defer l.Close()

	var allowed atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if ok, _ := l.Allow(context.Background(), "shared"); ok {
					allowed.Add(1)
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(50), allowed.Load())
	l.Close()
}
