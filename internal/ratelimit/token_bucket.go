package ratelimit

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/connectplus/connectplus/internal/clock"
)

// TokenBucket is an in-process per-key limiter. Buckets refill
// continuously at the given rate up to burst and are dropped once idle
// long enough to be full again.
type TokenBucket struct {
	clock clock.Clock

	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	tokens float64
	ts     time.Time
}

type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

func NewTokenBucket(clk clock.Clock) *TokenBucket {
	return &TokenBucket{
		clock:   clk,
		buckets: make(map[string]*bucket),
	}
}

func (t *TokenBucket) Allow(key string, rate float64, burst int) (Result, error) {
	if key == "" {
		return Result{}, errors.New("rate limiter key is empty")
	}
	if rate <= 0 {
		return Result{}, errors.New("rate limiter rate must be positive")
	}
	if burst <= 0 {
		return Result{}, errors.New("rate limiter burst must be positive")
	}

	now := t.clock.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	t.prune(now, rate, burst)

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: float64(burst), ts: now}
		t.buckets[key] = b
	} else {
		delta := now.Sub(b.ts)
		if delta < 0 {
			delta = 0
		}
		b.tokens = math.Min(float64(burst), b.tokens+delta.Seconds()*rate)
		b.ts = now
	}

	res := Result{}
	if b.tokens >= 1 {
		b.tokens--
		res.Allowed = true
	} else if needed := 1 - b.tokens; needed > 0 {
		res.RetryAfter = time.Duration(needed / rate * float64(time.Second))
	}
	res.Remaining = int(b.tokens)
	return res, nil
}

// prune drops buckets that have been idle long enough to refill
// completely; keeping them would leak one entry per client forever.
func (t *TokenBucket) prune(now time.Time, rate float64, burst int) {
	idle := time.Duration(float64(burst)/rate*2) * time.Second
	if idle < time.Second {
		idle = time.Second
	}
	for key, b := range t.buckets {
		if now.Sub(b.ts) > idle {
			delete(t.buckets, key)
		}
	}
}
