package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"
)

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// Local is an in-process token bucket per key. Quota is not shared between
// replicas, so it only stands in for Upstash in development.
type Local struct {
	mu        sync.Mutex
	buckets   map[string]*tokenBucket
	rate      float64 // tokens per second
	burst     int
	window    time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewLocal allows bursts of max requests, refilled evenly over window.
func NewLocal(max int, window time.Duration) *Local {
	if window <= 0 {
		window = time.Second
	}
	return &Local{
		buckets: make(map[string]*tokenBucket),
		rate:    float64(max) / window.Seconds(),
		burst:   max,
		window:  window,
		now:     time.Now,
	}
}

// sweep drops buckets that have refilled completely. A full bucket behaves
// exactly like a missing one, so eviction never changes a decision.
func (l *Local) sweep(now time.Time) {
	for key, tb := range l.buckets {
		if tb.tokens+now.Sub(tb.last).Seconds()*l.rate >= float64(l.burst) {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

func (l *Local) Limit(_ context.Context, key string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	tb, ok := l.buckets[key]
	if !ok {
		tb = &tokenBucket{tokens: float64(l.burst), last: now}
		l.buckets[key] = tb
	}

	if elapsed := now.Sub(tb.last).Seconds(); elapsed > 0 {
		tb.tokens = math.Min(float64(l.burst), tb.tokens+elapsed*l.rate)
		tb.last = now
	}

	allowed := tb.tokens >= 1
	if allowed {
		tb.tokens--
	}

	var reset time.Time
	if missing := 1 - tb.tokens; missing > 0 && l.rate > 0 {
		reset = now.Add(time.Duration(missing / l.rate * float64(time.Second)))
	} else {
		reset = now
	}

	return Decision{
		Success:   allowed,
		Limit:     l.burst,
		Remaining: int(tb.tokens),
		Reset:     reset,
	}, nil
}
