// Package ratelimit provides the shared request-pacing policy used by every
// network-calling component: a randomized jitter delay between consecutive
// requests to the same target, so repeated fetches never form a fixed-period
// burst pattern.
package ratelimit

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

// JitterLimiter enforces a randomized minimum delay between requests to the
// same target. The delay is drawn uniformly from [minDelay, maxDelay) per
// request, so consecutive waits differ.
type JitterLimiter struct {
	mu       sync.Mutex
	lastCall map[string]time.Time // key: target name
	minDelay time.Duration
	maxDelay time.Duration
}

// NewJitterLimiter creates a limiter with the given delay bounds.
// If maxDelay <= minDelay the delay is fixed at minDelay.
func NewJitterLimiter(minDelay, maxDelay time.Duration) *JitterLimiter {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &JitterLimiter{
		lastCall: make(map[string]time.Time),
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

// delay draws the gap to enforce before the next request to a target.
func (r *JitterLimiter) delay() time.Duration {
	if r.maxDelay <= r.minDelay {
		return r.minDelay
	}
	spread := r.maxDelay - r.minDelay
	return r.minDelay + time.Duration(rand.Int64N(int64(spread)))
}

// Wait blocks until enough time has passed since the last request to the
// given target. Returns an error if the context is cancelled while waiting.
func (r *JitterLimiter) Wait(ctx context.Context, target string) error {
	r.mu.Lock()
	last, ok := r.lastCall[target]
	now := time.Now()

	if !ok {
		// First request for this target, no wait needed.
		r.lastCall[target] = now
		r.mu.Unlock()
		return nil
	}

	required := r.delay()
	elapsed := now.Sub(last)
	if elapsed >= required {
		r.lastCall[target] = now
		r.mu.Unlock()
		return nil
	}

	remaining := required - elapsed
	r.mu.Unlock()

	select {
	case <-ctx.Done():
		return fmt.Errorf("rate limiter wait for %s: %w", target, ctx.Err())
	case <-time.After(remaining):
	}

	// Record the actual time after waiting.
	r.mu.Lock()
	r.lastCall[target] = time.Now()
	r.mu.Unlock()

	return nil
}
