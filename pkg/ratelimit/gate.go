// Package ratelimit spaces outbound provider calls with a fixed-interval
// gate. The gate replaces a bare sleep between calls so the interval can be
// tuned from configuration and driven by a fake clock in tests.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Gate enforces a minimum interval between successive operations. The first
// Wait returns immediately; every later Wait blocks until the interval has
// elapsed since the previous slot. Safe for concurrent use.
type Gate struct {
	interval time.Duration

	mu   sync.Mutex
	next time.Time

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewGate creates a gate with the given interval. A non-positive interval
// yields a gate that never blocks.
func NewGate(interval time.Duration) *Gate {
	return &Gate{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the gate opens or ctx is done.
func (g *Gate) Wait(ctx context.Context) error {
	if g == nil || g.interval <= 0 {
		return ctx.Err()
	}

	g.mu.Lock()
	now := g.now()
	wait := g.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	// Reserve the next slot before sleeping so concurrent callers queue up
	// rather than all firing at once.
	g.next = now.Add(wait + g.interval)
	g.mu.Unlock()

	if wait == 0 {
		return ctx.Err()
	}
	return g.sleep(ctx, wait)
}

// Interval returns the configured spacing between operations.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
