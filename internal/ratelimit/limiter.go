// Package ratelimit spaces outbound requests to a fixed maximum rate.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter enforces a minimum spacing of 1/maxPerSecond between calls.
// A nil or disabled Limiter never blocks.
type Limiter struct {
	lim *rate.Limiter
}

// New returns a limiter allowing maxPerSecond calls per second with no burst.
// maxPerSecond <= 0 disables limiting.
func New(maxPerSecond float64) *Limiter {
	if maxPerSecond <= 0 {
		return &Limiter{}
	}
	return &Limiter{lim: rate.NewLimiter(rate.Limit(maxPerSecond), 1)}
}

// Interval returns the minimum spacing between calls, or zero if disabled.
func (l *Limiter) Interval() time.Duration {
	if l == nil || l.lim == nil {
		return 0
	}
	return time.Duration(float64(time.Second) / float64(l.lim.Limit()))
}

// Wait blocks until the next call may proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	if l == nil || l.lim == nil {
		return ctx.Err()
	}
	return l.lim.Wait(ctx)
}

// Do waits for a slot and then runs fn.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Wait(ctx); err != nil {
		return err
	}
	return fn()
}
