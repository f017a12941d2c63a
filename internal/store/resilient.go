package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/progracyd/newsim/internal/model"
)

// BackoffConfig bounds the retry loop wrapping every adapter call.
type BackoffConfig struct {
	InitialDelay time.Duration
	MaxDelay     time.Duration
	MaxAttempts  int
}

// DefaultBackoff is a bounded exponential backoff: a handful of
// attempts, doubling up to a one-second ceiling.
var DefaultBackoff = BackoffConfig{
	InitialDelay: 10 * time.Millisecond,
	MaxDelay:     1 * time.Second,
	MaxAttempts:  5,
}

// Resilient wraps an Adapter with a circuit breaker, a bounded
// exponential backoff retry loop, and a rate limiter throttling
// outbound calls. Every call that ultimately fails returns
// model.ErrAdapterUnavailable so callers can apply a uniform
// per-partition failure policy.
type Resilient struct {
	inner   Adapter
	cb      *gobreaker.CircuitBreaker
	limiter *rate.Limiter
	backoff BackoffConfig
}

// NewResilient wraps inner. limiter may be nil to disable throttling.
func NewResilient(inner Adapter, limiter *rate.Limiter, backoff BackoffConfig) *Resilient {
	st := gobreaker.Settings{
		Name:        "persistence-adapter",
		MaxRequests: 1,
		Interval:    30 * time.Second,
		Timeout:     5 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.Requests >= 5 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
	}
	return &Resilient{
		inner:   inner,
		cb:      gobreaker.NewCircuitBreaker(st),
		limiter: limiter,
		backoff: backoff,
	}
}

func (r *Resilient) call(ctx context.Context, fn func() error) error {
	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("%w: rate limiter: %v", model.ErrAdapterUnavailable, err)
		}
	}

	delay := r.backoff.InitialDelay
	var lastErr error
	for attempt := 0; attempt < r.backoff.MaxAttempts; attempt++ {
		_, err := r.cb.Execute(func() (interface{}, error) {
			return nil, fn()
		})
		if err == nil {
			return nil
		}
		lastErr = err
		if attempt == r.backoff.MaxAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", model.ErrAdapterUnavailable, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
		if delay > r.backoff.MaxDelay {
			delay = r.backoff.MaxDelay
		}
	}
	return fmt.Errorf("%w: %v", model.ErrAdapterUnavailable, lastErr)
}

func (r *Resilient) HSet(ctx context.Context, key, field, value string) error {
	return r.call(ctx, func() error { return r.inner.HSet(ctx, key, field, value) })
}

func (r *Resilient) HGet(ctx context.Context, key, field string) (string, bool, error) {
	var val string
	var found bool
	err := r.call(ctx, func() error {
		v, ok, err := r.inner.HGet(ctx, key, field)
		val, found = v, ok
		return err
	})
	return val, found, err
}

func (r *Resilient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	var out map[string]string
	err := r.call(ctx, func() error {
		v, err := r.inner.HGetAll(ctx, key)
		out = v
		return err
	})
	return out, err
}

func (r *Resilient) SAdd(ctx context.Context, key, member string) error {
	return r.call(ctx, func() error { return r.inner.SAdd(ctx, key, member) })
}

func (r *Resilient) SMembers(ctx context.Context, key string) ([]string, error) {
	var out []string
	err := r.call(ctx, func() error {
		v, err := r.inner.SMembers(ctx, key)
		out = v
		return err
	})
	return out, err
}

func (r *Resilient) SCard(ctx context.Context, key string) (int, error) {
	var n int
	err := r.call(ctx, func() error {
		v, err := r.inner.SCard(ctx, key)
		n = v
		return err
	})
	return n, err
}

var _ Adapter = (*Resilient)(nil)
