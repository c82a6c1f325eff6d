// Package ratequeue provides an adaptive rate limiter and a retrying
// request queue for outbound calls against rate-limited services. The
// limiter speeds up on success and backs off when the service reports a
// rate-limit condition.
//
// Example usage:
//
//	lim := ratequeue.NewLimiter(5, 1, 20)
//	q := ratequeue.NewQueue(lim, isRateLimitError)
//
//	err := q.Do(ctx, func() error {
//	    return sendMessage()
//	})
package ratequeue

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter wraps a token-bucket limiter whose rate adjusts with request
// outcomes: it creeps up after sustained success and is cut in half on a
// rate-limit response. Safe for concurrent use.
type Limiter struct {
	mu        sync.Mutex
	limiter   *rate.Limiter
	min       rate.Limit
	max       rate.Limit
	lastError time.Time
}

// NewLimiter creates a Limiter starting at initial requests per second,
// bounded by min and max.
func NewLimiter(initial, min, max rate.Limit) *Limiter {
	if initial < 1 {
		initial = 1
	}
	if min < 1 {
		min = 1
	}
	burst := int(initial)
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		limiter: rate.NewLimiter(initial, burst),
		min:     min,
		max:     max,
	}
}

// Wait blocks until a token is available or the context is cancelled.
func (l *Limiter) Wait(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return l.limiter.Wait(ctx)
}

// Success nudges the rate up after a successful request, unless a failure
// happened recently.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if time.Since(l.lastError) > 10*time.Second {
		l.set(l.limiter.Limit() + 1)
	}
}

// Throttle halves the rate after a rate-limit response.
func (l *Limiter) Throttle() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastError = time.Now()
	l.set(l.limiter.Limit() / 2)
}

// Limit returns the current requests per second.
func (l *Limiter) Limit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.limiter.Limit())
}

// set must be called with l.mu held.
func (l *Limiter) set(limit rate.Limit) {
	if limit > l.max {
		limit = l.max
	}
	if limit < l.min {
		limit = l.min
	}
	if limit != l.limiter.Limit() {
		l.limiter.SetLimit(limit)
		burst := int(limit)
		if burst < 1 {
			burst = 1
		}
		l.limiter.SetBurst(burst)
	}
}

// RateLimited classifies an error as a rate-limit condition. Rate-limited
// requests are retried with backoff; any other error ends the attempt.
type RateLimited func(error) bool

// Queue serializes outbound requests through a Limiter and retries those
// that fail with a rate-limit condition.
type Queue struct {
	lim         *Limiter
	rateLimited RateLimited

	// MaxAttempts bounds retries per request.
	MaxAttempts int
	// BaseDelay is the first retry delay; it doubles per attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// NewQueue creates a queue over the given limiter. rateLimited may be nil,
// in which case no error is retried.
func NewQueue(lim *Limiter, rateLimited RateLimited) *Queue {
	return &Queue{
		lim:         lim,
		rateLimited: rateLimited,
		MaxAttempts: 10,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    10 * time.Second,
	}
}

// Do executes fn through the limiter. Rate-limited failures are retried
// with exponential backoff until MaxAttempts is reached or the context is
// cancelled; the last error is returned. Other errors return immediately.
func (q *Queue) Do(ctx context.Context, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := q.BaseDelay

	var err error
	for attempt := 1; attempt <= q.MaxAttempts; attempt++ {
		if err = q.lim.Wait(ctx); err != nil {
			return err
		}

		err = fn()
		if err == nil {
			q.lim.Success()
			return nil
		}
		if q.rateLimited == nil || !q.rateLimited(err) {
			return err
		}

		q.lim.Throttle()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
		if delay > q.MaxDelay {
			delay = q.MaxDelay
		}
	}
	return err
}
