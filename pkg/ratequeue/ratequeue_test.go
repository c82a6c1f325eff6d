package ratequeue

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTooFast = errors.New("too fast")

func isTooFast(err error) bool { return errors.Is(err, errTooFast) }

func testQueue() *Queue {
	q := NewQueue(NewLimiter(100, 1, 100), isTooFast)
	q.BaseDelay = time.Millisecond
	q.MaxDelay = 2 * time.Millisecond
	return q
}

func TestDoSuccess(t *testing.T) {
	q := testQueue()
	calls := 0
	err := q.Do(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesRateLimited(t *testing.T) {
	q := testQueue()
	calls := 0
	err := q.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errTooFast
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoOtherErrorReturnsImmediately(t *testing.T) {
	q := testQueue()
	boom := errors.New("boom")
	calls := 0
	err := q.Do(context.Background(), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDoGivesUpAfterMaxAttempts(t *testing.T) {
	q := testQueue()
	q.MaxAttempts = 3
	calls := 0
	err := q.Do(context.Background(), func() error {
		calls++
		return errTooFast
	})
	assert.ErrorIs(t, err, errTooFast)
	assert.Equal(t, 3, calls)
}

func TestDoHonorsContextDuringBackoff(t *testing.T) {
	q := testQueue()
	q.BaseDelay = time.Minute
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- q.Do(ctx, func() error { return errTooFast })
	}()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancel")
	}
}

func TestDoNilClassifierNeverRetries(t *testing.T) {
	q := NewQueue(NewLimiter(100, 1, 100), nil)
	calls := 0
	err := q.Do(context.Background(), func() error {
		calls++
		return errTooFast
	})
	assert.ErrorIs(t, err, errTooFast)
	assert.Equal(t, 1, calls)
}

func TestLimiterThrottleAndRecovery(t *testing.T) {
	l := NewLimiter(8, 1, 20)
	assert.Equal(t, 8.0, l.Limit())

	l.Throttle()
	assert.Equal(t, 4.0, l.Limit())

	// Success right after a throttle keeps the rate down.
	l.Success()
	assert.Equal(t, 4.0, l.Limit())
}

func TestLimiterBounds(t *testing.T) {
	l := NewLimiter(2, 1, 2)
	l.Throttle()
	assert.Equal(t, 1.0, l.Limit())
	l.Throttle()
	assert.Equal(t, 1.0, l.Limit())
}
