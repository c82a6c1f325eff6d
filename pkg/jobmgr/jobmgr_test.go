package jobmgr

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOnceFires(t *testing.T) {
	m := NewManager(nil)
	done := make(chan struct{})
	m.Once(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timer never fired")
	}
}

func TestEveryTicksUntilStopped(t *testing.T) {
	m := NewManager(nil)
	var ticks atomic.Int32
	require.NoError(t, m.Every("ticker", 5*time.Millisecond, func() { ticks.Add(1) }))

	assert.Eventually(t, func() bool { return ticks.Load() >= 3 }, time.Second, time.Millisecond)
	require.NoError(t, m.Stop("ticker"))

	assert.Eventually(t, func() bool { return len(m.List()) == 0 }, time.Second, time.Millisecond)
}

func TestStartAsyncRejectsDuplicateName(t *testing.T) {
	m := NewManager(nil)
	block := make(chan struct{})
	require.NoError(t, m.StartAsync("job", func(ctx context.Context) error {
		<-block
		return nil
	}))
	defer close(block)

	err := m.StartAsync("job", func(ctx context.Context) error { return nil })
	assert.Error(t, err)
}

func TestStopUnknownJob(t *testing.T) {
	m := NewManager(nil)
	assert.Error(t, m.Stop("ghost"))
}

func TestStopAllCancels(t *testing.T) {
	m := NewManager(nil)
	stopped := make(chan struct{})
	require.NoError(t, m.StartAsync("job", func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return nil
	}))

	m.StopAll()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("job never observed cancellation")
	}
	assert.Empty(t, m.List())
}

func TestReporterSeesLifecycle(t *testing.T) {
	events := make(chan string, 4)
	m := NewManager(func(s string) { events <- s })

	require.NoError(t, m.StartAsync("job", func(ctx context.Context) error { return nil }))

	assert.Equal(t, "running:job", <-events)
	assert.Equal(t, "done:job", <-events)
}

func TestStatus(t *testing.T) {
	m := NewManager(nil)
	assert.Equal(t, "No jobs are running.", m.Status())
}
