// Package jobmgr provides lightweight job scheduling: fire-and-forget
// one-shot timers, named repeating jobs, and asynchronous jobs with
// cancellation and in-memory tracking.
//
// Typical usage:
//
//	jm := jobmgr.NewManager(func(msg string) {
//	    log.Println("JOB:", msg)
//	})
//
//	jm.Once(5*time.Second, func() { clearFlag() })
//
//	_ = jm.Every("presence", 30*time.Second, func() { rotate() })
//	// later...
//	_ = jm.Stop("presence")
//
// The package is intentionally minimal: no retry logic, no workers, no
// persistence. Jobs run in separate goroutines and repeating or async jobs
// are removed from tracking when they end.
package jobmgr

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// Job is a running unit of work tracked by a Manager.
type Job struct {
	Name   string
	Cancel context.CancelFunc
}

// StatusReporter receives lifecycle events for tracked jobs.
// Example messages:
//
//	running:presence
//	error:presence:connection reset
//	done:presence
type StatusReporter func(string)

// Manager starts, stops and tracks jobs. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	jobs     map[string]*Job
	Reporter StatusReporter
}

// NewManager creates a Manager. The reporter callback may be nil.
func NewManager(reporter StatusReporter) *Manager {
	return &Manager{
		jobs:     make(map[string]*Job),
		Reporter: reporter,
	}
}

// Once runs fn exactly once after the delay. The timer is fire-and-forget:
// it is not tracked and cannot be cancelled.
func (m *Manager) Once(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

// Every runs fn at the given interval until the job is stopped. If a job
// with the same name is already running, an error is returned.
func (m *Manager) Every(name string, interval time.Duration, fn func()) error {
	return m.StartAsync(name, func(ctx context.Context) error {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				fn()
			}
		}
	})
}

// StartAsync runs a job in a separate goroutine and returns immediately.
// If a job with the same name is already running, an error is returned.
// Jobs are removed from tracking when they end, whether they succeed or fail.
func (m *Manager) StartAsync(name string, runner func(ctx context.Context) error) error {
	ctx, cancel := context.WithCancel(context.Background())
	job := &Job{Name: name, Cancel: cancel}

	m.mu.Lock()
	if _, exists := m.jobs[name]; exists {
		m.mu.Unlock()
		cancel()
		return fmt.Errorf("job '%s' is already running", name)
	}
	m.jobs[name] = job
	m.mu.Unlock()

	go func() {
		m.report("running:" + name)

		if err := runner(ctx); err != nil {
			m.report("error:" + name + ":" + err.Error())
		} else {
			m.report("done:" + name)
		}

		m.mu.Lock()
		delete(m.jobs, name)
		m.mu.Unlock()
	}()

	return nil
}

// Stop cancels a running job by name. If the job is not running, an error
// is returned.
func (m *Manager) Stop(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.jobs[name]
	if !ok {
		return fmt.Errorf("job '%s' not running", name)
	}

	job.Cancel()
	delete(m.jobs, name)
	return nil
}

// StopAll cancels every tracked job.
func (m *Manager) StopAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, job := range m.jobs {
		job.Cancel()
		delete(m.jobs, name)
	}
}

// List returns the names of active jobs.
func (m *Manager) List() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, 0, len(m.jobs))
	for k := range m.jobs {
		out = append(out, k)
	}
	return out
}

// Status returns a human-readable summary of active jobs.
func (m *Manager) Status() string {
	active := m.List()
	if len(active) == 0 {
		return "No jobs are running."
	}
	return fmt.Sprintf("Running jobs: %s", strings.Join(active, ", "))
}

func (m *Manager) report(s string) {
	if m.Reporter != nil {
		m.Reporter(s)
	}
}
