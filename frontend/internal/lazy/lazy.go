// Package lazy loads resources on first use, retrying transient failures.
package lazy

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/mousey-app/dashboard/shared/logger"
	"github.com/mousey-app/dashboard/shared/middleware/metrics"
)

const (
	DefaultAttempts = 5
	DefaultInterval = 500 * time.Millisecond
)

// Retry calls op up to attempts times, sleeping interval between calls.
// The error of the final attempt is returned as is.
func Retry(ctx context.Context, attempts int, interval time.Duration, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1)),
		ctx,
	)

	var last error
	err := backoff.Retry(func() error {
		last = op()
		return last
	}, b)
	if err != nil && last != nil && ctx.Err() == nil {
		return last
	}
	return err
}

// Loader produces a module's value.
type Loader[T any] func(ctx context.Context) (T, error)

// Module is a lazily evaluated handle. Only one load runs at a time and a
// success is kept until Reset; failures are not kept so the next Get retries.
type Module[T any] struct {
	Name     string
	Attempts int
	Interval time.Duration

	load   Loader[T]
	mu     sync.Mutex
	value  T
	loaded bool
}

func New[T any](name string, load Loader[T]) *Module[T] {
	return &Module[T]{
		Name:     name,
		Attempts: DefaultAttempts,
		Interval: DefaultInterval,
		load:     load,
	}
}

// Get returns the loaded value, loading it first if needed.
func (m *Module[T]) Get(ctx context.Context) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.loaded {
		return m.value, nil
	}

	var v T
	attempt := 0
	err := Retry(ctx, m.Attempts, m.Interval, func() error {
		attempt++
		var err error
		v, err = m.load(ctx)
		if err != nil {
			metrics.ModuleLoadAttempts.WithLabelValues(m.Name, "error").Inc()
			logger.Log.Warn("module load failed", "module", m.Name, "attempt", attempt, "error", err)
			return err
		}
		metrics.ModuleLoadAttempts.WithLabelValues(m.Name, "ok").Inc()
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	m.value = v
	m.loaded = true
	return v, nil
}

// Reset drops the cached value; the next Get loads again.
func (m *Module[T]) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	m.value = zero
	m.loaded = false
}
