package uiflow

import (
	"time"

	"go.uber.org/zap"
)

type config struct {
	limit      int
	logger     *zap.Logger
	metrics    *Metrics
	onTaskDone func(TaskInfo, error, time.Duration)
}

// Option configures a [Scope], [ScreenScope] or [RequestRegistry].
type Option func(*config)

func defaultConfig() config {
	return config{
		logger: zap.NewNop(),
	}
}

// WithLimit bounds the number of tasks executing concurrently within the
// scope. Admission is gated through a FIFO [Semaphore]: tasks beyond
// the limit wait for a permit in arrival order, respecting cancellation
// while waiting.
//
// A limit of zero (the default) means unlimited concurrency.
// WithLimit panics if n is negative.
func WithLimit(n int) Option {
	if n < 0 {
		panic("uiflow: limit must be non-negative")
	}
	return func(c *config) {
		c.limit = n
	}
}

// WithLogger sets the logger for lifecycle events: dropped submissions
// on destroyed scopes, recovered task panics, request cancellation
// sweeps. The default is a nop logger.
//
// Panics if l is nil.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("uiflow: WithLogger requires a non-nil logger")
	}
	return func(c *config) {
		c.logger = l
	}
}

// WithMetrics attaches prometheus instrumentation. The same [*Metrics]
// value may be shared by any number of scopes and registries.
func WithMetrics(m *Metrics) Option {
	if m == nil {
		panic("uiflow: WithMetrics requires non-nil metrics")
	}
	return func(c *config) {
		c.metrics = m
	}
}

// WithOnTaskDone registers a hook invoked when each task finishes.
// The hook receives the task's error (nil on success and on
// cancellation) and wall-clock duration. It runs inside the task's
// goroutine after the task function returns.
func WithOnTaskDone(fn func(TaskInfo, error, time.Duration)) Option {
	return func(c *config) {
		c.onTaskDone = fn
	}
}
