package throttle

import (
	"sync"
	"time"
)

// Throttle coalesces frequent Update calls into deliveries at most one
// per interval. A delivery replaces the observable value and invokes
// the notify callback, if any. Superseded intermediate values are
// dropped; the last value of a burst is always delivered by the single
// scheduled trailing flush.
type Throttle[T any] struct {
	mu      sync.Mutex
	win     *window
	initial T
	cur     T
	pending T
	hasPend bool
	timer   *time.Timer
	notify  func(T)
	same    func(next, delivered T) bool
}

// Option configures a [Throttle].
type Option[T any] func(*Throttle[T])

// WithNotify registers the delivery callback: the view layer's "render
// on latest value" bind. It is invoked outside the throttle's lock,
// once per delivered value, in delivery order.
func WithNotify[T any](fn func(T)) Option[T] {
	return func(t *Throttle[T]) {
		t.notify = fn
	}
}

// WithDedupe suppresses updates that same reports as equal to the last
// delivered value. Used to drop no-change churn before it even enters
// the window logic.
func WithDedupe[T any](same func(next, delivered T) bool) Option[T] {
	return func(t *Throttle[T]) {
		t.same = same
	}
}

// New creates a throttle delivering at most one value per interval.
// Panics if interval is not positive.
func New[T any](initial T, interval time.Duration, opts ...Option[T]) *Throttle[T] {
	t := &Throttle[T]{
		win:     newWindow(interval),
		initial: initial,
		cur:     initial,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Update offers a new value. Delivered immediately if the window is
// open; otherwise it becomes the pending value picked up by the single
// scheduled trailing flush. A second Update during the wait does not
// schedule a second flush — it only replaces the pending value.
func (t *Throttle[T]) Update(v T) {
	t.mu.Lock()
	if t.same != nil && t.same(v, t.cur) {
		t.mu.Unlock()
		return
	}
	if t.win.allow() {
		t.stopTimerLocked()
		t.hasPend = false
		t.deliverLocked(v)
		return
	}
	t.pending = v
	t.hasPend = true
	if t.timer == nil {
		t.timer = time.AfterFunc(t.win.delay(), t.flush)
	}
	t.mu.Unlock()
}

// ForceUpdate cancels any scheduled flush and delivers v immediately,
// bypassing the interval. For semantically critical transitions — an
// explicit jump rather than a continuous drag.
func (t *Throttle[T]) ForceUpdate(v T) {
	t.mu.Lock()
	// The stopped flush's reservation stands in for this delivery, so
	// the window is not consumed again.
	t.stopTimerLocked()
	t.hasPend = false
	t.deliverLocked(v)
}

// flush runs once per scheduled trailing delivery. It reads the pending
// value at fire time, not at schedule time: updates during the wait
// window replace what the flush will deliver.
func (t *Throttle[T]) flush() {
	t.mu.Lock()
	t.timer = nil
	if !t.hasPend {
		t.mu.Unlock()
		return
	}
	v := t.pending
	t.hasPend = false
	t.deliverLocked(v)
}

// deliverLocked records v as current and invokes notify outside the
// lock. Callers must hold mu; it is released here.
func (t *Throttle[T]) deliverLocked(v T) {
	t.cur = v
	fn := t.notify
	t.mu.Unlock()
	if fn != nil {
		fn(v)
	}
}

func (t *Throttle[T]) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Value returns the last delivered value.
func (t *Throttle[T]) Value() T {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.cur
}

// Reset cancels any scheduled flush, clears buffered state and returns
// the observable value to the initial one. The reset is not a delivery:
// notify is not invoked. Idempotent.
func (t *Throttle[T]) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTimerLocked()
	t.hasPend = false
	var zero T
	t.pending = zero
	t.cur = t.initial
	t.win.reset()
}
