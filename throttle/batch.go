package throttle

import (
	"sync"
	"time"
)

// Batch buffers appended items and flushes them as one batch when the
// buffer reaches flushSize or when interval has elapsed since the first
// buffered item, whichever comes first. Flushed items are appended to a
// ring of the most recent maxSamples items — the shape a waveform or
// level-history view reads.
type Batch[T any] struct {
	mu         sync.Mutex
	interval   time.Duration
	flushSize  int
	maxSamples int
	buf        []T
	samples    []T
	timer      *time.Timer
	notify     func([]T)
}

// BatchOption configures a [Batch].
type BatchOption[T any] func(*Batch[T])

// WithBatchNotify registers the delivery callback. It receives each
// flushed batch, outside the lock, in flush order.
func WithBatchNotify[T any](fn func([]T)) BatchOption[T] {
	return func(b *Batch[T]) {
		b.notify = fn
	}
}

// NewBatch creates a batch throttle. flushSize bounds the buffer,
// maxSamples caps the retained ring. Panics if interval, flushSize or
// maxSamples is not positive.
func NewBatch[T any](interval time.Duration, flushSize, maxSamples int, opts ...BatchOption[T]) *Batch[T] {
	if interval <= 0 {
		panic("throttle: NewBatch requires interval > 0")
	}
	if flushSize <= 0 {
		panic("throttle: NewBatch requires flushSize > 0")
	}
	if maxSamples <= 0 {
		panic("throttle: NewBatch requires maxSamples > 0")
	}
	b := &Batch[T]{
		interval:   interval,
		flushSize:  flushSize,
		maxSamples: maxSamples,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Append buffers one item. The interval timer starts with the first
// item of a batch; reaching flushSize flushes without waiting for it.
func (b *Batch[T]) Append(item T) {
	b.mu.Lock()
	b.buf = append(b.buf, item)

	if len(b.buf) >= b.flushSize {
		b.stopTimerLocked()
		b.flushLocked()
		return
	}
	if b.timer == nil {
		b.timer = time.AfterFunc(b.interval, b.scheduledFlush)
	}
	b.mu.Unlock()
}

// Flush delivers any buffered items immediately. No-op on an empty buffer.
func (b *Batch[T]) Flush() {
	b.mu.Lock()
	b.stopTimerLocked()
	if len(b.buf) == 0 {
		b.mu.Unlock()
		return
	}
	b.flushLocked()
}

func (b *Batch[T]) scheduledFlush() {
	b.mu.Lock()
	b.timer = nil
	if len(b.buf) == 0 {
		b.mu.Unlock()
		return
	}
	b.flushLocked()
}

// flushLocked appends the buffer to the sample ring, trims to
// maxSamples and notifies outside the lock. Callers must hold mu; it is
// released here.
func (b *Batch[T]) flushLocked() {
	batch := b.buf
	b.buf = nil

	b.samples = append(b.samples, batch...)
	if excess := len(b.samples) - b.maxSamples; excess > 0 {
		kept := make([]T, b.maxSamples)
		copy(kept, b.samples[excess:])
		b.samples = kept
	}

	fn := b.notify
	b.mu.Unlock()
	if fn != nil {
		fn(batch)
	}
}

func (b *Batch[T]) stopTimerLocked() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// Samples returns a copy of the retained ring, oldest first.
func (b *Batch[T]) Samples() []T {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := make([]T, len(b.samples))
	copy(out, b.samples)
	return out
}

// Buffered returns the number of items awaiting flush.
func (b *Batch[T]) Buffered() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.buf)
}

// Reset cancels any scheduled flush and clears both the buffer and the
// sample ring. Idempotent.
func (b *Batch[T]) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.stopTimerLocked()
	b.buf = nil
	b.samples = nil
}
