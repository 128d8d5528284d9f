package uiflow

import (
	"context"
	"sync"
	"time"
)

// Semaphore is a counting semaphore with a strict FIFO waiter queue.
//
// Unlike a channel-based semaphore, Signal hands the permit directly to
// the head of the queue instead of incrementing a counter that waiters
// race for. This guarantees wakeup order matches wait order and closes
// the lost-wakeup window where a permit is incremented while a waiter
// is still parked.
type Semaphore struct {
	mu      sync.Mutex
	permits int
	waiters []*semWaiter
}

// semWaiter is parked in the queue until a permit is handed to it.
// ready is closed exactly once, by signalLocked, to transfer the permit.
type semWaiter struct {
	ready chan struct{}
}

// NewSemaphore creates a semaphore with n initial permits.
// Panics if n is negative.
func NewSemaphore(n int) *Semaphore {
	if n < 0 {
		panic("uiflow: NewSemaphore requires n >= 0")
	}
	return &Semaphore{permits: n}
}

// Wait blocks until a permit is available or ctx is done.
// Returns nil on acquisition, ctx.Err() on cancellation.
//
// If the permit hand-off and the cancellation race and the hand-off
// wins, the permit is returned to the pool before Wait reports the
// cancellation, so no permit is ever lost to a timed-out waiter.
func (s *Semaphore) Wait(ctx context.Context) error {
	s.mu.Lock()
	// waiters is non-empty only while permits == 0: Signal prefers the
	// queue head over the counter, and Wait only enqueues on zero.
	if s.permits > 0 {
		s.permits--
		s.mu.Unlock()
		return nil
	}
	w := &semWaiter{ready: make(chan struct{})}
	s.waiters = append(s.waiters, w)
	s.mu.Unlock()

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		s.mu.Lock()
		select {
		case <-w.ready:
			// Granted after cancellation was requested. Give the
			// phantom permit back rather than consuming it silently.
			s.signalLocked()
		default:
			s.removeWaiterLocked(w)
		}
		s.mu.Unlock()
		return ctx.Err()
	}
}

// WaitTimeout races a timer against acquisition.
// Returns true if a permit was acquired within d, false on timeout.
func (s *Semaphore) WaitTimeout(d time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), d)
	defer cancel()
	return s.Wait(ctx) == nil
}

// TryWait consumes a permit if one is immediately available.
func (s *Semaphore) TryWait() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.permits > 0 {
		s.permits--
		return true
	}
	return false
}

// Signal releases a permit. If waiters are queued, the permit is handed
// directly to the head of the queue; otherwise the counter is incremented.
func (s *Semaphore) Signal() {
	s.mu.Lock()
	s.signalLocked()
	s.mu.Unlock()
}

func (s *Semaphore) signalLocked() {
	if len(s.waiters) > 0 {
		w := s.waiters[0]
		s.waiters = s.waiters[1:]
		close(w.ready)
		return
	}
	s.permits++
}

func (s *Semaphore) removeWaiterLocked(w *semWaiter) {
	for i, q := range s.waiters {
		if q == w {
			s.waiters = append(s.waiters[:i], s.waiters[i+1:]...)
			return
		}
	}
}

// Available returns the number of free permits.
// The value may be stale in concurrent contexts.
func (s *Semaphore) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.permits
}

// Waiters returns the number of callers currently parked in Wait.
// The value may be stale in concurrent contexts.
func (s *Semaphore) Waiters() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.waiters)
}
