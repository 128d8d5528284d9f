package uiflow

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScreenScope binds a [Scope] to a request-cancellation namespace in a
// [RequestRegistry]. It is the unit a screen creates on mount and
// destroys on unmount: one Destroy cancels the screen's tasks, its
// child scopes and every network request tagged with the screen's
// prefix.
type ScreenScope struct {
	name  string
	scope *Scope
	reg   *RequestRegistry
}

// NewScreenScope creates a scope for the named screen. Requests tracked
// through it are tagged "name/". If reg is nil the screen gets a
// private registry.
func NewScreenScope(name string, reg *RequestRegistry, opts ...Option) *ScreenScope {
	if reg == nil {
		reg = NewRequestRegistry(opts...)
	}
	return &ScreenScope{
		name:  name,
		scope: NewScope(name, opts...),
		reg:   reg,
	}
}

// Scope returns the wrapped task scope.
func (s *ScreenScope) Scope() *Scope { return s.scope }

// Run delegates to the wrapped scope.
func (s *ScreenScope) Run(name string, fn func(ctx context.Context)) *TaskHandle {
	return s.scope.Run(name, fn)
}

// RunErr delegates to the wrapped scope.
func (s *ScreenScope) RunErr(name string, fn func(ctx context.Context) error) *TaskHandle {
	return s.scope.RunErr(name, fn)
}

// RunAfter delegates to the wrapped scope.
func (s *ScreenScope) RunAfter(name string, d time.Duration, fn func(ctx context.Context)) *TaskHandle {
	return s.scope.RunAfter(name, d, fn)
}

// Child returns a named child scope for a sub-region of the screen.
// Returns nil after Destroy.
func (s *ScreenScope) Child(id string) *Scope {
	return s.scope.Child(id)
}

// TrackRequest registers an in-flight request under the screen's
// namespace and returns its context and release function. An empty
// suffix gets a generated identity, still inside the namespace so
// teardown sweeps it. If the screen is already destroyed the request is
// born cancelled.
func (s *ScreenScope) TrackRequest(suffix string) (context.Context, context.CancelFunc) {
	if suffix == "" {
		suffix = uuid.NewString()
	}
	ctx, release := s.reg.Track(s.name + "/" + suffix)
	// Destroy may have swept the namespace between Track and here;
	// re-checking closes that window.
	if s.scope.Destroyed() {
		release()
	}
	return ctx, release
}

// CancelAllRequests cancels every in-flight request in the screen's
// namespace. The scope itself stays active.
func (s *ScreenScope) CancelAllRequests() {
	s.reg.CancelPrefix(s.name + "/")
}

// Destroy tears the screen down: the wrapped scope and all its children
// are destroyed and every request in the screen's namespace is
// cancelled. Idempotent.
func (s *ScreenScope) Destroy() {
	s.scope.Destroy()
	s.reg.CancelPrefix(s.name + "/")
}

// Destroyed reports whether Destroy has been called.
func (s *ScreenScope) Destroyed() bool {
	return s.scope.Destroyed()
}
