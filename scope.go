package uiflow

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Scope is a cancellable bag of concurrent tasks bound to a logical UI
// lifetime: a screen, or a sub-region of one. Tasks submitted via Run,
// RunErr and RunAfter are tracked until completion and cancelled when
// the scope is destroyed. Child scopes form a tree; destruction
// cascades top-down only.
//
// A destroyed scope accepts no new submissions: Run and friends return
// nil and the work is silently dropped. Teardown races between a view
// unmounting and an event handler still firing are expected, so this is
// not treated as misuse.
type Scope struct {
	id  string
	cfg config

	ctx    context.Context
	cancel context.CancelFunc

	// Admission gate for WithLimit; nil means unlimited.
	sem *Semaphore

	mu        sync.Mutex
	destroyed bool
	nextTask  uint64
	tasks     map[uint64]*TaskHandle
	children  map[string]*Scope

	errMu sync.Mutex
	errs  []*TaskError

	spawned atomic.Int64
	active  atomic.Int64
	dropped atomic.Int64
}

// TaskHandle identifies one tracked task and allows cancelling it
// individually without touching its siblings.
type TaskHandle struct {
	info   TaskInfo
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel requests cancellation of this task only.
// Cancellation is cooperative: the task observes it via its context.
func (h *TaskHandle) Cancel() { h.cancel() }

// Done is closed when the task has fully finished, whether it completed,
// failed or was cancelled.
func (h *TaskHandle) Done() <-chan struct{} { return h.done }

// Info returns the task's identity.
func (h *TaskHandle) Info() TaskInfo { return h.info }

// NewScope creates an active scope with the given identifier.
// The caller must eventually call [Scope.Destroy] exactly once, usually
// from the owning view's teardown hook; a scope that is never destroyed
// leaks its running tasks until they complete naturally.
func NewScope(id string, opts ...Option) *Scope {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return newScope(id, context.Background(), cfg)
}

func newScope(id string, parent context.Context, cfg config) *Scope {
	ctx, cancel := context.WithCancel(parent)
	s := &Scope{
		id:       id,
		cfg:      cfg,
		ctx:      ctx,
		cancel:   cancel,
		tasks:    make(map[uint64]*TaskHandle),
		children: make(map[string]*Scope),
	}
	if cfg.limit > 0 {
		s.sem = NewSemaphore(cfg.limit)
	}
	return s
}

// ID returns the scope's full identifier. Child identifiers are
// namespaced under the parent, e.g. "reader/side-panel".
func (s *Scope) ID() string { return s.id }

// Run spawns fn as a tracked task. Returns nil if the scope is
// destroyed; the work is dropped.
func (s *Scope) Run(name string, fn func(ctx context.Context)) *TaskHandle {
	return s.spawn(name, 0, func(ctx context.Context) error {
		fn(ctx)
		return nil
	}, false)
}

// RunErr spawns fn as a tracked task whose failure is recorded.
// Errors are wrapped in [*TaskError] and aggregated by [Scope.Errs].
// Cancellation is not a failure: an error returned after the task's
// context is done is discarded. Returns nil if the scope is destroyed.
func (s *Scope) RunErr(name string, fn func(ctx context.Context) error) *TaskHandle {
	return s.spawn(name, 0, fn, true)
}

// RunAfter spawns fn after an initial cancellable delay. If the task is
// cancelled during the delay, fn never executes. Returns nil if the
// scope is destroyed.
func (s *Scope) RunAfter(name string, d time.Duration, fn func(ctx context.Context)) *TaskHandle {
	return s.spawn(name, d, func(ctx context.Context) error {
		fn(ctx)
		return nil
	}, false)
}

func (s *Scope) spawn(name string, delay time.Duration, fn func(ctx context.Context) error, trackErr bool) *TaskHandle {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		s.dropped.Add(1)
		if s.cfg.metrics != nil {
			s.cfg.metrics.tasksDropped.Inc()
		}
		s.cfg.logger.Debug("task dropped on destroyed scope",
			zap.String("scope", s.id), zap.String("task", name))
		return nil
	}

	id := s.nextTask
	s.nextTask++

	tctx, tcancel := context.WithCancel(s.ctx)
	h := &TaskHandle{
		info:   TaskInfo{Scope: s.id, Name: name},
		cancel: tcancel,
		done:   make(chan struct{}),
	}
	s.tasks[id] = h
	s.mu.Unlock()

	s.spawned.Add(1)
	if s.cfg.metrics != nil {
		s.cfg.metrics.tasksSpawned.Inc()
	}

	go func() {
		defer close(h.done)
		defer func() {
			tcancel()
			s.mu.Lock()
			delete(s.tasks, id)
			s.mu.Unlock()
		}()

		if delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-t.C:
			case <-tctx.Done():
				t.Stop()
				return
			}
		}

		if s.sem != nil {
			if err := s.sem.Wait(tctx); err != nil {
				return
			}
			defer s.sem.Signal()
		}

		if tctx.Err() != nil {
			return
		}

		s.active.Add(1)
		if s.cfg.metrics != nil {
			s.cfg.metrics.tasksActive.Inc()
		}
		start := time.Now()
		err := s.exec(tctx, h.info, fn)
		elapsed := time.Since(start)
		s.active.Add(-1)
		if s.cfg.metrics != nil {
			s.cfg.metrics.tasksActive.Dec()
		}

		cancelled := tctx.Err() != nil
		if cancelled {
			err = nil
		}
		if s.cfg.onTaskDone != nil {
			s.cfg.onTaskDone(h.info, err, elapsed)
		}
		if err != nil && trackErr {
			s.recordError(h.info, err)
		}
	}()

	return h
}

// exec runs fn with panic recovery. A recovered panic is logged and
// returned as a [*PanicError] so RunErr tasks keep attribution.
func (s *Scope) exec(ctx context.Context, info TaskInfo, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			pe := newPanicError(r)
			s.cfg.logger.Error("task panic recovered",
				zap.String("scope", info.Scope),
				zap.String("task", info.Name),
				zap.Any("value", pe.Value),
				zap.String("stack", pe.Stack))
			err = pe
		}
	}()
	return fn(ctx)
}

func (s *Scope) recordError(info TaskInfo, err error) {
	s.errMu.Lock()
	s.errs = append(s.errs, &TaskError{Task: info, Err: err})
	s.errMu.Unlock()
}

// Errs returns all failures recorded by RunErr tasks so far, joined via
// [errors.Join]. Returns nil if no task has failed.
func (s *Scope) Errs() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	if len(s.errs) == 0 {
		return nil
	}
	errs := make([]error, 0, len(s.errs))
	for _, te := range s.errs {
		errs = append(errs, te)
	}
	return errors.Join(errs...)
}

// Child returns the named child scope, creating it if needed. The child
// identifier is namespaced under the parent. The parent holds exclusive
// ownership: destroying the parent destroys the child. Returns nil if
// the scope is destroyed.
func (s *Scope) Child(id string) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.destroyed {
		s.cfg.logger.Debug("child scope dropped on destroyed scope",
			zap.String("scope", s.id), zap.String("child", id))
		return nil
	}
	if c, ok := s.children[id]; ok {
		return c
	}

	cfg := s.cfg
	cfg.limit = 0 // a limit bounds one scope's tasks, not the subtree
	c := newScope(s.id+"/"+id, s.ctx, cfg)
	s.children[id] = c
	return c
}

// CancelAll cancels every owned task and recurses into children.
// The scope stays active: new tasks may be submitted afterwards.
func (s *Scope) CancelAll() {
	s.mu.Lock()
	handles := make([]*TaskHandle, 0, len(s.tasks))
	for _, h := range s.tasks {
		handles = append(handles, h)
	}
	children := make([]*Scope, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, c)
	}
	s.mu.Unlock()

	for _, h := range handles {
		h.cancel()
	}
	for _, c := range children {
		c.CancelAll()
	}
}

// Destroy permanently tears the scope down: all owned tasks are
// cancelled, all children are recursively destroyed and dropped, and
// every subsequent submission is silently ignored. Destroy is
// idempotent.
func (s *Scope) Destroy() {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return
	}
	s.destroyed = true
	children := make([]*Scope, 0, len(s.children))
	for _, c := range s.children {
		children = append(children, c)
	}
	s.children = make(map[string]*Scope)
	s.tasks = make(map[uint64]*TaskHandle)
	s.mu.Unlock()

	// Cancelling the scope context cancels every task context derived
	// from it, including those owned by children.
	s.cancel()
	for _, c := range children {
		c.Destroy()
	}

	s.cfg.logger.Debug("scope destroyed", zap.String("scope", s.id))
}

// Destroyed reports whether Destroy has been called.
func (s *Scope) Destroyed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.destroyed
}

// ActiveTasks returns the number of tasks currently executing, not
// counting tasks still in their RunAfter delay or waiting for a permit.
func (s *Scope) ActiveTasks() int64 {
	return s.active.Load()
}

// TotalSpawned returns the total number of tasks accepted by this scope,
// including those that have already completed.
func (s *Scope) TotalSpawned() int64 {
	return s.spawned.Load()
}

// DroppedTasks returns the number of submissions ignored because the
// scope was already destroyed.
func (s *Scope) DroppedTasks() int64 {
	return s.dropped.Load()
}
