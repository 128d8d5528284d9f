package paginate

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/baxromumarov/uiflow"
)

// DefaultDelay is the debounce window for [Controller.LoadMore].
const DefaultDelay = 300 * time.Millisecond

// Controller is a debounced, deduplicated, single-flight request
// dispatcher. A burst of LoadMore calls collapses into one delayed
// action — the last one scheduled wins — and a request id that is
// already executing is never dispatched again until it completes.
//
// Every scheduled action captures a generation counter; Reset advances
// it, so completion handlers of actions from a previous generation
// cannot stomp the controller's bookkeeping afterwards.
type Controller struct {
	delay  time.Duration
	logger *zap.Logger

	mu          sync.Mutex
	scope       *uiflow.Scope
	ownScope    bool
	pending     *uiflow.TaskHandle
	executing   string
	loading     bool
	lastRequest time.Time
	gen         uint64
}

// Option configures a [Controller].
type Option func(*Controller)

// WithDelay overrides the debounce window. Panics if d is not positive.
func WithDelay(d time.Duration) Option {
	if d <= 0 {
		panic("paginate: WithDelay requires d > 0")
	}
	return func(c *Controller) {
		c.delay = d
	}
}

// WithScope routes scheduled actions through sc instead of a private
// scope, binding them to the owning screen's lifetime: once the screen
// is destroyed, further loads are silently dropped.
func WithScope(sc *uiflow.Scope) Option {
	if sc == nil {
		panic("paginate: WithScope requires a non-nil scope")
	}
	return func(c *Controller) {
		c.scope = sc
	}
}

// WithLogger sets the logger. The default is a nop logger.
func WithLogger(l *zap.Logger) Option {
	if l == nil {
		panic("paginate: WithLogger requires a non-nil logger")
	}
	return func(c *Controller) {
		c.logger = l
	}
}

// NewController creates a controller with the default 300ms debounce.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		delay:  DefaultDelay,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LoadMore schedules action after the debounce delay. A previously
// scheduled, not-yet-fired action for any id is superseded. If the same
// id is already executing, the call is a no-op. An empty id gets a
// generated one, making the call an anonymous one-shot load.
func (c *Controller) LoadMore(id string, action func(ctx context.Context)) {
	c.loadAfter(id, c.delay, action)
}

// LoadMoreAfter is LoadMore with an explicit debounce delay.
func (c *Controller) LoadMoreAfter(id string, d time.Duration, action func(ctx context.Context)) {
	c.loadAfter(id, d, action)
}

// LoadNow dispatches action without the debounce delay, under the same
// single-flight guard. For explicit user-triggered refresh as opposed
// to passive scroll-triggered pagination.
func (c *Controller) LoadNow(id string, action func(ctx context.Context)) {
	c.loadAfter(id, 0, action)
}

func (c *Controller) loadAfter(id string, d time.Duration, action func(ctx context.Context)) {
	if id == "" {
		id = uuid.NewString()
	}

	c.mu.Lock()
	if c.loading && c.executing == id {
		c.mu.Unlock()
		c.logger.Debug("load suppressed, request already in flight",
			zap.String("request", id))
		return
	}
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	gen := c.gen
	c.lastRequest = time.Now()
	sc := c.scopeLocked()
	c.mu.Unlock()

	h := sc.RunAfter("load/"+id, d, func(ctx context.Context) {
		c.mu.Lock()
		// Second single-flight check: the same id may have started
		// executing during the debounce wait, or Reset may have moved
		// the controller to a new generation.
		if c.gen != gen || (c.loading && c.executing == id) {
			c.mu.Unlock()
			return
		}
		c.pending = nil
		c.executing = id
		c.loading = true
		c.mu.Unlock()

		action(ctx)

		c.mu.Lock()
		if c.gen == gen {
			c.loading = false
			c.executing = ""
		}
		c.mu.Unlock()
	})
	if h == nil {
		// Scope destroyed; dropped like any post-teardown work.
		return
	}
	if d > 0 {
		c.mu.Lock()
		if c.gen == gen {
			c.pending = h
		}
		c.mu.Unlock()
	}
}

// scopeLocked returns the dispatch scope, creating a private one on
// first use when none was injected. Callers must hold mu.
func (c *Controller) scopeLocked() *uiflow.Scope {
	if c.scope == nil {
		c.scope = uiflow.NewScope("paginate")
		c.ownScope = true
	}
	return c.scope
}

// Cancel cancels the pending debounced action, if any. An action that
// is already executing is not interrupted.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
}

// Reset cancels the pending action and clears all bookkeeping, even if
// an action is mid-flight: the generation counter advances, so the
// in-flight action's completion handler becomes a no-op. Idempotent.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen++
	if c.pending != nil {
		c.pending.Cancel()
		c.pending = nil
	}
	c.loading = false
	c.executing = ""
	c.lastRequest = time.Time{}
}

// Close destroys the controller's private scope, if it created one.
// Injected scopes belong to their screens and are left alone.
func (c *Controller) Close() {
	c.mu.Lock()
	sc := c.scope
	own := c.ownScope
	c.mu.Unlock()

	if own && sc != nil {
		sc.Destroy()
	}
}

// Loading reports whether an action is currently executing.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

// ExecutingID returns the id of the executing request, or "" if none.
func (c *Controller) ExecutingID() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.executing
}

// LastRequest returns when a load was last scheduled; zero after Reset.
func (c *Controller) LastRequest() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastRequest
}
