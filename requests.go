package uiflow

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestRegistry tracks in-flight cancellable requests by name so a
// screen can cancel everything tagged with its prefix in one sweep.
//
// Track returns a context the request must run under and a cancel
// function the caller must invoke on completion (success or failure) to
// deregister. Names are conventionally "screen/operation"; see
// [ScreenScope.TrackRequest].
type RequestRegistry struct {
	cfg config

	mu       sync.Mutex
	inflight map[string]*trackedRequest
}

type trackedRequest struct {
	name   string
	cancel context.CancelFunc
}

// NewRequestRegistry creates an empty registry.
// [WithLogger] and [WithMetrics] apply; other options are ignored.
func NewRequestRegistry(opts ...Option) *RequestRegistry {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &RequestRegistry{
		cfg:      cfg,
		inflight: make(map[string]*trackedRequest),
	}
}

// Track registers a request under name and returns its context and
// cancel function. An empty name gets a generated identity; a reused
// name cancels the previous holder first, so at most one request per
// name is ever in flight.
func (r *RequestRegistry) Track(name string) (context.Context, context.CancelFunc) {
	if name == "" {
		name = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(context.Background())
	req := &trackedRequest{name: name, cancel: cancel}

	r.mu.Lock()
	if prev, ok := r.inflight[name]; ok {
		prev.cancel()
	}
	r.inflight[name] = req
	r.mu.Unlock()

	if r.cfg.metrics != nil {
		r.cfg.metrics.requestsTracked.Inc()
	}

	release := func() {
		cancel()
		r.mu.Lock()
		if cur, ok := r.inflight[name]; ok && cur == req {
			delete(r.inflight, name)
		}
		r.mu.Unlock()
	}
	return ctx, release
}

// Cancel cancels and deregisters the request with the given name, if any.
func (r *RequestRegistry) Cancel(name string) {
	r.mu.Lock()
	req, ok := r.inflight[name]
	if ok {
		delete(r.inflight, name)
	}
	r.mu.Unlock()

	if ok {
		req.cancel()
		if r.cfg.metrics != nil {
			r.cfg.metrics.requestsCancelled.Inc()
		}
	}
}

// CancelPrefix cancels and deregisters every request whose name starts
// with prefix. Used by screen teardown to sweep a whole namespace.
func (r *RequestRegistry) CancelPrefix(prefix string) {
	r.mu.Lock()
	var victims []*trackedRequest
	for name, req := range r.inflight {
		if strings.HasPrefix(name, prefix) {
			victims = append(victims, req)
			delete(r.inflight, name)
		}
	}
	r.mu.Unlock()

	for _, req := range victims {
		req.cancel()
	}
	if len(victims) > 0 {
		if r.cfg.metrics != nil {
			r.cfg.metrics.requestsCancelled.Add(float64(len(victims)))
		}
		r.cfg.logger.Debug("request namespace cancelled",
			zap.String("prefix", prefix), zap.Int("count", len(victims)))
	}
}

// Len returns the number of requests currently in flight.
func (r *RequestRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.inflight)
}
