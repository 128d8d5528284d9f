package throttle

import (
	"time"

	"golang.org/x/time/rate"
)

// window is the shared interval gate: a single-burst rate limiter.
// allow reports whether a delivery may happen right now; delay reserves
// the next slot and returns how long until it matures. The reservation
// is consumed by the flush that fires at that time, so a flush counts
// as a delivery against the window.
type window struct {
	interval time.Duration
	lim      *rate.Limiter
}

func newWindow(interval time.Duration) *window {
	if interval <= 0 {
		panic("throttle: interval must be positive")
	}
	return &window{
		interval: interval,
		lim:      rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (w *window) allow() bool {
	return w.lim.Allow()
}

func (w *window) delay() time.Duration {
	return w.lim.Reserve().Delay()
}

func (w *window) reset() {
	w.lim = rate.NewLimiter(rate.Every(w.interval), 1)
}
