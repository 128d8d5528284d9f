package throttle

import (
	"math"
	"time"
)

// NewLevel creates a throttle for noisy numeric levels such as audio
// meters: updates within threshold of the last delivered value are
// suppressed entirely, and changes large enough to matter still pass
// through the usual interval window. ForceUpdate bypasses both gates.
//
// Panics if threshold is negative or interval is not positive.
func NewLevel(initial float64, interval time.Duration, threshold float64, opts ...Option[float64]) *Throttle[float64] {
	if threshold < 0 {
		panic("throttle: NewLevel requires threshold >= 0")
	}
	opts = append([]Option[float64]{
		WithDedupe[float64](func(next, delivered float64) bool {
			return math.Abs(next-delivered) < threshold
		}),
	}, opts...)
	return New(initial, interval, opts...)
}
