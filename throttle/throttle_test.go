package throttle_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/uiflow/throttle"
)

// recorder collects delivered values in order.
type recorder[T any] struct {
	mu   sync.Mutex
	vals []T
}

func (r *recorder[T]) record(v T) {
	r.mu.Lock()
	r.vals = append(r.vals, v)
	r.mu.Unlock()
}

func (r *recorder[T]) values() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]T, len(r.vals))
	copy(out, r.vals)
	return out
}

func TestThrottleCoalescesBurst(t *testing.T) {
	var rec recorder[int]
	th := throttle.New(0, 100*time.Millisecond, throttle.WithNotify[int](rec.record))

	// The window starts open: the first update is delivered synchronously.
	th.Update(1)
	th.Update(2)
	th.Update(3)

	assert.Equal(t, []int{1}, rec.values(), "burst tail must be coalesced")
	assert.Equal(t, 1, th.Value())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []int{1, 3}, rec.values(),
		"exactly the final value of the burst is delivered; 2 is superseded")
	assert.Equal(t, 3, th.Value())
}

func TestThrottleImmediateWhenWindowOpen(t *testing.T) {
	var rec recorder[int]
	th := throttle.New(0, 60*time.Millisecond, throttle.WithNotify[int](rec.record))

	th.Update(1)
	time.Sleep(90 * time.Millisecond) // interval has fully elapsed

	th.Update(2)
	assert.Equal(t, []int{1, 2}, rec.values(), "open window delivers synchronously")
}

func TestThrottleSingleScheduledFlush(t *testing.T) {
	var rec recorder[int]
	th := throttle.New(0, 80*time.Millisecond, throttle.WithNotify[int](rec.record))

	th.Update(1)
	for v := 2; v <= 10; v++ {
		th.Update(v)
		time.Sleep(2 * time.Millisecond)
	}
	time.Sleep(150 * time.Millisecond)

	assert.Equal(t, []int{1, 10}, rec.values(),
		"updates during the wait window replace the pending value, not the timer")
}

func TestThrottleForceUpdate(t *testing.T) {
	var rec recorder[int]
	th := throttle.New(0, 100*time.Millisecond, throttle.WithNotify[int](rec.record))

	th.Update(1)
	th.Update(2) // pending, flush scheduled
	th.ForceUpdate(9)

	assert.Equal(t, []int{1, 9}, rec.values())
	assert.Equal(t, 9, th.Value())

	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []int{1, 9}, rec.values(),
		"ForceUpdate cancels the scheduled flush; the superseded 2 never lands")
}

func TestThrottleDedupe(t *testing.T) {
	var rec recorder[int]
	th := throttle.New(0, 30*time.Millisecond,
		throttle.WithNotify[int](rec.record),
		throttle.WithDedupe[int](func(next, delivered int) bool { return next == delivered }),
	)

	th.Update(7)
	time.Sleep(60 * time.Millisecond)
	th.Update(7) // equal to delivered value, dropped before window logic
	th.Update(7)
	time.Sleep(60 * time.Millisecond)

	assert.Equal(t, []int{7}, rec.values())
}

func TestThrottleReset(t *testing.T) {
	var rec recorder[string]
	th := throttle.New("start", 80*time.Millisecond, throttle.WithNotify[string](rec.record))

	th.Update("a")
	th.Update("b") // pending
	th.Reset()
	th.Reset() // idempotent

	assert.Equal(t, "start", th.Value())
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, []string{"a"}, rec.values(),
		"a reset drains the pending flush without delivering it")

	// The throttle is fully usable after reset.
	th.Update("c")
	assert.Equal(t, "c", th.Value())
}

func TestLevelSuppressesNoise(t *testing.T) {
	var rec recorder[float64]
	lv := throttle.NewLevel(0, 40*time.Millisecond, 0.1, throttle.WithNotify[float64](rec.record))

	lv.Update(0.05) // below threshold of last delivered (0)
	assert.Empty(t, rec.values())

	lv.Update(0.5) // big jump, window open
	assert.Equal(t, []float64{0.5}, rec.values())

	lv.Update(0.55) // within threshold of 0.5
	lv.Update(0.45)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []float64{0.5}, rec.values(), "noise around the delivered level is dropped")

	lv.Update(0.9)
	time.Sleep(80 * time.Millisecond)
	require.NotEmpty(t, rec.values())
	assert.Equal(t, 0.9, lv.Value())
}

func TestNewPanicsOnBadInterval(t *testing.T) {
	assert.Panics(t, func() { throttle.New(0, 0) })
	assert.Panics(t, func() { throttle.NewLevel(0, time.Second, -1) })
	assert.Panics(t, func() { throttle.NewTextStream(-time.Second) })
	assert.Panics(t, func() { throttle.NewBatch[int](time.Second, 0, 10) })
}
