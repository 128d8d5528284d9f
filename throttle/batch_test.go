package throttle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baxromumarov/uiflow/throttle"
)

func TestBatchFlushesOnSize(t *testing.T) {
	var rec recorder[[]float32]
	b := throttle.NewBatch[float32](time.Hour, 3, 100, throttle.WithBatchNotify[float32](rec.record))

	b.Append(0.1)
	b.Append(0.2)
	assert.Zero(t, len(rec.values()), "below flushSize, nothing is delivered")
	assert.Equal(t, 2, b.Buffered())

	b.Append(0.3)
	batches := rec.values()
	require.Len(t, batches, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, batches[0])
	assert.Zero(t, b.Buffered())
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, b.Samples())
}

func TestBatchFlushesOnInterval(t *testing.T) {
	b := throttle.NewBatch[int](50*time.Millisecond, 100, 100)

	b.Append(1)
	b.Append(2)
	assert.Empty(t, b.Samples())

	time.Sleep(120 * time.Millisecond)
	assert.Equal(t, []int{1, 2}, b.Samples(),
		"a partial batch is delivered once the interval elapses")
	assert.Zero(t, b.Buffered())
}

func TestBatchRingKeepsLastSamples(t *testing.T) {
	b := throttle.NewBatch[int](time.Hour, 3, 5)

	for i := 1; i <= 12; i++ {
		b.Append(i)
	}

	assert.Equal(t, []int{8, 9, 10, 11, 12}, b.Samples(),
		"the ring retains only the most recent maxSamples items, oldest first")
}

func TestBatchFlushForcesPartial(t *testing.T) {
	b := throttle.NewBatch[int](time.Hour, 10, 10)

	b.Append(1)
	b.Flush()
	assert.Equal(t, []int{1}, b.Samples())

	b.Flush() // empty buffer, no-op
	assert.Equal(t, []int{1}, b.Samples())
}

func TestBatchReset(t *testing.T) {
	b := throttle.NewBatch[int](40*time.Millisecond, 10, 10)

	b.Append(1)
	b.Append(2)
	b.Reset()
	b.Reset() // idempotent

	assert.Zero(t, b.Buffered())
	assert.Empty(t, b.Samples())

	time.Sleep(80 * time.Millisecond)
	assert.Empty(t, b.Samples(), "the cancelled flush must not deliver cleared items")
}

func TestBatchSamplesAreACopy(t *testing.T) {
	b := throttle.NewBatch[int](time.Hour, 2, 10)
	b.Append(1)
	b.Append(2)

	got := b.Samples()
	got[0] = 99
	assert.Equal(t, []int{1, 2}, b.Samples())
}
