package throttle

import (
	"strings"
	"sync"
	"time"
)

// DefaultBoundaries is the rune set treated as sentence boundaries by
// [TextStream]: Latin and CJK sentence punctuation plus newline.
const DefaultBoundaries = ".!?;\n。！？；…"

// TextStream is the append-only throttle for streamed text (AI token
// streams). Chunks accumulate in an internal buffer and are moved into
// the visible text either when the interval allows or immediately when
// a chunk carries a sentence boundary — a completed sentence is shown
// right away for readability even if time budget remains.
type TextStream struct {
	mu         sync.Mutex
	win        *window
	buf        strings.Builder
	text       string
	timer      *time.Timer
	boundaries string
	notify     func(string)
}

// TextOption configures a [TextStream].
type TextOption func(*TextStream)

// WithBoundaries overrides the sentence-boundary rune set.
// An empty set disables boundary-triggered flushes.
func WithBoundaries(set string) TextOption {
	return func(t *TextStream) {
		t.boundaries = set
	}
}

// WithTextNotify registers the delivery callback. It receives the full
// visible text after each flush, outside the stream's lock.
func WithTextNotify(fn func(string)) TextOption {
	return func(t *TextStream) {
		t.notify = fn
	}
}

// NewTextStream creates a stream flushing at most once per interval,
// boundary chunks excepted. Panics if interval is not positive.
func NewTextStream(interval time.Duration, opts ...TextOption) *TextStream {
	t := &TextStream{
		win:        newWindow(interval),
		boundaries: DefaultBoundaries,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Append adds a chunk to the pending buffer and flushes if the chunk
// contains a boundary rune or the window is open. Otherwise a single
// trailing flush is scheduled; further appends during the wait just
// grow the buffer it will deliver.
func (t *TextStream) Append(chunk string) {
	if chunk == "" {
		return
	}

	t.mu.Lock()
	t.buf.WriteString(chunk)

	if t.boundaries != "" && strings.ContainsAny(chunk, t.boundaries) {
		// Boundary flush bypasses the window, like ForceUpdate; the
		// stopped flush's reservation, if any, stands in for it.
		t.stopTimerLocked()
		t.flushLocked()
		return
	}
	if t.win.allow() {
		t.stopTimerLocked()
		t.flushLocked()
		return
	}
	if t.timer == nil {
		t.timer = time.AfterFunc(t.win.delay(), t.scheduledFlush)
	}
	t.mu.Unlock()
}

// Flush delivers whatever is buffered immediately, bypassing the
// window. No-op if the buffer is empty.
func (t *TextStream) Flush() {
	t.mu.Lock()
	t.stopTimerLocked()
	if t.buf.Len() == 0 {
		t.mu.Unlock()
		return
	}
	t.flushLocked()
}

func (t *TextStream) scheduledFlush() {
	t.mu.Lock()
	t.timer = nil
	if t.buf.Len() == 0 {
		t.mu.Unlock()
		return
	}
	t.flushLocked()
}

// flushLocked moves the buffer into the visible text and notifies
// outside the lock. Callers must hold mu; it is released here.
func (t *TextStream) flushLocked() {
	t.text += t.buf.String()
	t.buf.Reset()
	visible := t.text
	fn := t.notify
	t.mu.Unlock()
	if fn != nil {
		fn(visible)
	}
}

func (t *TextStream) stopTimerLocked() {
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// Text returns the visible (delivered) text. Buffered, not-yet-flushed
// chunks are not included.
func (t *TextStream) Text() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.text
}

// Pending returns the number of buffered bytes awaiting flush.
func (t *TextStream) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.buf.Len()
}

// Reset cancels any scheduled flush and clears both the buffer and the
// visible text. Idempotent.
func (t *TextStream) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.stopTimerLocked()
	t.buf.Reset()
	t.text = ""
	t.win.reset()
}
