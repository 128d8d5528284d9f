// Package throttle turns high-frequency producers of UI state into
// bounded-frequency streams of latest values, without ever dropping the
// final value.
//
// Every variant follows the same contract: an update inside the
// configured interval is coalesced into a pending value, a single
// trailing flush delivers whatever is pending once the interval
// elapses, and an update arriving with the window open is delivered
// immediately. Intermediate superseded values are never delivered; the
// final one always is, within one interval. No variant ever returns an
// error — the worst case is a visible value stale by at most the
// interval.
//
//   - [Throttle] is the generic replace-semantics form, for equatable
//     state like a page index or a scroll position.
//   - [NewLevel] specializes it for noisy numeric levels (audio meters),
//     suppressing updates below a change threshold.
//   - [TextStream] is append-only, for streamed AI text: chunks
//     accumulate and flush on the interval or immediately on sentence
//     boundaries, whichever comes first.
//   - [Batch] buffers items (waveform samples) and flushes on a size
//     cap or the interval, into a ring of recent samples.
//
// All state is mutex-guarded; Update, Append and friends are safe to
// call from any goroutine.
package throttle
