// Package paginate collapses bursts of "load more" triggers into
// single, deduplicated request dispatches.
//
// [Controller] debounces triggers (default 300ms), guarantees at most
// one in-flight action per request id, and routes the delayed work
// through a [github.com/baxromumarov/uiflow.Scope] so it dies with the
// screen that owns it. [State] is the companion accumulator for pages
// of items, with the has-more heuristics a scroll view needs.
//
// The single-flight condition is checked twice: eagerly when the
// trigger arrives and again when the debounce delay fires, closing the
// race where two bursts with the same id arrive within one debounce
// window.
package paginate
