// Package uiflow provides lifetime management for asynchronous UI work:
// cancellable task scopes bound to view lifetimes, FIFO semaphores for
// bounding concurrency, and a registry for cancelling in-flight requests
// by screen.
//
// High-frequency producers (streaming text, rapid page turns, audio
// meters) should never mutate observable state directly; route them
// through the [github.com/baxromumarov/uiflow/throttle] package, which
// coalesces bursts into a bounded-frequency stream of latest values.
// Debounced, deduplicated pagination lives in
// [github.com/baxromumarov/uiflow/paginate].
//
// # Scopes
//
// A [Scope] owns a set of concurrent tasks and guarantees none outlives
// it. Create one per logical UI region and destroy it on teardown:
//
//	sc := uiflow.NewScope("reader")
//	sc.Run("load-page", func(ctx context.Context) {
//	    render(ctx, page)
//	})
//	...
//	sc.Destroy() // cancels everything still running
//
// [Scope.Child] creates nested scopes for sub-regions; destroying a
// parent cascades to all children. A destroyed scope silently drops new
// submissions — UI teardown races are expected, not exceptional.
//
// Task failures submitted via [Scope.RunErr] are wrapped in [*TaskError]
// for attribution and aggregated via [Scope.Errs]. Panics in tasks are
// recovered into [*PanicError] and logged, never propagated: a view
// teardown must not crash the process.
//
// # Screens
//
// [ScreenScope] pairs a Scope with a cancellation namespace in a
// [RequestRegistry]: every request tracked through the screen is tagged
// with the screen's prefix, and [ScreenScope.Destroy] cancels the scope,
// its children, and all prefixed requests in one call.
//
// # Bounded concurrency
//
// [Semaphore] is a counting semaphore with a strict FIFO waiter queue.
// Permits are handed directly to the queue head on [Semaphore.Signal],
// so wakeup order always matches wait order and no wakeup is lost.
// [WithLimit] gates a scope's tasks through one.
//
// # Observability
//
// Components accept a logger via [WithLogger] (default is a nop logger)
// and optional prometheus instrumentation via [WithMetrics].
package uiflow
