// Demo: a simulated reader screen wiring together the uiflow pieces —
// a screen scope, a streamed-text throttle fed by fake AI tokens, a
// level throttle fed by a noisy meter, and a debounced pagination
// controller. Prometheus metrics are registered on the default registry.
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/baxromumarov/uiflow"
	"github.com/baxromumarov/uiflow/paginate"
	"github.com/baxromumarov/uiflow/throttle"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	metrics := uiflow.NewMetrics("uiflow_demo", prometheus.DefaultRegisterer)
	registry := uiflow.NewRequestRegistry(uiflow.WithLogger(logger), uiflow.WithMetrics(metrics))

	screen := uiflow.NewScreenScope("reader", registry,
		uiflow.WithLogger(logger),
		uiflow.WithMetrics(metrics),
		uiflow.WithLimit(4),
	)

	// Streamed AI answer: tokens arrive every few ms, renders happen at
	// most every 150ms or at sentence boundaries.
	answer := throttle.NewTextStream(150*time.Millisecond,
		throttle.WithTextNotify(func(text string) {
			fmt.Printf("[render] %s\n", text)
		}))

	tokens := strings.Split(
		"The whale is not a fish. It is a mammal that nurses its young. Its heart weighs hundreds of kilograms.",
		" ")
	screen.Run("stream-answer", func(ctx context.Context) {
		for _, tok := range tokens {
			select {
			case <-ctx.Done():
				return
			case <-time.After(12 * time.Millisecond):
			}
			answer.Append(tok + " ")
		}
		answer.Flush()
	})

	// Audio meter: 200Hz updates, rendered at 10Hz and only when the
	// level moved enough to matter.
	meter := throttle.NewLevel(0, 100*time.Millisecond, 0.05,
		throttle.WithNotify[float64](func(v float64) {
			fmt.Printf("[meter]  %.2f\n", v)
		}))
	screen.Run("meter", func(ctx context.Context) {
		for i := 0; ; i++ {
			select {
			case <-ctx.Done():
				return
			case <-time.After(5 * time.Millisecond):
			}
			meter.Update(float64(i%40) / 40)
		}
	})

	// Gallery feed: a burst of scroll triggers collapses into one fetch.
	feed := paginate.NewState[string](3)
	pager := paginate.NewController(
		paginate.WithScope(screen.Scope()),
		paginate.WithLogger(logger),
	)
	fetchPage := func(ctx context.Context) {
		reqCtx, release := screen.TrackRequest(fmt.Sprintf("feed-page-%d", feed.CurrentPage()+1))
		defer release()

		select {
		case <-reqCtx.Done():
			return
		case <-time.After(40 * time.Millisecond): // pretend network
		}
		page := feed.CurrentPage() + 1
		feed.AppendPage([]string{
			fmt.Sprintf("work-%d-a", page),
			fmt.Sprintf("work-%d-b", page),
			fmt.Sprintf("work-%d-c", page),
		}, paginate.TotalUnknown)
		fmt.Printf("[feed]   %d items after page %d\n", feed.Len(), feed.CurrentPage())
	}
	for i := 0; i < 5; i++ { // five rapid scroll events, one fetch
		pager.LoadMore("feed-next", fetchPage)
	}

	time.Sleep(2 * time.Second)

	fmt.Printf("visible answer: %q\n", answer.Text())
	fmt.Printf("feed items: %d, can load more: %v\n", feed.Len(), feed.CanLoadMore(pager.Loading()))
	fmt.Printf("tasks spawned: %d\n", screen.Scope().TotalSpawned())

	// Screen teardown: one call cancels tasks, children and requests.
	screen.Destroy()
	time.Sleep(50 * time.Millisecond)
	fmt.Printf("in-flight requests after destroy: %d\n", registry.Len())
}
