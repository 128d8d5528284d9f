package uiflow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds prometheus instruments for scope and registry activity.
// Create one per process with [NewMetrics] and share it across scopes
// via [WithMetrics].
type Metrics struct {
	tasksSpawned      prometheus.Counter
	tasksDropped      prometheus.Counter
	tasksActive       prometheus.Gauge
	requestsTracked   prometheus.Counter
	requestsCancelled prometheus.Counter
}

// NewMetrics registers the uiflow instruments with reg under the given
// namespace. Pass prometheus.DefaultRegisterer for the default registry.
// Registering the same namespace twice on one registry panics, as usual
// with promauto.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		tasksSpawned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_spawned_total",
			Help:      "Tasks accepted by scopes.",
		}),
		tasksDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_dropped_total",
			Help:      "Submissions ignored because the scope was destroyed.",
		}),
		tasksActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tasks_active",
			Help:      "Tasks currently executing across all scopes.",
		}),
		requestsTracked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_tracked_total",
			Help:      "Requests registered with a RequestRegistry.",
		}),
		requestsCancelled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_cancelled_total",
			Help:      "Requests cancelled explicitly or by namespace sweep.",
		}),
	}
}
