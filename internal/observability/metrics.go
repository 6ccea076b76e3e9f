package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_wear"

// Metrics holds the Prometheus counters, histograms, and gauges for the web front end.
type Metrics struct {
	// Backend calls.
	BackendRequests *prometheus.CounterVec   // labels: endpoint={hourly,suggestions}, outcome={success,error,invalid}
	BackendDuration *prometheus.HistogramVec // labels: endpoint

	// Page flows.
	PageRenders      *prometheus.CounterVec // labels: page={chart,wear}, outcome={success,empty,error}
	ValidationErrors *prometheus.CounterVec // labels: reason
	StaleFetches     prometheus.Counter
	Uploads          *prometheus.CounterVec // labels: outcome={accepted,rejected,cleared}

	// Activity events.
	ActivityProduced prometheus.Counter
	ActivityDropped  prometheus.Counter
	ActivityBatch    prometheus.Histogram
	ActivityRunning  prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := NewMetricsForTesting()
	prometheus.MustRegister(
		m.BackendRequests,
		m.BackendDuration,
		m.PageRenders,
		m.ValidationErrors,
		m.StaleFetches,
		m.Uploads,
		m.ActivityProduced,
		m.ActivityDropped,
		m.ActivityBatch,
		m.ActivityRunning,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Weather backend requests by endpoint and outcome.",
		}, []string{"endpoint", "outcome"}),
		BackendDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Weather backend request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"endpoint"}),
		PageRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "page_renders_total",
			Help:      "Page data refreshes by page and outcome.",
		}, []string{"page", "outcome"}),
		ValidationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validation_errors_total",
			Help:      "Input checks that failed before any backend call.",
		}, []string{"reason"}),
		StaleFetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stale_fetches_total",
			Help:      "Fetch results dropped because a newer fetch started for the same session.",
		}),
		Uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_total",
			Help:      "Closet image selections by outcome.",
		}, []string{"outcome"}),
		ActivityProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_produced_total",
			Help:      "Activity events written to the activity topic.",
		}),
		ActivityDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_events_dropped_total",
			Help:      "Activity events discarded because the buffer was full.",
		}),
		ActivityBatch: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "activity_batch_size",
			Help:      "Number of activity events per batch written to Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		ActivityRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "activity_recorder_running",
			Help:      "1 when the activity recorder loop is active, 0 when shut down.",
		}),
	}
}
