package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "solar_sim"

// Metrics holds the Prometheus counters and histograms for the simulation service.
type Metrics struct {
	SimulationsCreated prometheus.Counter
	SimulationFailures *prometheus.CounterVec // labels: reason={invalid_identifier,invalid_roof_size,not_found,degenerate_input,remote_calculation,persistence,internal}

	// Estimation metrics.
	EstimationDuration *prometheus.HistogramVec // labels: strategy={local,remote}
	RemoteRequests     *prometheus.CounterVec   // labels: outcome={success,transport_error,http_error,invalid_response}
	RemoteAPIDuration  prometheus.Histogram

	// Catalog cache metrics.
	CatalogCache *prometheus.CounterVec // labels: entity={location,panel_type}, result={hit,miss}

	// Event publication metrics.
	EventsPublished    prometheus.Counter
	EventPublishErrors prometheus.Counter

	RemoteEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.SimulationsCreated,
		m.SimulationFailures,
		m.EstimationDuration,
		m.RemoteRequests,
		m.RemoteAPIDuration,
		m.CatalogCache,
		m.EventsPublished,
		m.EventPublishErrors,
		m.RemoteEnabled,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		SimulationsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulations_created_total",
			Help:      "Total simulations persisted.",
		}),
		SimulationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "simulation_failures_total",
			Help:      "Create-simulation requests rejected or failed, by reason.",
		}, []string{"reason"}),
		EstimationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "estimation_duration_seconds",
			Help:      "Time spent in the estimation engine, by strategy.",
			Buckets:   []float64{0.0001, 0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"strategy"}),
		RemoteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "remote_calculation_requests_total",
			Help:      "Remote calculation requests by outcome.",
		}, []string{"outcome"}),
		RemoteAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "remote_calculation_duration_seconds",
			Help:      "Remote calculation HTTP round-trip duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		CatalogCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_cache_total",
			Help:      "Catalog cache lookups by entity and result.",
		}, []string{"entity", "result"}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Simulation-created events written to Kafka.",
		}),
		EventPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "event_publish_errors_total",
			Help:      "Simulation-created events that failed to publish.",
		}),
		RemoteEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "estimation_remote_enabled",
			Help:      "1 when estimation is delegated to the remote calculator, 0 otherwise.",
		}),
	}
}
