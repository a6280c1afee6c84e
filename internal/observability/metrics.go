package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion service.
type Metrics struct {
	RecordsProcessed *prometheus.CounterVec // labels: outcome={stored,duplicate,error}
	BatchesTotal     *prometheus.CounterVec // labels: mode={single,multi}, outcome={ok,failed}
	BatchDuration    prometheus.Histogram
	BatchRecords     prometheus.Histogram
	FlushesTotal     prometheus.Counter

	// Location resolution metrics.
	ResolverLookups *prometheus.CounterVec // labels: strategy={coordinates,name_city,city,name,name_token,city_token}, outcome={hit,miss}
	ResolverCache   *prometheus.CounterVec // labels: result={hit,miss}

	// Optional export sink metrics.
	SamplesPublished  prometheus.Counter
	SinkPublishErrors prometheus.Counter
	SinkEnabled       prometheus.Gauge
}

// NewMetrics creates and registers all ingestion metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RecordsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "records_processed_total",
			Help:      "Ingested records by terminal outcome.",
		}, []string{"outcome"}),
		BatchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "batches_total",
			Help:      "Ingestion batches by mode and outcome.",
		}, []string{"mode", "outcome"}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "batch_duration_seconds",
			Help:      "Duration of one complete ingestion batch.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		}),
		BatchRecords: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_ingest",
			Name:      "batch_records",
			Help:      "Number of raw records per ingestion batch.",
			Buckets:   []float64{1, 10, 50, 100, 250, 500, 1000, 2500},
		}),
		FlushesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "flushes_total",
			Help:      "Committed flush groups.",
		}),
		ResolverLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "resolver_lookups_total",
			Help:      "Location resolution attempts by strategy and outcome.",
		}, []string{"strategy", "outcome"}),
		ResolverCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "resolver_cache_total",
			Help:      "Per-batch resolution cache lookups.",
		}, []string{"result"}),
		SamplesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "samples_published_total",
			Help:      "Stored samples published to the export sink.",
		}),
		SinkPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_ingest",
			Name:      "sink_publish_errors_total",
			Help:      "Failed export sink publishes.",
		}),
		SinkEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "weather_ingest",
			Name:      "sink_enabled",
			Help:      "1 when the export sink is configured, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.RecordsProcessed,
		m.BatchesTotal,
		m.BatchDuration,
		m.BatchRecords,
		m.FlushesTotal,
		m.ResolverLookups,
		m.ResolverCache,
		m.SamplesPublished,
		m.SinkPublishErrors,
		m.SinkEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with unregistered collectors to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RecordsProcessed:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "records_processed_total"}, []string{"outcome"}),
		BatchesTotal:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "batches_total"}, []string{"mode", "outcome"}),
		BatchDuration:     prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "batch_duration_seconds"}),
		BatchRecords:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_ingest", Name: "batch_records"}),
		FlushesTotal:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "flushes_total"}),
		ResolverLookups:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "resolver_lookups_total"}, []string{"strategy", "outcome"}),
		ResolverCache:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "resolver_cache_total"}, []string{"result"}),
		SamplesPublished:  prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "samples_published_total"}),
		SinkPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_ingest", Name: "sink_publish_errors_total"}),
		SinkEnabled:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "weather_ingest", Name: "sink_enabled"}),
	}
}
