package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// aggregation pipeline.
type Metrics struct {
	PassesTotal       prometheus.Counter
	PassErrors        prometheus.Counter
	PassDuration      prometheus.Histogram
	RegionsAggregated prometheus.Counter
	CubeMonths        prometheus.Histogram
	LastSuccess       prometheus.Gauge
	PipelineRunning   prometheus.Gauge

	// Sink metrics.
	SeriesPublished prometheus.Counter
	PublishErrors   prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		PassesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlights",
			Name:      "aggregation_passes_total",
			Help:      "Total completed aggregation passes.",
		}),
		PassErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlights",
			Name:      "aggregation_errors_total",
			Help:      "Total failed aggregation passes.",
		}),
		PassDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nightlights",
			Name:      "aggregation_pass_duration_seconds",
			Help:      "Duration of a complete load-and-aggregate pass.",
			Buckets:   []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900},
		}),
		RegionsAggregated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlights",
			Name:      "regions_aggregated_total",
			Help:      "Total region time series computed across all passes.",
		}),
		CubeMonths: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "nightlights",
			Name:      "cube_months",
			Help:      "Time steps per loaded data cube.",
			Buckets:   []float64{1, 3, 6, 12, 24, 60, 120},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nightlights",
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful aggregation pass.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "nightlights",
			Name:      "pipeline_running",
			Help:      "1 when the refresh loop is active, 0 when shut down.",
		}),
		SeriesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlights",
			Name:      "series_published_total",
			Help:      "Total region series messages written to the sink topic.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlights",
			Name:      "publish_errors_total",
			Help:      "Total failed sink publishes.",
		}),
	}

	prometheus.MustRegister(
		m.PassesTotal,
		m.PassErrors,
		m.PassDuration,
		m.RegionsAggregated,
		m.CubeMonths,
		m.LastSuccess,
		m.PipelineRunning,
		m.SeriesPublished,
		m.PublishErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		PassesTotal:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightlights", Name: "aggregation_passes_total"}),
		PassErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightlights", Name: "aggregation_errors_total"}),
		PassDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nightlights", Name: "aggregation_pass_duration_seconds"}),
		RegionsAggregated: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightlights", Name: "regions_aggregated_total"}),
		CubeMonths:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "nightlights", Name: "cube_months"}),
		LastSuccess:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "nightlights", Name: "last_success_timestamp_seconds"}),
		PipelineRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "nightlights", Name: "pipeline_running"}),
		SeriesPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightlights", Name: "series_published_total"}),
		PublishErrors:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "nightlights", Name: "publish_errors_total"}),
	}
}
