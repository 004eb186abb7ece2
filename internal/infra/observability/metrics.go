package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics for the tax engine.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	computationDuration *prometheus.HistogramVec
	computationsTotal   *prometheus.CounterVec
	ruleRefreshTotal    *prometheus.CounterVec
	snapshotInfo        *prometheus.GaugeVec
	cacheHits           *prometheus.CounterVec
	cacheMisses         *prometheus.CounterVec
	externalErrors      *prometheus.CounterVec
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		computationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "taxpadi_computation_duration_seconds",
				Help:    "Duration of tax computations by regime.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"regime"},
		),
		computationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxpadi_computations_total",
				Help: "Total tax computations by regime and status.",
			},
			[]string{"regime", "status"},
		),
		ruleRefreshTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxpadi_rule_refresh_total",
				Help: "Total rule snapshot refresh attempts by outcome.",
			},
			[]string{"outcome"},
		),
		snapshotInfo: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "taxpadi_rule_snapshot_info",
				Help: "Active rule snapshot, labeled by version (value is always 1).",
			},
			[]string{"version"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxpadi_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxpadi_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		externalErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "taxpadi_external_errors_total",
				Help: "Total errors from external services.",
			},
			[]string{"service"},
		),
	}
}

// RecordComputation records one computation's duration and outcome.
func (m *Metrics) RecordComputation(regime, status string, d time.Duration) {
	m.computationDuration.WithLabelValues(regime).Observe(d.Seconds())
	m.computationsTotal.WithLabelValues(regime, status).Inc()
}

// IncrRuleRefresh increments the refresh counter with an outcome label.
func (m *Metrics) IncrRuleRefresh(outcome string) {
	m.ruleRefreshTotal.WithLabelValues(outcome).Inc()
}

// SetSnapshotVersion publishes the active snapshot version as an info gauge.
func (m *Metrics) SetSnapshotVersion(version string) {
	m.snapshotInfo.Reset()
	m.snapshotInfo.WithLabelValues(version).Set(1)
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrExternalError increments the external error counter.
func (m *Metrics) IncrExternalError(service string) {
	m.externalErrors.WithLabelValues(service).Inc()
}

// ComputationCount returns the cumulative computation count for a regime
// and status label pair. Used by tests.
func (m *Metrics) ComputationCount(regime, status string) float64 {
	return counterValue(m.computationsTotal, regime, status)
}

func counterValue(cv *prometheus.CounterVec, labels ...string) float64 {
	counter := cv.WithLabelValues(labels...)
	metric := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(metric); err != nil {
		return 0
	}
	if metric.Counter != nil && metric.Counter.Value != nil {
		return *metric.Counter.Value
	}
	return 0
}
