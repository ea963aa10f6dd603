package calculation

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects Prometheus metrics for projections and the market cache.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProjectionRuns     *prometheus.CounterVec
	ProjectionPaths    *prometheus.CounterVec
	ProjectionDuration *prometheus.HistogramVec
	ProviderFailures   *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
}

// NewMetrics creates the projection metrics and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ProjectionRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projection_runs_total",
			Help: "Number of Monte Carlo projections executed",
		}, []string{"method"}),
		ProjectionPaths: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "projection_paths_total",
			Help: "Number of simulated return paths",
		}, []string{"method"}),
		ProjectionDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "projection_duration_seconds",
			Help:    "Wall time of a Monte Carlo projection",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}, []string{"method"}),
		ProviderFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "market_provider_failures_total",
			Help: "Market data provider calls that failed and fell back to defaults",
		}, []string{"operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "market_cache_lookups_total",
			Help: "Market parameter cache lookups by result",
		}, []string{"result"}),
	}
	if reg != nil {
		reg.MustRegister(m.ProjectionRuns, m.ProjectionPaths, m.ProjectionDuration, m.ProviderFailures, m.CacheLookups)
	}
	return m
}

func (m *Metrics) observeProjection(method string, paths int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.ProjectionRuns.WithLabelValues(method).Inc()
	m.ProjectionPaths.WithLabelValues(method).Add(float64(paths))
	m.ProjectionDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) providerFailure(operation string) {
	if m == nil {
		return
	}
	m.ProviderFailures.WithLabelValues(operation).Inc()
}

func (m *Metrics) cacheLookup(result string) {
	if m == nil {
		return
	}
	m.CacheLookups.WithLabelValues(result).Inc()
}
