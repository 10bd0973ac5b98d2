// File: internal/metrics/metrics.go (complete file)

package metrics

//
// Metrics definitions
//

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Attempt outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeError    = "error"
	OutcomeTimeout  = "timeout"
	OutcomeRejected = "rejected"
)

// Resolution outcomes.
const (
	ResolutionOK       = "ok"
	ResolutionDegraded = "degraded"
	ResolutionFailed   = "failed"
)

// Metrics groups the collectors of one process on a private registry, so that
// tests and embedders never collide on the default one.
type Metrics struct {
	registry *prometheus.Registry

	// attempts counts every call made to a discovery or detail source.
	attempts *prometheus.CounterVec

	// resolutions counts completed pipeline runs by outcome.
	resolutions *prometheus.CounterVec

	// duration observes the wall-clock time of whole pipeline runs.
	duration prometheus.Histogram
}

// New creates and registers the collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		attempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ipinsight_endpoint_attempts_total",
			Help: "Total number of calls made to lookup sources",
		}, []string{"phase", "endpoint", "outcome"}),
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ipinsight_resolutions_total",
			Help: "Total number of resolution runs by outcome",
		}, []string{"outcome"}),
		duration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "ipinsight_resolve_duration_seconds",
			Help:    "Wall-clock duration of resolution runs (in seconds)",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
	}
}

// ObserveAttempt records one source call. A nil receiver is a no-op.
func (m *Metrics) ObserveAttempt(phase, endpoint, outcome string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(phase, endpoint, outcome).Inc()
}

// ObserveResolution records one finished run. A nil receiver is a no-op.
func (m *Metrics) ObserveResolution(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.resolutions.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}

// Gatherer exposes the private registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile dumps the metrics in the node-exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
