// Package metrics exposes the analyzer's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics carries the collectors the analysis pipeline reports into.
type Metrics struct {
	// RunsTotal counts analysis runs by outcome ("success" or "error").
	RunsTotal *prometheus.CounterVec
	// RecordsProcessed counts records that classified to a venue.
	RecordsProcessed prometheus.Counter
	// RecordsSkipped counts records with no usable venue.
	RecordsSkipped prometheus.Counter
	// RunDuration observes wall-clock seconds per analysis run.
	RunDuration prometheus.Histogram
}

// New registers the analysis collectors with reg and returns them.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "venuestats",
			Name:      "analysis_runs_total",
			Help:      "Analysis runs by outcome.",
		}, []string{"outcome"}),
		RecordsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "venuestats",
			Name:      "records_processed_total",
			Help:      "Publication records classified to a canonical venue.",
		}),
		RecordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "venuestats",
			Name:      "records_skipped_total",
			Help:      "Publication records with no usable venue.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "venuestats",
			Name:      "analysis_run_duration_seconds",
			Help:      "Wall-clock duration of analysis runs.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
	}
	reg.MustRegister(m.RunsTotal, m.RecordsProcessed, m.RecordsSkipped, m.RunDuration)
	return m
}

// NewNop returns collectors that are not registered anywhere, for tests and
// callers that do not scrape.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
