package upgrade

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the workflow's prometheus collectors. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	discovered         prometheus.Counter
	duplicates         prometheus.Counter
	discoveryFailures  prometheus.Counter
	resolved           *prometheus.CounterVec
	submissionFailures prometheus.Counter
	submissionDuration prometheus.Histogram
}

// NewMetrics creates the workflow collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		discovered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dbeast",
			Subsystem: "upgrade",
			Name:      "discovered_total",
			Help:      "Total number of unique cluster hosts queued for upgrade",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dbeast",
			Subsystem: "upgrade",
			Name:      "duplicates_total",
			Help:      "Total number of matching data sources dropped because their URL was already queued",
		}),
		discoveryFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dbeast",
			Subsystem: "upgrade",
			Name:      "discovery_failures_total",
			Help:      "Total number of failed data-source listings",
		}),
		resolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "dbeast",
				Subsystem: "upgrade",
				Name:      "resolved_total",
				Help:      "Total number of resolved projects by outcome",
			},
			[]string{"outcome"},
		),
		submissionFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "dbeast",
			Subsystem: "upgrade",
			Name:      "submission_failures_total",
			Help:      "Total number of failed update_cluster requests",
		}),
		submissionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "dbeast",
			Subsystem: "upgrade",
			Name:      "submission_duration_seconds",
			Help:      "Duration of update_cluster requests in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms to ~25s
		}),
	}

	reg.MustRegister(
		m.discovered,
		m.duplicates,
		m.discoveryFailures,
		m.resolved,
		m.submissionFailures,
		m.submissionDuration,
	)

	return m
}

func (m *Metrics) recordDiscovery(queued, duplicates int) {
	if m == nil {
		return
	}
	m.discovered.Add(float64(queued))
	m.duplicates.Add(float64(duplicates))
}

func (m *Metrics) recordDiscoveryFailure() {
	if m == nil {
		return
	}
	m.discoveryFailures.Inc()
}

func (m *Metrics) recordResolved(outcome string) {
	if m == nil {
		return
	}
	m.resolved.WithLabelValues(outcome).Inc()
}

func (m *Metrics) recordSubmission(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.submissionDuration.Observe(d.Seconds())
	if err != nil {
		m.submissionFailures.Inc()
	}
}
