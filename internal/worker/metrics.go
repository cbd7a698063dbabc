package worker

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics are the digest pipeline's Prometheus collectors. Create one per
// registry and share it between the Job and the Runner.
type Metrics struct {
	Sent        prometheus.Counter
	Failures    *prometheus.CounterVec
	Skipped     prometheus.Counter
	Runs        *prometheus.CounterVec
	RunDuration prometheus.Histogram
}

// NewMetrics registers the collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Sent: f.NewCounter(prometheus.CounterOpts{
			Name: "digest_emails_sent_total",
			Help: "Digest emails accepted by the email provider.",
		}),
		Failures: f.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_failures_total",
			Help: "Failed digest units by kind (lookup, dispatch, persist, cancelled, other).",
		}, []string{"kind"}),
		Skipped: f.NewCounter(prometheus.CounterOpts{
			Name: "digest_children_skipped_total",
			Help: "Children with nothing to send (born, no due date, week out of range).",
		}),
		Runs: f.NewCounterVec(prometheus.CounterOpts{
			Name: "digest_runs_total",
			Help: "Digest runs by mode (scheduled, forced) and status (ok, failed).",
		}, []string{"mode", "status"}),
		RunDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "digest_run_duration_seconds",
			Help:    "Wall-clock duration of a digest run.",
			Buckets: []float64{0.1, 0.5, 1, 5, 15, 60, 300, 900, 1800},
		}),
	}
}

func (m *Metrics) observeRun(mode, status string, d time.Duration) {
	m.Runs.WithLabelValues(mode, status).Inc()
	m.RunDuration.Observe(d.Seconds())
}
