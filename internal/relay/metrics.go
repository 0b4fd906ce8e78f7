package relay

import "github.com/prometheus/client_golang/prometheus"

// Submission outcomes for metrics labels.
const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics counts submission outcomes per form.
type Metrics struct {
	submissions *prometheus.CounterVec
}

// NewMetrics creates and registers relay metrics.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "relay"
	}

	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "submissions_total",
				Help:      "Form submissions by form and outcome",
			},
			[]string{"form", "outcome"},
		),
	}

	prometheus.MustRegister(m.submissions)

	return m
}

// observe is nil-safe so handlers can run without metrics in tests.
func (m *Metrics) observe(form, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(form, outcome).Inc()
}
