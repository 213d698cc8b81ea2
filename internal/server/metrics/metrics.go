// Package metrics holds the Prometheus collectors of the auth service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for signup and login counters.
const (
	OutcomeSuccess      = "success"
	OutcomeInvalid      = "invalid"
	OutcomeConflict     = "conflict"
	OutcomeUnauthorized = "unauthorized"
	OutcomeError        = "error"
)

// Metrics is safe to use as a nil pointer; every recorder becomes a no-op.
type Metrics struct {
	Signups             *prometheus.CounterVec
	Logins              *prometheus.CounterVec
	FilterPositives     prometheus.Counter
	FilterFalsePositive prometheus.Counter
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Signups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_signups_total",
				Help: "Total number of signup attempts by outcome",
			},
			[]string{"outcome"},
		),
		Logins: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gophauth_logins_total",
				Help: "Total number of login attempts by outcome",
			},
			[]string{"outcome"},
		),
		FilterPositives: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophauth_email_filter_positives_total",
			Help: "Signups for which the email filter reported a possible duplicate",
		}),
		FilterFalsePositive: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "gophauth_email_filter_false_positives_total",
			Help: "Filter positives that the credential store did not confirm",
		}),
	}

	reg.MustRegister(m.Signups, m.Logins, m.FilterPositives, m.FilterFalsePositive)

	return m
}

func (m *Metrics) RecordSignup(outcome string) {
	if m == nil {
		return
	}
	m.Signups.WithLabelValues(outcome).Inc()
}

func (m *Metrics) RecordLogin(outcome string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(outcome).Inc()
}

// RecordFilterHit counts a positive filter answer and whether the store
// contradicted it.
func (m *Metrics) RecordFilterHit(falsePositive bool) {
	if m == nil {
		return
	}
	m.FilterPositives.Inc()
	if falsePositive {
		m.FilterFalsePositive.Inc()
	}
}
