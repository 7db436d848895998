package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ComplianceUpdates       prometheus.Counter
	ComplianceVerifications prometheus.Counter
	ComplianceResets        prometheus.Counter
	ValidationDenials       *prometheus.CounterVec
}

func New() *Metrics {
	return &Metrics{
		ComplianceUpdates: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_compliance_updates_total",
			Help: "Total number of compliance flag updates applied",
		}),
		ComplianceVerifications: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_compliance_verifications_total",
			Help: "Total number of transitions to fully compliant",
		}),
		ComplianceResets: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_compliance_resets_total",
			Help: "Total number of compliance record resets",
		}),
		ValidationDenials: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "museforge_compliance_validation_denials_total",
			Help: "Sensitive actions denied by the compliance gate",
		}, []string{"reason"}),
	}
}

func (m *Metrics) IncrementUpdates() {
	m.ComplianceUpdates.Inc()
}

func (m *Metrics) IncrementVerifications() {
	m.ComplianceVerifications.Inc()
}

func (m *Metrics) IncrementResets() {
	m.ComplianceResets.Inc()
}

// IncrementDenials records a gate denial; reason is "incomplete" or "expired".
func (m *Metrics) IncrementDenials(reason string) {
	m.ValidationDenials.WithLabelValues(reason).Inc()
}
