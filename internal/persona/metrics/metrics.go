// Package metrics exposes persona wizard counters.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	DraftsStarted    prometheus.Counter
	PersonasCreated  prometheus.Counter
	CompletionDenied prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		DraftsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_persona_drafts_started_total",
			Help: "Number of persona wizard drafts started.",
		}),
		PersonasCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_personas_created_total",
			Help: "Number of personas created.",
		}),
		CompletionDenied: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_persona_completions_denied_total",
			Help: "Number of persona completions denied by the compliance gate.",
		}),
	}
}

func (m *Metrics) IncrementDraftsStarted() {
	m.DraftsStarted.Inc()
}

func (m *Metrics) IncrementPersonasCreated() {
	m.PersonasCreated.Inc()
}

func (m *Metrics) IncrementCompletionDenied() {
	m.CompletionDenied.Inc()
}
