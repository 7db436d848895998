package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the credit flow.
type Metrics struct {
	QuotesIssued      prometheus.Counter
	InsufficientFunds prometheus.Counter
	SpendsCompleted   prometheus.Counter
	SpendsFailed      prometheus.Counter
}

// New creates and registers the credit flow metrics.
func New() *Metrics {
	return &Metrics{
		QuotesIssued: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_credits_quotes_issued_total",
			Help: "Total cost quotes issued to users",
		}),
		InsufficientFunds: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_credits_insufficient_funds_total",
			Help: "Total quote decisions that found the balance insufficient",
		}),
		SpendsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_credits_spends_completed_total",
			Help: "Total confirmed actions that executed successfully",
		}),
		SpendsFailed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "museforge_credits_spends_failed_total",
			Help: "Total confirmed actions that failed during execution",
		}),
	}
}

func (m *Metrics) IncrementQuotesIssued()      { m.QuotesIssued.Inc() }
func (m *Metrics) IncrementInsufficientFunds() { m.InsufficientFunds.Inc() }
func (m *Metrics) IncrementSpendsCompleted()   { m.SpendsCompleted.Inc() }
func (m *Metrics) IncrementSpendsFailed()      { m.SpendsFailed.Inc() }
