package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the application-wide Prometheus metrics. Module-specific
// metrics live in each module's metrics package.
type Metrics struct {
	HTTPRequests *prometheus.CounterVec
}

// New creates and registers the application-wide metrics.
func New() *Metrics {
	return &Metrics{
		HTTPRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "museforge_http_requests_total",
			Help: "Total HTTP requests by method and status class",
		}, []string{"method", "status"}),
	}
}
