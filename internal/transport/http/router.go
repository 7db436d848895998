// Package httpapi assembles the module routers into the server's handler.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"museforge/internal/platform/metrics"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
)

// Registrar is implemented by each module's HTTP handler.
type Registrar interface {
	Register(r chi.Router)
}

// HealthCheck probes one dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// NewRouter builds the root router: operational endpoints plus every module's
// routes. Module routers carry their own middleware chains; only metrics
// counting happens at this level so /healthz and /metrics are counted too.
func NewRouter(appMetrics *metrics.Metrics, checks map[string]HealthCheck, modules ...Registrar) http.Handler {
	r := chi.NewRouter()
	if appMetrics != nil {
		r.Use(middleware.Metrics(appMetrics))
	}

	r.Get("/healthz", healthHandler(checks))
	r.Handle("/metrics", promhttp.Handler())

	for _, m := range modules {
		m.Register(r)
	}
	return r
}

func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[name] = err.Error()
				continue
			}
			results[name] = "ok"
		}

		shared.WriteJSON(w, status, map[string]any{
			"status": http.StatusText(status),
			"checks": results,
		})
	}
}
