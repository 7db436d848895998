// Package handler serves the static product catalog.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"museforge/internal/payments"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
)

// Handler handles payments endpoints. The catalog is public: pricing is
// shown on the marketing site before signup.
type Handler struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Handler {
	return &Handler{logger: logger}
}

// Register registers the payments routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	paymentsRouter := chi.NewRouter()
	paymentsRouter.Use(middleware.Recovery(h.logger))
	paymentsRouter.Use(middleware.RequestID)
	paymentsRouter.Use(middleware.Logger(h.logger))
	paymentsRouter.Use(middleware.Timeout(10 * time.Second))
	paymentsRouter.Get("/products", h.handleProducts)

	r.Mount("/payments", paymentsRouter)
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	shared.WriteJSON(w, http.StatusOK, map[string][]payments.Product{
		"products": payments.Catalog(),
	})
}
