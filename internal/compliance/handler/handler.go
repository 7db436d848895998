// Package handler exposes the compliance gate over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"museforge/internal/compliance"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/requestcontext"
)

// Service defines the compliance operations the handler needs.
type Service interface {
	Load(ctx context.Context, userID id.UserID) compliance.Record
	Update(ctx context.Context, userID id.UserID, upd compliance.Update) compliance.Record
	Reset(ctx context.Context, userID id.UserID) compliance.Record
	Summary(ctx context.Context, userID id.UserID) compliance.Summary
}

// Handler handles compliance endpoints.
type Handler struct {
	logger       *slog.Logger
	compliance   Service
	jwtValidator middleware.JWTValidator
}

// New creates a new compliance Handler.
func New(compliance Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		compliance:   compliance,
		jwtValidator: jwtValidator,
	}
}

// Register registers the compliance routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	complianceRouter := chi.NewRouter()
	complianceRouter.Use(middleware.Recovery(h.logger))
	complianceRouter.Use(middleware.RequestID)
	complianceRouter.Use(middleware.RequestTime)
	complianceRouter.Use(middleware.ClientMetadata)
	complianceRouter.Use(middleware.Logger(h.logger))
	complianceRouter.Use(middleware.Timeout(30 * time.Second))
	complianceRouter.Use(middleware.ContentTypeJSON)
	complianceRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	complianceRouter.Get("/", h.handleGet)
	complianceRouter.Patch("/", h.handleUpdate)
	complianceRouter.Post("/reset", h.handleReset)
	complianceRouter.Get("/summary", h.handleSummary)

	r.Mount("/compliance", complianceRouter)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	shared.WriteJSON(w, http.StatusOK, h.compliance.Load(ctx, userID))
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	var upd compliance.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.WarnContext(ctx, "invalid compliance update request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if upd.IsEmpty() {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "no compliance flags in request"))
		return
	}

	shared.WriteJSON(w, http.StatusOK, h.compliance.Update(ctx, userID, upd))
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	shared.WriteJSON(w, http.StatusOK, h.compliance.Reset(ctx, userID))
}

func (h *Handler) handleSummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	shared.WriteJSON(w, http.StatusOK, h.compliance.Summary(ctx, userID))
}

// authedUser pulls the authenticated user from the context. A miss means the
// route was mounted without RequireAuth, which is a wiring bug.
func (h *Handler) authedUser(ctx context.Context, w http.ResponseWriter) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return userID, true
}
