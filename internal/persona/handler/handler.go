// Package handler exposes the persona creation wizard over HTTP.
//
// Completing a draft is a two-request dance: POST /personas/draft/complete
// checks readiness and issues a credit quote for the persona.create item,
// then POST /credits/confirm runs the registered executor that finalizes the
// draft into a persona.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"museforge/internal/credits"
	"museforge/internal/credits/flow"
	"museforge/internal/persona"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/requestcontext"
)

// Service defines the wizard operations the handler needs.
type Service interface {
	Draft(ctx context.Context, userID id.UserID) (persona.Draft, error)
	UpdateStep(ctx context.Context, userID id.UserID, fields map[string]string) (persona.Draft, error)
	Advance(ctx context.Context, userID id.UserID) (persona.Draft, error)
	Back(ctx context.Context, userID id.UserID) (persona.Draft, error)
	Discard(ctx context.Context, userID id.UserID) error
	CheckReady(ctx context.Context, userID id.UserID) error
	Get(ctx context.Context, userID id.UserID, personaID id.PersonaID) (persona.Persona, error)
	List(ctx context.Context, userID id.UserID) ([]persona.Persona, error)
}

// Handler handles persona wizard endpoints.
type Handler struct {
	logger       *slog.Logger
	personas     Service
	flows        *flow.Manager
	jwtValidator middleware.JWTValidator
}

// New creates a new persona Handler.
func New(personas Service, flows *flow.Manager, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		personas:     personas,
		flows:        flows,
		jwtValidator: jwtValidator,
	}
}

// Register registers the persona routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	personaRouter := chi.NewRouter()
	personaRouter.Use(middleware.Recovery(h.logger))
	personaRouter.Use(middleware.RequestID)
	personaRouter.Use(middleware.RequestTime)
	personaRouter.Use(middleware.ClientMetadata)
	personaRouter.Use(middleware.Logger(h.logger))
	personaRouter.Use(middleware.Timeout(30 * time.Second))
	personaRouter.Use(middleware.ContentTypeJSON)
	personaRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	personaRouter.Get("/", h.handleList)
	personaRouter.Get("/{personaID}", h.handleGet)
	personaRouter.Get("/draft", h.handleDraft)
	personaRouter.Put("/draft", h.handleUpdateStep)
	personaRouter.Post("/draft/advance", h.handleAdvance)
	personaRouter.Post("/draft/back", h.handleBack)
	personaRouter.Post("/draft/complete", h.handleComplete)
	personaRouter.Delete("/draft", h.handleDiscard)

	r.Mount("/personas", personaRouter)
}

func (h *Handler) handleDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	draft, err := h.personas.Draft(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleUpdateStep(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	var fields map[string]string
	if err := json.NewDecoder(r.Body).Decode(&fields); err != nil {
		h.logger.WarnContext(ctx, "invalid draft update request",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	draft, err := h.personas.UpdateStep(ctx, userID, fields)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleAdvance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	draft, err := h.personas.Advance(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleBack(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	draft, err := h.personas.Back(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, draft)
}

func (h *Handler) handleDiscard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	if err := h.personas.Discard(ctx, userID); err != nil {
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type completeResponse struct {
	Quote     credits.Quote   `json:"quote"`
	Breakdown string          `json:"breakdown"`
	State     credits.State   `json:"state"`
	Balance   credits.Balance `json:"balance"`
}

// handleComplete checks the draft is finishable, then issues a credit quote
// for the creation. The actual persona is created by the credits confirm
// endpoint running the persona executor.
func (h *Handler) handleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	if err := h.personas.CheckReady(ctx, userID); err != nil {
		shared.WriteError(w, err)
		return
	}

	userFlow, err := h.flows.FlowFor(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build credit flow",
			"user_id", userID.String(),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "credit flow unavailable"))
		return
	}

	quote, err := userFlow.FetchCost(ctx, persona.CreateItemID, "Create influencer", 1)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, completeResponse{
		Quote:     *quote,
		Breakdown: quote.Breakdown(),
		State:     userFlow.State(),
		Balance:   userFlow.CurrentBalance(),
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	personas, err := h.personas.List(ctx, userID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if personas == nil {
		personas = []persona.Persona{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"personas": personas})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	personaID, err := id.ParsePersonaID(chi.URLParam(r, "personaID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid persona id"))
		return
	}

	p, err := h.personas.Get(ctx, userID, personaID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, p)
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
