// Package handler exposes the credit-gated action flow over HTTP.
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
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/requestcontext"
)

// Executor runs the gated action once the user has confirmed the spend.
// Modules owning confirmable actions register one per item identifier.
type Executor interface {
	Execute(ctx context.Context, userID id.UserID, quote credits.Quote) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, userID id.UserID, quote credits.Quote) error

func (f ExecutorFunc) Execute(ctx context.Context, userID id.UserID, quote credits.Quote) error {
	return f(ctx, userID, quote)
}

// Handler handles credit flow endpoints.
type Handler struct {
	logger       *slog.Logger
	flows        *flow.Manager
	executors    map[string]Executor
	jwtValidator middleware.JWTValidator
}

// New creates a new credits Handler.
func New(flows *flow.Manager, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		flows:        flows,
		executors:    make(map[string]Executor),
		jwtValidator: jwtValidator,
	}
}

// RegisterExecutor binds an item identifier to the code that runs when its
// spend is confirmed. Call during wiring, before the server starts.
func (h *Handler) RegisterExecutor(itemID string, exec Executor) {
	h.executors[itemID] = exec
}

// Register registers the credits routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	creditsRouter := chi.NewRouter()
	creditsRouter.Use(middleware.Recovery(h.logger))
	creditsRouter.Use(middleware.RequestID)
	creditsRouter.Use(middleware.RequestTime)
	creditsRouter.Use(middleware.ClientMetadata)
	creditsRouter.Use(middleware.Logger(h.logger))
	creditsRouter.Use(middleware.Timeout(30 * time.Second))
	creditsRouter.Use(middleware.ContentTypeJSON)
	creditsRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	creditsRouter.Get("/balance", h.handleBalance)
	creditsRouter.Get("/flow", h.handleFlowState)
	creditsRouter.Post("/quote", h.handleQuote)
	creditsRouter.Post("/confirm", h.handleConfirm)
	creditsRouter.Post("/cancel", h.handleCancel)
	creditsRouter.Post("/purchase-link", h.handlePurchaseLink)

	r.Mount("/credits", creditsRouter)
}

type quoteRequest struct {
	ItemID      string `json:"item_id"`
	Description string `json:"description"`
	UnitCount   int    `json:"unit_count"`
}

type quoteResponse struct {
	Quote     credits.Quote   `json:"quote"`
	Breakdown string          `json:"breakdown"`
	State     credits.State   `json:"state"`
	Balance   credits.Balance `json:"balance"`
}

func (h *Handler) handleQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userFlow, ok := h.userFlow(ctx, w)
	if !ok {
		return
	}

	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if req.ItemID == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "item_id is required"))
		return
	}

	quote, err := userFlow.FetchCost(ctx, req.ItemID, req.Description, req.UnitCount)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, quoteResponse{
		Quote:     *quote,
		Breakdown: quote.Breakdown(),
		State:     userFlow.State(),
		Balance:   userFlow.CurrentBalance(),
	})
}

func (h *Handler) handleConfirm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	userFlow, ok := h.userFlow(ctx, w)
	if !ok {
		return
	}

	quote := userFlow.CurrentQuote()
	if quote == nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeConflict, "no action is awaiting confirmation"))
		return
	}
	exec, found := h.executors[quote.ItemID]
	if !found {
		shared.WriteError(w, dErrors.Newf(dErrors.CodeConflict, "item %q cannot be executed here", quote.ItemID))
		return
	}

	err := userFlow.Confirm(ctx, func(ctx context.Context) error {
		return exec.Execute(ctx, userID, *quote)
	})
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]credits.State{"state": userFlow.State()})
}

func (h *Handler) handleCancel(w http.ResponseWriter, r *http.Request) {
	userFlow, ok := h.userFlow(r.Context(), w)
	if !ok {
		return
	}

	userFlow.Cancel()
	w.WriteHeader(http.StatusNoContent)
}

type purchaseLinkRequest struct {
	ProductID string `json:"product_id"`
}

func (h *Handler) handlePurchaseLink(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userFlow, ok := h.userFlow(ctx, w)
	if !ok {
		return
	}

	var req purchaseLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	productID, err := id.ParseProductID(req.ProductID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	url, err := userFlow.RedirectToPurchase(ctx, productID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, map[string]string{"url": url})
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userFlow, ok := h.userFlow(ctx, w)
	if !ok {
		return
	}

	balance, err := userFlow.RefreshBalance(ctx)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, balance)
}

type flowStateResponse struct {
	State credits.State  `json:"state"`
	Quote *credits.Quote `json:"quote,omitempty"`
}

func (h *Handler) handleFlowState(w http.ResponseWriter, r *http.Request) {
	userFlow, ok := h.userFlow(r.Context(), w)
	if !ok {
		return
	}

	shared.WriteJSON(w, http.StatusOK, flowStateResponse{
		State: userFlow.State(),
		Quote: userFlow.CurrentQuote(),
	})
}

func (h *Handler) userFlow(ctx context.Context, w http.ResponseWriter) (*flow.Flow, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", middleware.GetRequestID(ctx),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return nil, false
	}

	userFlow, err := h.flows.FlowFor(userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to build credit flow",
			"user_id", userID.String(),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "credit flow unavailable"))
		return nil, false
	}
	return userFlow, true
}
