// Package handler exposes the asset library over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"museforge/internal/library"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/requestcontext"
)

// Service defines the library operations the handler needs.
type Service interface {
	Create(ctx context.Context, userID id.UserID, in library.Input) (library.Asset, error)
	Get(ctx context.Context, userID id.UserID, assetID id.AssetID) (library.Asset, error)
	List(ctx context.Context, userID id.UserID, kind library.Kind) ([]library.Asset, error)
	Update(ctx context.Context, userID id.UserID, assetID id.AssetID, in library.Input) (library.Asset, error)
	Delete(ctx context.Context, userID id.UserID, assetID id.AssetID) error
}

// Handler handles asset library endpoints.
type Handler struct {
	logger       *slog.Logger
	library      Service
	jwtValidator middleware.JWTValidator
}

// New creates a new library Handler.
func New(library Service, logger *slog.Logger, jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		logger:       logger,
		library:      library,
		jwtValidator: jwtValidator,
	}
}

// Register registers the library routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	libraryRouter := chi.NewRouter()
	libraryRouter.Use(middleware.Recovery(h.logger))
	libraryRouter.Use(middleware.RequestID)
	libraryRouter.Use(middleware.RequestTime)
	libraryRouter.Use(middleware.ClientMetadata)
	libraryRouter.Use(middleware.Logger(h.logger))
	libraryRouter.Use(middleware.Timeout(30 * time.Second))
	libraryRouter.Use(middleware.ContentTypeJSON)
	libraryRouter.Use(middleware.RequireAuth(h.jwtValidator, h.logger))
	libraryRouter.Get("/assets", h.handleList)
	libraryRouter.Post("/assets", h.handleCreate)
	libraryRouter.Get("/assets/{assetID}", h.handleGet)
	libraryRouter.Put("/assets/{assetID}", h.handleUpdate)
	libraryRouter.Delete("/assets/{assetID}", h.handleDelete)

	r.Mount("/library", libraryRouter)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	assets, err := h.library.List(ctx, userID, library.Kind(r.URL.Query().Get("kind")))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if assets == nil {
		assets = []library.Asset{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"assets": assets})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	in, ok := h.decodeInput(ctx, w, r)
	if !ok {
		return
	}

	asset, err := h.library.Create(ctx, userID, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, asset)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	asset, err := h.library.Get(ctx, userID, assetID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	in, ok := h.decodeInput(ctx, w, r)
	if !ok {
		return
	}

	asset, err := h.library.Update(ctx, userID, assetID, in)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, asset)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.authedUser(ctx, w)
	if !ok {
		return
	}

	assetID, ok := h.assetID(w, r)
	if !ok {
		return
	}

	if err := h.library.Delete(ctx, userID, assetID); err != nil {
		shared.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeInput(ctx context.Context, w http.ResponseWriter, r *http.Request) (library.Input, bool) {
	var in library.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		h.logger.WarnContext(ctx, "invalid asset request body",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return library.Input{}, false
	}
	return in, true
}

func (h *Handler) assetID(w http.ResponseWriter, r *http.Request) (id.AssetID, bool) {
	assetID, err := id.ParseAssetID(chi.URLParam(r, "assetID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid asset id"))
		return id.AssetID{}, false
	}
	return assetID, true
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
