// Package admin exposes operator-only endpoints guarded by a shared API
// token. The token is configured as a bcrypt hash so the plaintext never
// lives in the environment of the running service.
package admin

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"museforge/internal/compliance"
	"museforge/internal/platform/middleware"
	"museforge/internal/transport/http/shared"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/platform/audit"
	"museforge/pkg/platform/secrets"
)

// tokenHeader carries the operator token on admin requests.
const tokenHeader = "X-Admin-Token"

// ComplianceService is the slice of the compliance service admins use.
type ComplianceService interface {
	Load(ctx context.Context, userID id.UserID) compliance.Record
	Reset(ctx context.Context, userID id.UserID) compliance.Record
}

// AuditPublisher records admin actions; operating on another user's record
// is security-relevant and must leave a trace.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Handler handles admin endpoints.
type Handler struct {
	logger         *slog.Logger
	tokenHash      string
	auditLog       audit.Store
	compliance     ComplianceService
	auditPublisher AuditPublisher
}

// New creates a new admin Handler. tokenHash is the bcrypt hash of the
// operator token.
func New(tokenHash string, auditLog audit.Store, complianceSvc ComplianceService, auditPublisher AuditPublisher, logger *slog.Logger) *Handler {
	return &Handler{
		logger:         logger,
		tokenHash:      tokenHash,
		auditLog:       auditLog,
		compliance:     complianceSvc,
		auditPublisher: auditPublisher,
	}
}

// Register registers the admin routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	adminRouter := chi.NewRouter()
	adminRouter.Use(middleware.Recovery(h.logger))
	adminRouter.Use(middleware.RequestID)
	adminRouter.Use(middleware.RequestTime)
	adminRouter.Use(middleware.ClientMetadata)
	adminRouter.Use(middleware.Logger(h.logger))
	adminRouter.Use(middleware.Timeout(30 * time.Second))
	adminRouter.Use(h.requireToken)
	adminRouter.Get("/users/{userID}/audit", h.handleUserAudit)
	adminRouter.Get("/users/{userID}/compliance", h.handleUserCompliance)
	adminRouter.Post("/users/{userID}/compliance/reset", h.handleComplianceReset)

	r.Mount("/admin", adminRouter)
}

// requireToken rejects requests whose token does not verify against the
// configured hash.
func (h *Handler) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(tokenHeader)
		if token == "" || secrets.Verify(token, h.tokenHash) != nil {
			h.logger.WarnContext(r.Context(), "rejected admin request",
				"path", r.URL.Path,
				"request_id", middleware.GetRequestID(r.Context()),
			)
			shared.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid admin token"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) handleUserAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.pathUser(w, r)
	if !ok {
		return
	}

	events, err := h.auditLog.ListByUser(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to list audit events",
			"user_id", userID.String(),
			"error", err,
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeInternal, "failed to load audit events"))
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	shared.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleUserCompliance(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.pathUser(w, r)
	if !ok {
		return
	}

	shared.WriteJSON(w, http.StatusOK, h.compliance.Load(r.Context(), userID))
}

func (h *Handler) handleComplianceReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.pathUser(w, r)
	if !ok {
		return
	}

	record := h.compliance.Reset(ctx, userID)

	if h.auditPublisher != nil {
		event := audit.Event{
			Category: audit.CategorySecurity,
			UserID:   userID,
			Action:   string(audit.EventAdminComplianceReset),
			Reason:   "operator reset via admin API",
		}
		if err := h.auditPublisher.Emit(ctx, event); err != nil {
			h.logger.WarnContext(ctx, "failed to emit admin audit event",
				"user_id", userID.String(),
				"error", err,
			)
		}
	}

	shared.WriteJSON(w, http.StatusOK, record)
}

func (h *Handler) pathUser(w http.ResponseWriter, r *http.Request) (id.UserID, bool) {
	userID, err := id.ParseUserID(chi.URLParam(r, "userID"))
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid user id"))
		return id.UserID{}, false
	}
	return userID, true
}
