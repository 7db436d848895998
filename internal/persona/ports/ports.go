// Package ports declares the persona module's storage and publishing
// dependencies.
package ports

import (
	"context"

	"museforge/internal/persona"
	id "museforge/pkg/domain"
	"museforge/pkg/platform/audit"
)

// DraftStore persists at most one in-progress draft per user.
// Get returns (nil, nil) when the user has no draft.
type DraftStore interface {
	Get(ctx context.Context, userID id.UserID) (*persona.Draft, error)
	Save(ctx context.Context, draft persona.Draft) error
	Delete(ctx context.Context, userID id.UserID) error
}

// PersonaStore persists finished personas, scoped per user.
// Get returns (nil, nil) when the persona does not exist for the user.
type PersonaStore interface {
	Create(ctx context.Context, p persona.Persona) error
	Get(ctx context.Context, userID id.UserID, personaID id.PersonaID) (*persona.Persona, error)
	List(ctx context.Context, userID id.UserID) ([]persona.Persona, error)
}

// AuditPublisher emits persona lifecycle events to the audit pipeline.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
