// Package ports defines shared interfaces for the compliance module.
package ports

import (
	"context"

	"museforge/internal/compliance"
	id "museforge/pkg/domain"
	"museforge/pkg/platform/audit"
)

// RecordStore is the durable home of compliance records, keyed by user.
type RecordStore interface {
	// Get retrieves the record for a user. Returns (nil, nil) when no
	// record has been persisted yet.
	Get(ctx context.Context, userID id.UserID) (*compliance.Record, error)

	// Save persists the full record, replacing any previous version.
	Save(ctx context.Context, userID id.UserID, record compliance.Record) error
}

// AuditPublisher emits audit events for compliance-relevant operations.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}
