package audit

import (
	"context"

	id "museforge/pkg/domain"
)

// Store persists audit events. Implementations must be safe for concurrent
// use; the async publisher appends from its own goroutine.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Sink forwards audit events to an external system (e.g. Kafka) after they
// are durably stored. Sink failures must not fail the originating request.
type Sink interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}
