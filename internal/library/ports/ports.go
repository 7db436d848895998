// Package ports defines the storage interfaces of the asset library.
package ports

import (
	"context"

	"museforge/internal/library"
	id "museforge/pkg/domain"
)

// AssetStore persists library assets. All reads and writes are scoped to
// one user; an asset belonging to another user behaves as absent.
type AssetStore interface {
	Create(ctx context.Context, asset library.Asset) error
	// Get returns (nil, nil) when the asset does not exist for this user.
	Get(ctx context.Context, userID id.UserID, assetID id.AssetID) (*library.Asset, error)
	// List returns the user's assets of one kind, newest first. An empty
	// kind lists everything.
	List(ctx context.Context, userID id.UserID, kind library.Kind) ([]library.Asset, error)
	Update(ctx context.Context, asset library.Asset) error
	Delete(ctx context.Context, userID id.UserID, assetID id.AssetID) error
}
