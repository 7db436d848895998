// Package service implements the asset library CRUD operations.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"museforge/internal/library"
	"museforge/internal/library/ports"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/requestcontext"
)

type Service struct {
	store  ports.AssetStore
	logger *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func New(store ports.AssetStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("asset store is required")
	}

	svc := &Service{store: store}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create validates the input and stores a new asset for the user.
func (s *Service) Create(ctx context.Context, userID id.UserID, in library.Input) (library.Asset, error) {
	if err := in.Validate(); err != nil {
		return library.Asset{}, err
	}

	now := requestcontext.Now(ctx)
	asset := library.Asset{
		ID:         id.NewAssetID(),
		UserID:     userID,
		Kind:       in.Kind,
		Name:       in.Name,
		Prompt:     in.Prompt,
		PreviewURL: in.PreviewURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.store.Create(ctx, asset); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to create asset",
				"user_id", userID.String(),
				"kind", asset.Kind,
				"error", err,
			)
		}
		return library.Asset{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
	}

	return asset, nil
}

// Get returns one of the user's assets.
func (s *Service) Get(ctx context.Context, userID id.UserID, assetID id.AssetID) (library.Asset, error) {
	asset, err := s.store.Get(ctx, userID, assetID)
	if err != nil {
		return library.Asset{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load asset")
	}
	if asset == nil {
		return library.Asset{}, dErrors.New(dErrors.CodeNotFound, "asset not found")
	}
	return *asset, nil
}

// List returns the user's assets, optionally filtered to one kind.
func (s *Service) List(ctx context.Context, userID id.UserID, kind library.Kind) ([]library.Asset, error) {
	if kind != "" {
		if _, err := library.ParseKind(string(kind)); err != nil {
			return nil, err
		}
	}

	assets, err := s.store.List(ctx, userID, kind)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list assets")
	}
	return assets, nil
}

// Update replaces the editable fields of an existing asset.
func (s *Service) Update(ctx context.Context, userID id.UserID, assetID id.AssetID, in library.Input) (library.Asset, error) {
	if err := in.Validate(); err != nil {
		return library.Asset{}, err
	}

	existing, err := s.Get(ctx, userID, assetID)
	if err != nil {
		return library.Asset{}, err
	}

	existing.Kind = in.Kind
	existing.Name = in.Name
	existing.Prompt = in.Prompt
	existing.PreviewURL = in.PreviewURL
	existing.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, existing); err != nil {
		return library.Asset{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save asset")
	}
	return existing, nil
}

// Delete removes one of the user's assets. Deleting an absent asset is a
// NotFound, matching what the dashboard shows for a stale row.
func (s *Service) Delete(ctx context.Context, userID id.UserID, assetID id.AssetID) error {
	if _, err := s.Get(ctx, userID, assetID); err != nil {
		return err
	}

	if err := s.store.Delete(ctx, userID, assetID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete asset")
	}
	return nil
}
