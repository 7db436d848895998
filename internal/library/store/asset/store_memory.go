// Package asset provides asset stores: in-memory for tests and development,
// PostgreSQL (pgx) for production.
package asset

import (
	"context"
	"sort"
	"sync"

	"museforge/internal/library"
	id "museforge/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	assets map[id.AssetID]library.Asset
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{assets: make(map[id.AssetID]library.Asset)}
}

func (s *InMemoryStore) Create(_ context.Context, a library.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assets[a.ID] = a
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID, assetID id.AssetID) (*library.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.assets[assetID]
	if !exists || a.UserID != userID {
		return nil, nil
	}
	return &a, nil
}

func (s *InMemoryStore) List(_ context.Context, userID id.UserID, kind library.Kind) ([]library.Asset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []library.Asset
	for _, a := range s.assets {
		if a.UserID != userID {
			continue
		}
		if kind != "" && a.Kind != kind {
			continue
		}
		out = append(out, a)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *InMemoryStore) Update(_ context.Context, a library.Asset) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.assets[a.ID]
	if !exists || existing.UserID != a.UserID {
		return nil
	}
	s.assets[a.ID] = a
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID, assetID id.AssetID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, exists := s.assets[assetID]; exists && a.UserID == userID {
		delete(s.assets, assetID)
	}
	return nil
}
