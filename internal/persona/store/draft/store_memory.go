// Package draft provides draft stores: in-memory for tests and development,
// redis for production where drafts survive server restarts but carry a TTL.
package draft

import (
	"context"
	"sync"

	"museforge/internal/persona"
	id "museforge/pkg/domain"
)

type InMemoryStore struct {
	mu     sync.RWMutex
	drafts map[id.UserID]persona.Draft
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{drafts: make(map[id.UserID]persona.Draft)}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*persona.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, exists := s.drafts[userID]
	if !exists {
		return nil, nil
	}
	return &d, nil
}

func (s *InMemoryStore) Save(_ context.Context, draft persona.Draft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[draft.UserID] = draft
	return nil
}

func (s *InMemoryStore) Delete(_ context.Context, userID id.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.drafts, userID)
	return nil
}
