// Package record provides compliance record stores: in-memory for tests and
// development, Redis for the default durable key-value deployment, and
// PostgreSQL for installations that keep compliance data next to the rest of
// their relational state.
package record

import (
	"context"
	"sync"

	"museforge/internal/compliance"
	id "museforge/pkg/domain"
)

type InMemoryStore struct {
	mu      sync.RWMutex
	records map[id.UserID]compliance.Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{records: make(map[id.UserID]compliance.Record)}
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID) (*compliance.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, exists := s.records[userID]; exists {
		return &record, nil
	}
	return nil, nil
}

func (s *InMemoryStore) Save(_ context.Context, userID id.UserID, record compliance.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[userID] = record
	return nil
}
