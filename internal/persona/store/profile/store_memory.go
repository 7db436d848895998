// Package profile stores finished personas.
package profile

import (
	"context"
	"sort"
	"sync"

	"museforge/internal/persona"
	id "museforge/pkg/domain"
)

type InMemoryStore struct {
	mu       sync.RWMutex
	personas map[id.PersonaID]persona.Persona
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{personas: make(map[id.PersonaID]persona.Persona)}
}

func (s *InMemoryStore) Create(_ context.Context, p persona.Persona) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.personas[p.ID] = p
	return nil
}

func (s *InMemoryStore) Get(_ context.Context, userID id.UserID, personaID id.PersonaID) (*persona.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.personas[personaID]
	if !exists || p.UserID != userID {
		return nil, nil
	}
	return &p, nil
}

func (s *InMemoryStore) List(_ context.Context, userID id.UserID) ([]persona.Persona, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []persona.Persona
	for _, p := range s.personas {
		if p.UserID == userID {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
