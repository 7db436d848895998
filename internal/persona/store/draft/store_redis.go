package draft

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"museforge/internal/persona"
	id "museforge/pkg/domain"
)

// keyNamespace is the fixed namespace for persisted drafts. Changing it
// orphans existing drafts, so treat it as part of the schema.
const keyNamespace = "museforge:persona-draft:v1"

// DefaultTTL bounds how long an abandoned draft lingers. Every save renews
// it, so an active wizard session never expires mid-edit.
const DefaultTTL = 7 * 24 * time.Hour

// RedisStore persists drafts as JSON values under a per-user key.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
}

type RedisOption func(*RedisStore)

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...RedisOption) *RedisStore {
	store := &RedisStore{client: client, ttl: DefaultTTL}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func key(userID id.UserID) string {
	return fmt.Sprintf("%s:%s", keyNamespace, userID.String())
}

func (s *RedisStore) Get(ctx context.Context, userID id.UserID) (*persona.Draft, error) {
	payload, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get draft: %w", err)
	}

	var d persona.Draft
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("decode draft: %w", err)
	}
	return &d, nil
}

func (s *RedisStore) Save(ctx context.Context, draft persona.Draft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("encode draft: %w", err)
	}
	if err := s.client.Set(ctx, key(draft.UserID), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, userID id.UserID) error {
	if err := s.client.Del(ctx, key(userID)).Err(); err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	return nil
}
