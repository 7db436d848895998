package record

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"museforge/internal/compliance"
	id "museforge/pkg/domain"
)

// keyNamespace is the fixed namespace for persisted compliance records.
// Changing it orphans existing records, so treat it as part of the schema.
const keyNamespace = "museforge:compliance:v1"

// RedisStore persists compliance records as JSON values under a fixed
// per-user key. Records carry no TTL; expiry is a domain concept computed
// from VerificationDate, not a storage concern.
type RedisStore struct {
	client redis.UniversalClient
}

func NewRedisStore(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

func key(userID id.UserID) string {
	return fmt.Sprintf("%s:%s", keyNamespace, userID.String())
}

func (s *RedisStore) Get(ctx context.Context, userID id.UserID) (*compliance.Record, error) {
	payload, err := s.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compliance record: %w", err)
	}

	var record compliance.Record
	if err := json.Unmarshal(payload, &record); err != nil {
		// An unparseable record is treated as absent so the caller falls
		// back to defaults instead of failing the request.
		return nil, fmt.Errorf("decode compliance record: %w", err)
	}
	return &record, nil
}

func (s *RedisStore) Save(ctx context.Context, userID id.UserID, record compliance.Record) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode compliance record: %w", err)
	}
	if err := s.client.Set(ctx, key(userID), payload, 0).Err(); err != nil {
		return fmt.Errorf("save compliance record: %w", err)
	}
	return nil
}
