package balance

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"museforge/internal/credits"
	"museforge/internal/credits/ports"
	id "museforge/pkg/domain"
)

// cacheKeyNamespace prefixes cached balance entries.
const cacheKeyNamespace = "museforge:balance:v1"

// DefaultCacheTTL bounds balance staleness. Kept short: the cached value is
// a display convenience, and the post-spend settle refresh must not read a
// long-lived stale entry.
const DefaultCacheTTL = 10 * time.Second

// CachedSource decorates a BalanceSource with a short-lived Redis cache.
// Cache failures degrade to the inner source; they never fail a read.
type CachedSource struct {
	inner  ports.BalanceSource
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

type CacheOption func(*CachedSource)

func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(c *CachedSource) {
		c.ttl = ttl
	}
}

func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *CachedSource) {
		c.logger = logger
	}
}

func NewCachedSource(inner ports.BalanceSource, client redis.UniversalClient, opts ...CacheOption) (*CachedSource, error) {
	if inner == nil {
		return nil, fmt.Errorf("inner balance source is required")
	}
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}

	c := &CachedSource{
		inner:  inner,
		client: client,
		ttl:    DefaultCacheTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func cacheKey(userID id.UserID) string {
	return fmt.Sprintf("%s:%s", cacheKeyNamespace, userID.String())
}

func (c *CachedSource) Balance(ctx context.Context, userID id.UserID) (credits.Balance, error) {
	payload, err := c.client.Get(ctx, cacheKey(userID)).Bytes()
	if err == nil {
		var balance credits.Balance
		if err := json.Unmarshal(payload, &balance); err == nil {
			return balance, nil
		}
		// Unparseable entry: fall through to the source and overwrite it.
	} else if !errors.Is(err, redis.Nil) && c.logger != nil {
		c.logger.WarnContext(ctx, "balance cache read failed",
			"user_id", userID.String(),
			"error", err,
		)
	}

	balance, err := c.inner.Balance(ctx, userID)
	if err != nil {
		return credits.Balance{}, err
	}

	if payload, err := json.Marshal(balance); err == nil {
		if err := c.client.Set(ctx, cacheKey(userID), payload, c.ttl).Err(); err != nil && c.logger != nil {
			c.logger.WarnContext(ctx, "balance cache write failed",
				"user_id", userID.String(),
				"error", err,
			)
		}
	}

	return balance, nil
}

// Invalidate drops the cached entry so the next read hits the source. The
// flow calls this right after a confirmed spend.
func (c *CachedSource) Invalidate(ctx context.Context, userID id.UserID) error {
	return c.client.Del(ctx, cacheKey(userID)).Err()
}
