//go:build integration

package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"museforge/internal/persona"
	"museforge/internal/persona/store/draft"
	id "museforge/pkg/domain"
	"museforge/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestSaveThenGetRoundTrips() {
	store := draft.NewRedisStore(s.redis.Client)
	ctx := context.Background()
	userID := id.NewUserID()

	d := persona.NewDraft(userID, time.Now().UTC().Truncate(time.Millisecond))
	d.Merge(persona.StepIdentity, map[string]string{"name": "Luna", "niche": "travel"})
	s.Require().NoError(store.Save(ctx, d))

	got, err := store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(persona.StepIdentity, got.Step)
	s.Equal("Luna", got.Field(persona.StepIdentity, "name"))
}

func (s *RedisStoreSuite) TestGetAbsentDraftReturnsNil() {
	store := draft.NewRedisStore(s.redis.Client)

	got, err := store.Get(context.Background(), id.NewUserID())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RedisStoreSuite) TestDeleteRemovesDraft() {
	store := draft.NewRedisStore(s.redis.Client)
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(store.Save(ctx, persona.NewDraft(userID, time.Now())))
	s.Require().NoError(store.Delete(ctx, userID))

	got, err := store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *RedisStoreSuite) TestDraftExpires() {
	store := draft.NewRedisStore(s.redis.Client, draft.WithTTL(100*time.Millisecond))
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(store.Save(ctx, persona.NewDraft(userID, time.Now())))

	time.Sleep(150 * time.Millisecond)

	got, err := store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Nil(got)
}
