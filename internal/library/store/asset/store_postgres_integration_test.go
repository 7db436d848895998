//go:build integration

package asset_test

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/suite"

	"museforge/internal/library"
	"museforge/internal/library/store/asset"
	id "museforge/pkg/domain"
	"museforge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	pool     *pgxpool.Pool
	store    *asset.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())

	pool, err := pgxpool.New(context.Background(), s.postgres.DSN)
	s.Require().NoError(err)
	s.pool = pool
	s.T().Cleanup(pool.Close)

	s.store = asset.NewPostgresStore(pool)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "library_assets"))
}

func (s *PostgresStoreSuite) TestCreateThenGetRoundTrips() {
	ctx := context.Background()
	owner := id.NewUserID()
	now := time.Now().UTC().Truncate(time.Microsecond)

	a := library.Asset{
		ID:         id.NewAssetID(),
		UserID:     owner,
		Kind:       library.KindLocation,
		Name:       "Rooftop bar",
		Prompt:     "a rooftop bar at dusk, neon signage",
		PreviewURL: "https://cdn.example/previews/rooftop.jpg",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.Require().NoError(s.store.Create(ctx, a))

	got, err := s.store.Get(ctx, owner, a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(a.Name, got.Name)
	s.Equal(a.Kind, got.Kind)
	s.True(got.CreatedAt.Equal(now))
}

func (s *PostgresStoreSuite) TestGetScopesToUser() {
	ctx := context.Background()
	owner := id.NewUserID()
	now := time.Now().UTC()

	a := library.Asset{ID: id.NewAssetID(), UserID: owner, Kind: library.KindPose, Name: "Sitting", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.store.Create(ctx, a))

	got, err := s.store.Get(ctx, id.NewUserID(), a.ID)
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PostgresStoreSuite) TestListFiltersByKindNewestFirst() {
	ctx := context.Background()
	owner := id.NewUserID()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	mk := func(kind library.Kind, name string, at time.Time) library.Asset {
		return library.Asset{ID: id.NewAssetID(), UserID: owner, Kind: kind, Name: name, CreatedAt: at, UpdatedAt: at}
	}
	s.Require().NoError(s.store.Create(ctx, mk(library.KindPose, "Sitting", base)))
	s.Require().NoError(s.store.Create(ctx, mk(library.KindPose, "Standing", base.Add(time.Hour))))
	s.Require().NoError(s.store.Create(ctx, mk(library.KindClothing, "Jacket", base)))

	poses, err := s.store.List(ctx, owner, library.KindPose)
	s.Require().NoError(err)
	s.Require().Len(poses, 2)
	s.Equal("Standing", poses[0].Name)

	all, err := s.store.List(ctx, owner, "")
	s.Require().NoError(err)
	s.Len(all, 3)
}

func (s *PostgresStoreSuite) TestUpdateAndDelete() {
	ctx := context.Background()
	owner := id.NewUserID()
	now := time.Now().UTC()

	a := library.Asset{ID: id.NewAssetID(), UserID: owner, Kind: library.KindAccessory, Name: "Sunglasses", CreatedAt: now, UpdatedAt: now}
	s.Require().NoError(s.store.Create(ctx, a))

	a.Name = "Aviators"
	a.UpdatedAt = now.Add(time.Minute)
	s.Require().NoError(s.store.Update(ctx, a))

	got, err := s.store.Get(ctx, owner, a.ID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal("Aviators", got.Name)

	s.Require().NoError(s.store.Delete(ctx, owner, a.ID))
	got, err = s.store.Get(ctx, owner, a.ID)
	s.Require().NoError(err)
	s.Nil(got)
}
