//go:build integration

package record_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"museforge/internal/compliance"
	"museforge/internal/compliance/store/record"
	id "museforge/pkg/domain"
	"museforge/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *record.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = record.NewPostgresStore(s.postgres.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "user_compliance"))
}

func (s *PostgresStoreSuite) TestGetMissingReturnsNil() {
	got, err := s.store.Get(context.Background(), id.NewUserID())
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *PostgresStoreSuite) TestSaveThenGetRoundTrips() {
	ctx := context.Background()
	userID := id.NewUserID()
	verified := time.Now().UTC().Truncate(time.Microsecond)

	saved := compliance.Record{
		AgeVerified:             true,
		TermsAccepted:           true,
		PrivacyAccepted:         true,
		GuidelinesAccepted:      true,
		ComplaintPolicyAccepted: true,
		DMCAPolicyAccepted:      true,
		RefundPolicyAccepted:    true,
		CookiePolicyAccepted:    true,
		FullyCompliant:          true,
		VerificationDate:        &verified,
		LastChecked:             &verified,
	}
	s.Require().NoError(s.store.Save(ctx, userID, saved))

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.True(got.FullyCompliant)
	s.Require().NotNil(got.VerificationDate)
	s.True(got.VerificationDate.Equal(verified))
}

func (s *PostgresStoreSuite) TestSaveUpsertsExistingRow() {
	ctx := context.Background()
	userID := id.NewUserID()

	s.Require().NoError(s.store.Save(ctx, userID, compliance.Record{AgeVerified: true}))
	s.Require().NoError(s.store.Save(ctx, userID, compliance.Record{}))

	got, err := s.store.Get(ctx, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.False(got.AgeVerified, "second save must fully replace the row")
	s.Nil(got.VerificationDate)
}
