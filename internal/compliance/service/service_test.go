package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"museforge/internal/compliance"
	"museforge/internal/compliance/store/record"
	id "museforge/pkg/domain"
	"museforge/pkg/notify"
	"museforge/pkg/platform/audit"
	"museforge/pkg/requestcontext"
)

func boolPtr(b bool) *bool { return &b }

func fullUpdate() compliance.Update {
	v := true
	return compliance.Update{
		AgeVerified:             &v,
		TermsAccepted:           &v,
		PrivacyAccepted:         &v,
		GuidelinesAccepted:      &v,
		ComplaintPolicyAccepted: &v,
		DMCAPolicyAccepted:      &v,
		RefundPolicyAccepted:    &v,
		CookiePolicyAccepted:    &v,
	}
}

type fixture struct {
	svc      *Service
	store    *record.InMemoryStore
	notifier *notify.Recorder
	audits   *audit.InMemoryStore
	userID   id.UserID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := record.NewInMemoryStore()
	notifier := &notify.Recorder{}
	audits := audit.NewInMemoryStore()
	pub, err := audit.NewPublisher(audits)
	require.NoError(t, err)

	svc, err := New(store,
		WithNotifier(notifier),
		WithAuditPublisher(pub),
	)
	require.NoError(t, err)

	return &fixture{
		svc:      svc,
		store:    store,
		notifier: notifier,
		audits:   audits,
		userID:   id.NewUserID(),
	}
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestLoad_MissingRecordDefaultsToAllFalse(t *testing.T) {
	f := newFixture(t)

	rec := f.svc.Load(context.Background(), f.userID)
	assert.False(t, rec.FullyCompliant)
	assert.Equal(t, 0, rec.CompletedCount())
	assert.Nil(t, rec.VerificationDate)
}

type failingStore struct {
	getErr  error
	saveErr error
}

func (s *failingStore) Get(context.Context, id.UserID) (*compliance.Record, error) {
	return nil, s.getErr
}

func (s *failingStore) Save(context.Context, id.UserID, compliance.Record) error {
	return s.saveErr
}

func TestLoad_ReadFailureDegradesToDefaults(t *testing.T) {
	notifier := &notify.Recorder{}
	svc, err := New(&failingStore{getErr: errors.New("redis: connection refused")},
		WithNotifier(notifier))
	require.NoError(t, err)

	rec := svc.Load(context.Background(), id.NewUserID())
	assert.False(t, rec.FullyCompliant)
	// Read failures degrade silently; only write failures face the user.
	assert.Empty(t, notifier.Notifications)
}

func TestUpdate_RecomputesDerivedState(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec := f.svc.Update(ctx, f.userID, compliance.Update{
		AgeVerified:   boolPtr(true),
		TermsAccepted: boolPtr(true),
	})
	assert.False(t, rec.FullyCompliant)
	assert.Equal(t, 2, rec.CompletedCount())
	require.NotNil(t, rec.LastChecked)

	// The persisted copy matches what the caller saw.
	stored, err := f.store.Get(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, rec, *stored)
}

func TestUpdate_VerificationAcrossCalls(t *testing.T) {
	f := newFixture(t)
	base := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)

	upd := fullUpdate()
	upd.CookiePolicyAccepted = nil
	ctx := requestcontext.WithTime(context.Background(), base)
	rec := f.svc.Update(ctx, f.userID, upd)
	assert.False(t, rec.FullyCompliant)
	assert.Nil(t, rec.VerificationDate)

	completing := base.Add(time.Minute)
	ctx = requestcontext.WithTime(context.Background(), completing)
	rec = f.svc.Update(ctx, f.userID, compliance.Update{CookiePolicyAccepted: boolPtr(true)})
	assert.True(t, rec.FullyCompliant)
	require.NotNil(t, rec.VerificationDate)
	assert.Equal(t, completing, *rec.VerificationDate)

	// Success toast fires exactly on the completing call.
	last := f.notifier.Last()
	assert.Equal(t, notify.LevelSuccess, last.Level)

	// And the transition is audited once as a verification.
	events, err := f.audits.ListByUser(context.Background(), f.userID)
	require.NoError(t, err)
	var verifications int
	for _, e := range events {
		if e.Action == string(audit.EventComplianceVerified) {
			verifications++
		}
	}
	assert.Equal(t, 1, verifications)
}

func TestUpdate_PersistFailureKeepsInMemoryRecord(t *testing.T) {
	notifier := &notify.Recorder{}
	svc, err := New(&failingStore{saveErr: errors.New("pq: write failed")},
		WithNotifier(notifier))
	require.NoError(t, err)

	rec := svc.Update(context.Background(), id.NewUserID(), fullUpdate())

	// No rollback: the computed record is returned despite the failed save.
	assert.True(t, rec.FullyCompliant)
	require.NotEmpty(t, notifier.Notifications)
	assert.Equal(t, notify.LevelError, notifier.Last().Level)
}

func TestReset_ClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.svc.Update(ctx, f.userID, fullUpdate())
	rec := f.svc.Reset(ctx, f.userID)

	assert.False(t, rec.FullyCompliant)
	assert.Equal(t, 0, rec.CompletedCount())
	assert.Nil(t, rec.VerificationDate)
	require.NotNil(t, rec.LastChecked)
	assert.Equal(t, notify.LevelInfo, f.notifier.Last().Level)

	stored, err := f.store.Get(ctx, f.userID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Nil(t, stored.VerificationDate)
}

func TestSummary_SevenOfEight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	upd := fullUpdate()
	upd.DMCAPolicyAccepted = nil
	f.svc.Update(ctx, f.userID, upd)

	sum := f.svc.Summary(ctx, f.userID)
	assert.Equal(t, compliance.Summary{Total: 8, Completed: 7, Percentage: 88, IsComplete: false}, sum)
}

func TestValidateForAction(t *testing.T) {
	t.Run("denies and names the action when incomplete", func(t *testing.T) {
		f := newFixture(t)

		ok := f.svc.ValidateForAction(context.Background(), f.userID, "generate image")
		assert.False(t, ok)
		require.NotEmpty(t, f.notifier.Notifications)
		assert.Equal(t, notify.LevelError, f.notifier.Last().Level)
		assert.Contains(t, f.notifier.Last().Message, "generate image")
	})

	t.Run("incomplete wins over expired in messaging", func(t *testing.T) {
		f := newFixture(t)
		// Nothing accepted: the record is both incomplete and unverified.
		ok := f.svc.ValidateForAction(context.Background(), f.userID, "generate video")
		assert.False(t, ok)
		assert.Contains(t, f.notifier.Last().Message, "generate video")
		assert.NotContains(t, f.notifier.Last().Message, "expired")
	})

	t.Run("denies with expiry message when verification lapsed", func(t *testing.T) {
		f := newFixture(t)
		verifiedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), verifiedAt)
		f.svc.Update(ctx, f.userID, fullUpdate())

		lapsed := verifiedAt.Add(compliance.VerificationPeriod + time.Hour)
		ctx = requestcontext.WithTime(context.Background(), lapsed)
		ok := f.svc.ValidateForAction(ctx, f.userID, "generate image")
		assert.False(t, ok)
		assert.Contains(t, f.notifier.Last().Message, "expired")
	})

	t.Run("allows when compliant and fresh", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		f.svc.Update(ctx, f.userID, fullUpdate())

		before := len(f.notifier.Notifications)
		ok := f.svc.ValidateForAction(ctx, f.userID, "generate image")
		assert.True(t, ok)
		assert.Len(t, f.notifier.Notifications, before, "a passing gate is silent")
	})

	t.Run("exactly at the period boundary still passes", func(t *testing.T) {
		f := newFixture(t)
		verifiedAt := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
		ctx := requestcontext.WithTime(context.Background(), verifiedAt)
		f.svc.Update(ctx, f.userID, fullUpdate())

		boundary := verifiedAt.Add(compliance.VerificationPeriod)
		ctx = requestcontext.WithTime(context.Background(), boundary)
		assert.True(t, f.svc.ValidateForAction(ctx, f.userID, "generate image"))
	})
}
