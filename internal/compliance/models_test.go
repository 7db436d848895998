package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

// fullUpdate sets every flag to the given value.
func fullUpdate(v bool) Update {
	return Update{
		AgeVerified:             boolPtr(v),
		TermsAccepted:           boolPtr(v),
		PrivacyAccepted:         boolPtr(v),
		GuidelinesAccepted:      boolPtr(v),
		ComplaintPolicyAccepted: boolPtr(v),
		DMCAPolicyAccepted:      boolPtr(v),
		RefundPolicyAccepted:    boolPtr(v),
		CookiePolicyAccepted:    boolPtr(v),
	}
}

func TestApply_FullyCompliantIsANDOfFlags(t *testing.T) {
	now := time.Now()

	t.Run("all flags true yields compliant", func(t *testing.T) {
		rec, verified := Apply(Record{}, fullUpdate(true), now)
		assert.True(t, rec.FullyCompliant)
		assert.True(t, verified)
		assert.Equal(t, RequirementCount, rec.CompletedCount())
	})

	t.Run("one missing flag yields non-compliant", func(t *testing.T) {
		upd := fullUpdate(true)
		upd.DMCAPolicyAccepted = boolPtr(false)
		rec, verified := Apply(Record{}, upd, now)
		assert.False(t, rec.FullyCompliant)
		assert.False(t, verified)
		assert.Equal(t, 7, rec.CompletedCount())
	})

	t.Run("clearing a flag drops compliance", func(t *testing.T) {
		rec, _ := Apply(Record{}, fullUpdate(true), now)
		rec, verified := Apply(rec, Update{TermsAccepted: boolPtr(false)}, now.Add(time.Minute))
		assert.False(t, rec.FullyCompliant)
		assert.False(t, verified)
	})
}

func TestApply_VerificationDateStampedExactlyOnce(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// Flags arrive across several partial updates, out of order. Only the
	// update that completes the set stamps the verification date.
	rec := Record{}
	steps := []Update{
		{CookiePolicyAccepted: boolPtr(true), RefundPolicyAccepted: boolPtr(true)},
		{AgeVerified: boolPtr(true)},
		{TermsAccepted: boolPtr(true), PrivacyAccepted: boolPtr(true)},
		{GuidelinesAccepted: boolPtr(true), ComplaintPolicyAccepted: boolPtr(true)},
	}
	for i, upd := range steps {
		var verified bool
		rec, verified = Apply(rec, upd, base.Add(time.Duration(i)*time.Minute))
		assert.False(t, verified)
		assert.Nil(t, rec.VerificationDate)
	}

	completing := base.Add(time.Hour)
	rec, verified := Apply(rec, Update{DMCAPolicyAccepted: boolPtr(true)}, completing)
	assert.True(t, verified)
	require.NotNil(t, rec.VerificationDate)
	assert.Equal(t, completing, *rec.VerificationDate)

	// Re-applying the same update advances LastChecked but not the
	// verification date.
	later := completing.Add(time.Hour)
	rec, verified = Apply(rec, Update{DMCAPolicyAccepted: boolPtr(true)}, later)
	assert.False(t, verified)
	assert.Equal(t, completing, *rec.VerificationDate)
	require.NotNil(t, rec.LastChecked)
	assert.Equal(t, later, *rec.LastChecked)
}

func TestIsExpired_Boundaries(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("nil verification date is expired", func(t *testing.T) {
		assert.True(t, Record{}.IsExpired(now))
	})

	t.Run("fresh verification is not expired", func(t *testing.T) {
		rec, _ := Apply(Record{}, fullUpdate(true), now)
		assert.False(t, rec.IsExpired(now))
	})

	t.Run("exactly 365 days is not expired", func(t *testing.T) {
		verified := now.Add(-VerificationPeriod)
		rec := Record{FullyCompliant: true, VerificationDate: &verified}
		assert.False(t, rec.IsExpired(now))
	})

	t.Run("365 days and one second is expired", func(t *testing.T) {
		verified := now.Add(-VerificationPeriod - time.Second)
		rec := Record{FullyCompliant: true, VerificationDate: &verified}
		assert.True(t, rec.IsExpired(now))
	})
}

func TestSummarize(t *testing.T) {
	now := time.Now()

	t.Run("seven of eight", func(t *testing.T) {
		upd := fullUpdate(true)
		upd.CookiePolicyAccepted = nil
		rec, _ := Apply(Record{}, upd, now)

		sum := rec.Summarize(now)
		assert.Equal(t, Summary{Total: 8, Completed: 7, Percentage: 88, IsComplete: false}, sum)
	})

	t.Run("complete and unexpired", func(t *testing.T) {
		rec, _ := Apply(Record{}, fullUpdate(true), now)
		sum := rec.Summarize(now)
		assert.Equal(t, Summary{Total: 8, Completed: 8, Percentage: 100, IsComplete: true}, sum)
	})

	t.Run("complete but expired is not IsComplete", func(t *testing.T) {
		verifiedAt := now.Add(-VerificationPeriod - time.Hour)
		rec, _ := Apply(Record{}, fullUpdate(true), verifiedAt)
		sum := rec.Summarize(now)
		assert.Equal(t, 100, sum.Percentage)
		assert.False(t, sum.IsComplete)
	})

	t.Run("empty record", func(t *testing.T) {
		sum := Record{}.Summarize(now)
		assert.Equal(t, Summary{Total: 8, Completed: 0, Percentage: 0, IsComplete: false}, sum)
	})
}

func TestApply_IdempotentForNamedFlags(t *testing.T) {
	now := time.Now()
	upd := Update{AgeVerified: boolPtr(true), TermsAccepted: boolPtr(true)}

	once, _ := Apply(Record{}, upd, now)
	twice, _ := Apply(once, upd, now)

	assert.Equal(t, once.FullyCompliant, twice.FullyCompliant)
	assert.Equal(t, once.CompletedCount(), twice.CompletedCount())
}
