// Package compliance tracks the legal and age acknowledgements a user must
// accept before performing sensitive actions such as generating
// adult-capable content.
package compliance

import (
	"math"
	"time"
)

// RequirementCount is the number of independent acknowledgements.
const RequirementCount = 8

// VerificationPeriod is how long a full verification stays valid before the
// user must re-confirm. Exactly the period is still valid; one second past
// is not.
const VerificationPeriod = 365 * 24 * time.Hour

// Record captures a user's acknowledgement state.
//
// Invariant: FullyCompliant is always the AND of the eight flags; it is never
// written independently. VerificationDate is stamped once, on the transition
// to fully compliant, and cleared only by an explicit reset.
type Record struct {
	AgeVerified             bool `json:"age_verified"`
	TermsAccepted           bool `json:"terms_accepted"`
	PrivacyAccepted         bool `json:"privacy_accepted"`
	GuidelinesAccepted      bool `json:"guidelines_accepted"`
	ComplaintPolicyAccepted bool `json:"complaint_policy_accepted"`
	DMCAPolicyAccepted      bool `json:"dmca_policy_accepted"`
	RefundPolicyAccepted    bool `json:"refund_policy_accepted"`
	CookiePolicyAccepted    bool `json:"cookie_policy_accepted"`

	FullyCompliant   bool       `json:"fully_compliant"`
	VerificationDate *time.Time `json:"verification_date,omitempty"`
	LastChecked      *time.Time `json:"last_checked,omitempty"`
}

// Update is a partial flag change. Nil fields are left untouched, so
// applying the same update twice is idempotent for the flags it names.
type Update struct {
	AgeVerified             *bool `json:"age_verified,omitempty"`
	TermsAccepted           *bool `json:"terms_accepted,omitempty"`
	PrivacyAccepted         *bool `json:"privacy_accepted,omitempty"`
	GuidelinesAccepted      *bool `json:"guidelines_accepted,omitempty"`
	ComplaintPolicyAccepted *bool `json:"complaint_policy_accepted,omitempty"`
	DMCAPolicyAccepted      *bool `json:"dmca_policy_accepted,omitempty"`
	RefundPolicyAccepted    *bool `json:"refund_policy_accepted,omitempty"`
	CookiePolicyAccepted    *bool `json:"cookie_policy_accepted,omitempty"`
}

// IsEmpty reports whether the update names no flags at all.
func (u Update) IsEmpty() bool {
	return u.AgeVerified == nil &&
		u.TermsAccepted == nil &&
		u.PrivacyAccepted == nil &&
		u.GuidelinesAccepted == nil &&
		u.ComplaintPolicyAccepted == nil &&
		u.DMCAPolicyAccepted == nil &&
		u.RefundPolicyAccepted == nil &&
		u.CookiePolicyAccepted == nil
}

// Apply is the pure reducer: it merges the partial update into the record,
// recomputes FullyCompliant, stamps LastChecked, and stamps VerificationDate
// on the false-to-true transition. The returned bool reports that transition
// so the caller can notify and audit exactly once.
func Apply(rec Record, upd Update, now time.Time) (Record, bool) {
	wasCompliant := rec.FullyCompliant

	set := func(dst *bool, src *bool) {
		if src != nil {
			*dst = *src
		}
	}
	set(&rec.AgeVerified, upd.AgeVerified)
	set(&rec.TermsAccepted, upd.TermsAccepted)
	set(&rec.PrivacyAccepted, upd.PrivacyAccepted)
	set(&rec.GuidelinesAccepted, upd.GuidelinesAccepted)
	set(&rec.ComplaintPolicyAccepted, upd.ComplaintPolicyAccepted)
	set(&rec.DMCAPolicyAccepted, upd.DMCAPolicyAccepted)
	set(&rec.RefundPolicyAccepted, upd.RefundPolicyAccepted)
	set(&rec.CookiePolicyAccepted, upd.CookiePolicyAccepted)

	rec.FullyCompliant = rec.AgeVerified &&
		rec.TermsAccepted &&
		rec.PrivacyAccepted &&
		rec.GuidelinesAccepted &&
		rec.ComplaintPolicyAccepted &&
		rec.DMCAPolicyAccepted &&
		rec.RefundPolicyAccepted &&
		rec.CookiePolicyAccepted

	rec.LastChecked = &now

	verified := !wasCompliant && rec.FullyCompliant
	if verified {
		rec.VerificationDate = &now
	}
	return rec, verified
}

// CompletedCount returns how many of the eight flags are currently true.
func (r Record) CompletedCount() int {
	count := 0
	for _, f := range []bool{
		r.AgeVerified,
		r.TermsAccepted,
		r.PrivacyAccepted,
		r.GuidelinesAccepted,
		r.ComplaintPolicyAccepted,
		r.DMCAPolicyAccepted,
		r.RefundPolicyAccepted,
		r.CookiePolicyAccepted,
	} {
		if f {
			count++
		}
	}
	return count
}

// IsExpired reports whether the verification has lapsed. A record that never
// reached full compliance counts as expired.
func (r Record) IsExpired(now time.Time) bool {
	if r.VerificationDate == nil {
		return true
	}
	return now.Sub(*r.VerificationDate) > VerificationPeriod
}

// Summary is the dashboard progress view of a record.
type Summary struct {
	Total      int  `json:"total"`
	Completed  int  `json:"completed"`
	Percentage int  `json:"percentage"`
	IsComplete bool `json:"is_complete"`
}

// Summarize computes the progress summary. IsComplete requires both full
// compliance and an unexpired verification.
func (r Record) Summarize(now time.Time) Summary {
	completed := r.CompletedCount()
	return Summary{
		Total:      RequirementCount,
		Completed:  completed,
		Percentage: int(math.Round(float64(completed) / RequirementCount * 100)),
		IsComplete: r.FullyCompliant && !r.IsExpired(now),
	}
}
