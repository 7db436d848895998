package record

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"museforge/internal/compliance"
	id "museforge/pkg/domain"
)

// PostgresStore persists compliance records in PostgreSQL, one row per user.
type PostgresStore struct {
	db *sql.DB
}

// Schema creates the backing table. Deployments run this via their migration
// tooling; integration tests apply it directly.
const Schema = `
CREATE TABLE IF NOT EXISTS user_compliance (
	user_id                   UUID PRIMARY KEY,
	age_verified              BOOLEAN NOT NULL DEFAULT FALSE,
	terms_accepted            BOOLEAN NOT NULL DEFAULT FALSE,
	privacy_accepted          BOOLEAN NOT NULL DEFAULT FALSE,
	guidelines_accepted       BOOLEAN NOT NULL DEFAULT FALSE,
	complaint_policy_accepted BOOLEAN NOT NULL DEFAULT FALSE,
	dmca_policy_accepted      BOOLEAN NOT NULL DEFAULT FALSE,
	refund_policy_accepted    BOOLEAN NOT NULL DEFAULT FALSE,
	cookie_policy_accepted    BOOLEAN NOT NULL DEFAULT FALSE,
	fully_compliant           BOOLEAN NOT NULL DEFAULT FALSE,
	verification_date         TIMESTAMPTZ,
	last_checked              TIMESTAMPTZ
)`

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure compliance schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID id.UserID) (*compliance.Record, error) {
	const query = `
		SELECT age_verified, terms_accepted, privacy_accepted, guidelines_accepted,
		       complaint_policy_accepted, dmca_policy_accepted, refund_policy_accepted,
		       cookie_policy_accepted, fully_compliant, verification_date, last_checked
		FROM user_compliance
		WHERE user_id = $1`

	var record compliance.Record
	var verificationDate, lastChecked sql.NullTime
	err := s.db.QueryRowContext(ctx, query, userID.String()).Scan(
		&record.AgeVerified,
		&record.TermsAccepted,
		&record.PrivacyAccepted,
		&record.GuidelinesAccepted,
		&record.ComplaintPolicyAccepted,
		&record.DMCAPolicyAccepted,
		&record.RefundPolicyAccepted,
		&record.CookiePolicyAccepted,
		&record.FullyCompliant,
		&verificationDate,
		&lastChecked,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get compliance record: %w", err)
	}

	if verificationDate.Valid {
		t := verificationDate.Time
		record.VerificationDate = &t
	}
	if lastChecked.Valid {
		t := lastChecked.Time
		record.LastChecked = &t
	}
	return &record, nil
}

func (s *PostgresStore) Save(ctx context.Context, userID id.UserID, record compliance.Record) error {
	const query = `
		INSERT INTO user_compliance (
			user_id, age_verified, terms_accepted, privacy_accepted, guidelines_accepted,
			complaint_policy_accepted, dmca_policy_accepted, refund_policy_accepted,
			cookie_policy_accepted, fully_compliant, verification_date, last_checked
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (user_id) DO UPDATE SET
			age_verified = EXCLUDED.age_verified,
			terms_accepted = EXCLUDED.terms_accepted,
			privacy_accepted = EXCLUDED.privacy_accepted,
			guidelines_accepted = EXCLUDED.guidelines_accepted,
			complaint_policy_accepted = EXCLUDED.complaint_policy_accepted,
			dmca_policy_accepted = EXCLUDED.dmca_policy_accepted,
			refund_policy_accepted = EXCLUDED.refund_policy_accepted,
			cookie_policy_accepted = EXCLUDED.cookie_policy_accepted,
			fully_compliant = EXCLUDED.fully_compliant,
			verification_date = EXCLUDED.verification_date,
			last_checked = EXCLUDED.last_checked`

	_, err := s.db.ExecContext(ctx, query,
		userID.String(),
		record.AgeVerified,
		record.TermsAccepted,
		record.PrivacyAccepted,
		record.GuidelinesAccepted,
		record.ComplaintPolicyAccepted,
		record.DMCAPolicyAccepted,
		record.RefundPolicyAccepted,
		record.CookiePolicyAccepted,
		record.FullyCompliant,
		nullTime(record.VerificationDate),
		nullTime(record.LastChecked),
	)
	if err != nil {
		return fmt.Errorf("save compliance record: %w", err)
	}
	return nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
