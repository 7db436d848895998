// Package audit defines the audit event model shared by publishers, stores,
// and sinks.
package audit

import (
	"time"

	id "museforge/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose.
// This enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal/regulatory significance.
	// These require tamper-proof storage and long retention.
	// Examples: legal acknowledgement changes, compliance resets.
	CategoryCompliance EventCategory = "compliance"

	// CategorySecurity covers events relevant to security monitoring.
	// Examples: auth failures, admin resets of another user's record.
	CategorySecurity EventCategory = "security"

	// CategoryOperations covers events useful for debugging and visibility.
	// These can be sampled or aggregated with shorter retention.
	// Examples: credit spends, purchase link creation, persona creation.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	Action    string
	Reason    string
	RequestID string
	// ClientIP and Device capture where an acknowledgement came from;
	// legal acceptance records keep them for dispute handling.
	ClientIP string
	Device   string
	// Amount carries the credit delta for spend/grant events; zero otherwise.
	Amount int64
}

// AuditEvent names the known audit actions.
type AuditEvent string

const (
	// Compliance events
	EventComplianceUpdated  AuditEvent = "compliance_flags_updated"
	EventComplianceVerified AuditEvent = "compliance_fully_verified"
	EventComplianceReset    AuditEvent = "compliance_reset"

	// Credit events
	EventCreditsSpent        AuditEvent = "credits_spent"
	EventSpendFailed         AuditEvent = "credit_spend_failed"
	EventPurchaseLinkCreated AuditEvent = "purchase_link_created"

	// Persona events
	EventPersonaCreated AuditEvent = "persona_created"

	// Admin events
	EventAdminComplianceReset AuditEvent = "admin_compliance_reset"
)
