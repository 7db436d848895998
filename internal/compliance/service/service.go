// Package service implements the compliance gate: it owns the read-modify-
// write cycle on compliance records and is the single enforcement choke
// point for sensitive actions.
//
// Failure semantics: storage errors never propagate to callers. Reads
// degrade to an all-false record; write failures keep the freshly computed
// record in the response and tell the user persistence failed.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"museforge/internal/compliance"
	"museforge/internal/compliance/metrics"
	"museforge/internal/compliance/ports"
	id "museforge/pkg/domain"
	"museforge/pkg/notify"
	"museforge/pkg/platform/audit"
	"museforge/pkg/requestcontext"
)

type Service struct {
	store          ports.RecordStore
	notifier       notify.Notifier
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = notifier
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func New(store ports.RecordStore, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("compliance record store is required")
	}

	svc := &Service{
		store: store,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Load returns the user's compliance record, falling back to an all-false
// record when none exists or the read fails. It never returns an error;
// a degraded read must not lock the user out of the dashboard.
func (s *Service) Load(ctx context.Context, userID id.UserID) compliance.Record {
	record, err := s.store.Get(ctx, userID)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "failed to load compliance record, using defaults",
				"user_id", userID.String(),
				"error", err,
			)
		}
		return compliance.Record{}
	}
	if record == nil {
		return compliance.Record{}
	}
	return *record
}

// Update merges the partial flag changes into the record, recomputes the
// derived compliance state, and persists. On the transition to fully
// compliant the verification date is stamped and the user is congratulated.
// On persistence failure the in-memory record still wins: it is returned to
// the caller and used for subsequent decisions, and the user is told the
// save failed.
func (s *Service) Update(ctx context.Context, userID id.UserID, upd compliance.Update) compliance.Record {
	now := requestcontext.Now(ctx)
	record := s.Load(ctx, userID)

	record, verified := compliance.Apply(record, upd, now)
	if s.metrics != nil {
		s.metrics.IncrementUpdates()
	}

	if verified {
		if s.metrics != nil {
			s.metrics.IncrementVerifications()
		}
		s.notify(ctx, userID, notify.LevelSuccess, "All legal requirements confirmed. Full access unlocked.")
		s.audit(ctx, userID, audit.EventComplianceVerified, "")
	} else {
		s.audit(ctx, userID, audit.EventComplianceUpdated, "")
	}

	if err := s.store.Save(ctx, userID, record); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to persist compliance record",
				"user_id", userID.String(),
				"error", err,
			)
		}
		s.notify(ctx, userID, notify.LevelError, "Could not save your compliance settings. Please try again.")
	}

	return record
}

// Reset overwrites the record with defaults: all flags false, verification
// cleared, LastChecked stamped so the reset itself is datable.
func (s *Service) Reset(ctx context.Context, userID id.UserID) compliance.Record {
	now := requestcontext.Now(ctx)
	record := compliance.Record{LastChecked: &now}

	if s.metrics != nil {
		s.metrics.IncrementResets()
	}

	if err := s.store.Save(ctx, userID, record); err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, "failed to persist compliance reset",
				"user_id", userID.String(),
				"error", err,
			)
		}
		s.notify(ctx, userID, notify.LevelError, "Could not save your compliance settings. Please try again.")
		return record
	}

	s.notify(ctx, userID, notify.LevelInfo, "Compliance settings were reset.")
	s.audit(ctx, userID, audit.EventComplianceReset, "")
	return record
}

// Summary returns the dashboard progress view for the user.
func (s *Service) Summary(ctx context.Context, userID id.UserID) compliance.Summary {
	record := s.Load(ctx, userID)
	return record.Summarize(requestcontext.Now(ctx))
}

// ValidateForAction is the gate every sensitive action must pass. It returns
// true only when the user is fully compliant and the verification has not
// lapsed; otherwise it notifies the user why and returns false. It never
// returns an error.
func (s *Service) ValidateForAction(ctx context.Context, userID id.UserID, action string) bool {
	now := requestcontext.Now(ctx)
	record := s.Load(ctx, userID)

	if !record.FullyCompliant {
		if s.metrics != nil {
			s.metrics.IncrementDenials("incomplete")
		}
		s.notify(ctx, userID, notify.LevelError,
			fmt.Sprintf("You must accept all legal requirements before you can %s.", action))
		return false
	}

	if record.IsExpired(now) {
		if s.metrics != nil {
			s.metrics.IncrementDenials("expired")
		}
		s.notify(ctx, userID, notify.LevelError,
			"Your verification has expired. Please re-confirm the legal requirements to continue.")
		return false
	}

	return true
}

func (s *Service) notify(ctx context.Context, userID id.UserID, level notify.Level, message string) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, notify.Notification{
		UserID:  userID,
		Level:   level,
		Message: message,
	})
}

func (s *Service) audit(ctx context.Context, userID id.UserID, action audit.AuditEvent, reason string) {
	if s.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Category: audit.CategoryCompliance,
		UserID:   userID,
		Action:   string(action),
		Reason:   reason,
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit compliance audit event",
			"action", action,
			"error", err,
		)
	}
}
