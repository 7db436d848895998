// Package service implements the persona creation wizard.
//
// A user has at most one draft at a time. The draft walks the wizard steps in
// order, and Finalize is only reachable through the credit flow: completion
// issues a quote for the persona.create item and the confirmed spend's
// executor calls Finalize.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"museforge/internal/persona"
	"museforge/internal/persona/metrics"
	"museforge/internal/persona/ports"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/notify"
	"museforge/pkg/platform/audit"
	"museforge/pkg/requestcontext"
)

// complianceActionLabel names the gated action in user-facing denial messages.
const complianceActionLabel = "create an influencer"

// ComplianceGate is the compliance module's enforcement entry point.
type ComplianceGate interface {
	ValidateForAction(ctx context.Context, userID id.UserID, action string) bool
}

type Service struct {
	drafts         ports.DraftStore
	personas       ports.PersonaStore
	gate           ComplianceGate
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

func New(drafts ports.DraftStore, personas ports.PersonaStore, gate ComplianceGate, opts ...Option) (*Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft store is required")
	}
	if personas == nil {
		return nil, fmt.Errorf("persona store is required")
	}
	if gate == nil {
		return nil, fmt.Errorf("compliance gate is required")
	}

	svc := &Service{
		drafts:   drafts,
		personas: personas,
		gate:     gate,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc, nil
}

// Draft returns the user's in-progress draft, starting a fresh one when none
// exists.
func (s *Service) Draft(ctx context.Context, userID id.UserID) (persona.Draft, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
	}
	if draft != nil {
		return *draft, nil
	}

	fresh := persona.NewDraft(userID, requestcontext.Now(ctx))
	if err := s.drafts.Save(ctx, fresh); err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to start draft")
	}
	if s.metrics != nil {
		s.metrics.IncrementDraftsStarted()
	}
	return fresh, nil
}

// UpdateStep merges fields into the draft's current step.
func (s *Service) UpdateStep(ctx context.Context, userID id.UserID, fields map[string]string) (persona.Draft, error) {
	if len(fields) == 0 {
		return persona.Draft{}, dErrors.New(dErrors.CodeBadRequest, "no fields in request")
	}

	draft, err := s.Draft(ctx, userID)
	if err != nil {
		return persona.Draft{}, err
	}

	draft.Merge(draft.Step, fields)
	draft.UpdatedAt = requestcontext.Now(ctx)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return draft, nil
}

// Advance moves the draft to the next wizard step once the current step's
// required fields are present.
func (s *Service) Advance(ctx context.Context, userID id.UserID) (persona.Draft, error) {
	draft, err := s.existingDraft(ctx, userID)
	if err != nil {
		return persona.Draft{}, err
	}

	if err := draft.Advance(); err != nil {
		return persona.Draft{}, err
	}
	draft.UpdatedAt = requestcontext.Now(ctx)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return draft, nil
}

// Back moves the draft to the previous wizard step.
func (s *Service) Back(ctx context.Context, userID id.UserID) (persona.Draft, error) {
	draft, err := s.existingDraft(ctx, userID)
	if err != nil {
		return persona.Draft{}, err
	}

	draft.Back()
	draft.UpdatedAt = requestcontext.Now(ctx)

	if err := s.drafts.Save(ctx, draft); err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save draft")
	}
	return draft, nil
}

// Discard removes the user's draft. Discarding an absent draft is fine.
func (s *Service) Discard(ctx context.Context, userID id.UserID) error {
	if err := s.drafts.Delete(ctx, userID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to discard draft")
	}
	return nil
}

// CheckReady verifies the draft can be completed: wizard finished and the
// compliance gate open. Called before a completion quote is issued so the
// user is not charged for a draft that cannot finalize.
func (s *Service) CheckReady(ctx context.Context, userID id.UserID) error {
	draft, err := s.existingDraft(ctx, userID)
	if err != nil {
		return err
	}
	if err := draft.ReadyToComplete(); err != nil {
		return err
	}

	if !s.gate.ValidateForAction(ctx, userID, complianceActionLabel) {
		if s.metrics != nil {
			s.metrics.IncrementCompletionDenied()
		}
		return dErrors.New(dErrors.CodeComplianceRequired, "legal requirements must be confirmed before creating an influencer")
	}
	return nil
}

// Finalize turns the draft into a finished persona. It re-runs the readiness
// checks because it executes inside the credit confirm, which may happen well
// after the quote was issued.
func (s *Service) Finalize(ctx context.Context, userID id.UserID) (persona.Persona, error) {
	if err := s.CheckReady(ctx, userID); err != nil {
		return persona.Persona{}, err
	}

	draft, err := s.existingDraft(ctx, userID)
	if err != nil {
		return persona.Persona{}, err
	}

	created := persona.FromDraft(draft, id.NewPersonaID(), requestcontext.Now(ctx))
	if err := s.personas.Create(ctx, created); err != nil {
		return persona.Persona{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save persona")
	}

	if err := s.drafts.Delete(ctx, userID); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to delete completed draft",
			"user_id", userID.String(),
			"error", err,
		)
	}

	if s.metrics != nil {
		s.metrics.IncrementPersonasCreated()
	}
	s.notify(ctx, userID, notify.LevelSuccess, fmt.Sprintf("%s is live. Time to create some content.", created.Name))
	s.audit(ctx, userID, audit.EventPersonaCreated, created.ID.String())

	return created, nil
}

// Get returns one of the user's personas.
func (s *Service) Get(ctx context.Context, userID id.UserID, personaID id.PersonaID) (persona.Persona, error) {
	p, err := s.personas.Get(ctx, userID, personaID)
	if err != nil {
		return persona.Persona{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load persona")
	}
	if p == nil {
		return persona.Persona{}, dErrors.New(dErrors.CodeNotFound, "persona not found")
	}
	return *p, nil
}

// List returns the user's personas.
func (s *Service) List(ctx context.Context, userID id.UserID) ([]persona.Persona, error) {
	personas, err := s.personas.List(ctx, userID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list personas")
	}
	return personas, nil
}

func (s *Service) existingDraft(ctx context.Context, userID id.UserID) (persona.Draft, error) {
	draft, err := s.drafts.Get(ctx, userID)
	if err != nil {
		return persona.Draft{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load draft")
	}
	if draft == nil {
		return persona.Draft{}, dErrors.New(dErrors.CodeNotFound, "no draft in progress")
	}
	return *draft, nil
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
		Category: audit.CategoryOperations,
		UserID:   userID,
		Action:   string(action),
		Reason:   reason,
	}
	if err := s.auditPublisher.Emit(ctx, event); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit persona audit event",
			"action", action,
			"error", err,
		)
	}
}
