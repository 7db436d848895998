// Package flow implements the credit-gated action state machine. One Flow
// exists per user; it walks Idle -> CostFetching -> ConfirmPending or
// InsufficientFunds -> Executing -> Completed or Failed, and Cancel returns
// it to Idle from anywhere.
package flow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"museforge/internal/credits"
	"museforge/internal/credits/metrics"
	"museforge/internal/credits/ports"
	id "museforge/pkg/domain"
	dErrors "museforge/pkg/domain-errors"
	"museforge/pkg/notify"
	"museforge/pkg/platform/audit"
)

// SettleDelay is how long the flow waits after a successful spend before
// re-fetching the balance. The balance provider settles spends
// asynchronously and offers no callback, so a refresh fired immediately can
// read the pre-spend balance.
const SettleDelay = time.Second

const refreshTimeout = 5 * time.Second

//go:generate mockgen -source=../ports/ports.go -destination=mocks/mocks.go -package=mocks

// Flow is the per-user credit-gated action state machine. All exported
// methods are safe for concurrent use; the epoch counter makes Cancel
// immediate by letting in-flight results arrive and be ignored.
type Flow struct {
	userID         id.UserID
	pricing        ports.PricingClient
	balances       ports.BalanceSource
	purchases      ports.PurchaseLinker
	notifier       notify.Notifier
	auditPublisher ports.AuditPublisher
	metrics        *metrics.Metrics
	logger         *slog.Logger
	tracer         trace.Tracer
	settleDelay    time.Duration

	mu      sync.Mutex
	state   credits.State
	quote   *credits.Quote
	balance credits.Balance
	epoch   uint64
}

type Option func(*Flow)

func WithLogger(logger *slog.Logger) Option {
	return func(f *Flow) {
		f.logger = logger
	}
}

func WithNotifier(notifier notify.Notifier) Option {
	return func(f *Flow) {
		f.notifier = notifier
	}
}

func WithAuditPublisher(publisher ports.AuditPublisher) Option {
	return func(f *Flow) {
		f.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(f *Flow) {
		f.metrics = m
	}
}

// WithSettleDelay overrides the post-spend settle delay. Tests use this to
// avoid real sleeps.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Flow) {
		f.settleDelay = d
	}
}

func New(userID id.UserID, pricing ports.PricingClient, balances ports.BalanceSource, purchases ports.PurchaseLinker, opts ...Option) (*Flow, error) {
	if pricing == nil {
		return nil, fmt.Errorf("pricing client is required")
	}
	if balances == nil {
		return nil, fmt.Errorf("balance source is required")
	}
	if purchases == nil {
		return nil, fmt.Errorf("purchase linker is required")
	}

	f := &Flow{
		userID:      userID,
		pricing:     pricing,
		balances:    balances,
		purchases:   purchases,
		tracer:      otel.Tracer("museforge/internal/credits"),
		settleDelay: SettleDelay,
		state:       credits.StateIdle,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f, nil
}

// State returns the current flow state.
func (f *Flow) State() credits.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// CurrentQuote returns a copy of the held quote, or nil outside the
// confirmation window.
func (f *Flow) CurrentQuote() *credits.Quote {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.quote == nil {
		return nil
	}
	q := *f.quote
	return &q
}

// CurrentBalance returns the most recently fetched balance.
func (f *Flow) CurrentBalance() credits.Balance {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balance
}

// FetchCost looks up the per-unit cost of the item, builds a quote, and
// decides the branch: ConfirmPending when the balance covers the total,
// InsufficientFunds otherwise. Quote and balance are fetched concurrently.
// On lookup failure the flow returns to Idle, the user is notified, and a
// nil quote is returned.
func (f *Flow) FetchCost(ctx context.Context, itemID, description string, unitCount int) (*credits.Quote, error) {
	ctx, span := f.tracer.Start(ctx, "credits.FetchCost",
		trace.WithAttributes(
			attribute.String("item_id", itemID),
			attribute.Int("unit_count", unitCount),
		))
	defer span.End()

	f.mu.Lock()
	if f.state == credits.StateExecuting {
		f.mu.Unlock()
		return nil, dErrors.New(dErrors.CodeConflict, "an action is already executing")
	}
	f.state = credits.StateCostFetching
	f.quote = nil
	epoch := f.epoch
	f.mu.Unlock()

	var (
		costPerUnit int64
		balance     credits.Balance
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		costPerUnit, err = f.pricing.CostPerUnit(gctx, f.userID, itemID)
		return err
	})
	g.Go(func() error {
		var err error
		balance, err = f.balances.Balance(gctx, f.userID)
		return err
	})

	if err := g.Wait(); err != nil {
		span.RecordError(err)
		if f.logger != nil {
			f.logger.WarnContext(ctx, "cost fetch failed",
				"user_id", f.userID.String(),
				"item_id", itemID,
				"error", err,
			)
		}
		f.notify(ctx, notify.LevelError, "Could not determine the cost of this action. Please try again.")
		f.resetIfCurrent(epoch)
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "cost lookup failed")
	}

	quote := credits.NewQuote(itemID, description, costPerUnit, unitCount)
	decision := credits.Decide(quote, balance)

	if f.metrics != nil {
		f.metrics.IncrementQuotesIssued()
		if decision == credits.StateInsufficientFunds {
			f.metrics.IncrementInsufficientFunds()
		}
	}
	span.SetAttributes(
		attribute.Int64("quote_total", quote.Total),
		attribute.String("decision", string(decision)),
	)

	f.mu.Lock()
	if epoch == f.epoch {
		f.state = decision
		f.quote = &quote
		f.balance = balance
	}
	f.mu.Unlock()

	return &quote, nil
}

// Confirm runs the caller-supplied executor for the held quote. On success
// the flow completes and a balance refresh is scheduled after the settle
// delay; on failure the flow is Failed, the error is surfaced, and the
// balance is untouched. No automatic retry.
func (f *Flow) Confirm(ctx context.Context, exec func(context.Context) error) error {
	f.mu.Lock()
	if f.state != credits.StateConfirmPending || f.quote == nil {
		f.mu.Unlock()
		return dErrors.New(dErrors.CodeConflict, "no action is awaiting confirmation")
	}
	quote := *f.quote
	epoch := f.epoch
	f.state = credits.StateExecuting
	f.mu.Unlock()

	ctx, span := f.tracer.Start(ctx, "credits.Confirm",
		trace.WithAttributes(
			attribute.String("item_id", quote.ItemID),
			attribute.Int64("quote_total", quote.Total),
		))
	defer span.End()

	if err := exec(ctx); err != nil {
		span.RecordError(err)
		f.mu.Lock()
		if epoch == f.epoch {
			f.state = credits.StateFailed
		}
		f.mu.Unlock()

		if f.metrics != nil {
			f.metrics.IncrementSpendsFailed()
		}
		f.notify(ctx, notify.LevelError, "The action failed. Your credits were not spent.")
		f.audit(ctx, audit.EventSpendFailed, quote.Total)
		return dErrors.Wrap(err, dErrors.CodeInternal, "action execution failed")
	}

	f.mu.Lock()
	if epoch == f.epoch {
		f.state = credits.StateCompleted
		f.quote = nil
	}
	f.mu.Unlock()

	if f.metrics != nil {
		f.metrics.IncrementSpendsCompleted()
	}
	f.audit(ctx, audit.EventCreditsSpent, quote.Total)

	// A caching balance source must not serve the pre-spend value to the
	// settle refresh.
	if inv, ok := f.balances.(balanceInvalidator); ok {
		if err := inv.Invalidate(ctx, f.userID); err != nil && f.logger != nil {
			f.logger.WarnContext(ctx, "balance cache invalidation failed",
				"user_id", f.userID.String(),
				"error", err,
			)
		}
	}
	f.scheduleBalanceRefresh(epoch)
	return nil
}

type balanceInvalidator interface {
	Invalidate(ctx context.Context, userID id.UserID) error
}

// Cancel returns the flow to Idle and discards the held quote. It is
// immediate and synchronous: in-flight fetches are not aborted, their
// results are simply ignored when they arrive.
func (f *Flow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = credits.StateIdle
	f.quote = nil
	f.epoch++
}

// RedirectToPurchase closes the confirmation and returns a checkout URL for
// the given credit product. It never spends balance itself.
func (f *Flow) RedirectToPurchase(ctx context.Context, productID id.ProductID) (string, error) {
	url, err := f.purchases.CreateLink(ctx, f.userID, productID)
	if err != nil {
		if f.logger != nil {
			f.logger.WarnContext(ctx, "purchase link creation failed",
				"user_id", f.userID.String(),
				"product_id", productID.String(),
				"error", err,
			)
		}
		f.notify(ctx, notify.LevelError, "Could not open the purchase page. Please try again.")
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "purchase link creation failed")
	}

	f.Cancel()
	f.audit(ctx, audit.EventPurchaseLinkCreated, 0)
	return url, nil
}

// RefreshBalance re-fetches the balance immediately, bypassing the settle
// delay. The purchase flow calls this when the user reports completion.
func (f *Flow) RefreshBalance(ctx context.Context) (credits.Balance, error) {
	balance, err := f.balances.Balance(ctx, f.userID)
	if err != nil {
		return credits.Balance{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "balance refresh failed")
	}

	f.mu.Lock()
	f.balance = balance
	f.mu.Unlock()
	return balance, nil
}

// scheduleBalanceRefresh re-fetches the balance once the settle delay has
// passed. Runs detached from the request context; a cancelled flow (epoch
// moved on) discards the result.
func (f *Flow) scheduleBalanceRefresh(epoch uint64) {
	go func() {
		time.Sleep(f.settleDelay)

		ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
		defer cancel()

		balance, err := f.balances.Balance(ctx, f.userID)
		if err != nil {
			if f.logger != nil {
				f.logger.WarnContext(ctx, "post-spend balance refresh failed",
					"user_id", f.userID.String(),
					"error", err,
				)
			}
			return
		}

		f.mu.Lock()
		if epoch == f.epoch {
			f.balance = balance
		}
		f.mu.Unlock()
	}()
}

func (f *Flow) notify(ctx context.Context, level notify.Level, message string) {
	if f.notifier == nil {
		return
	}
	f.notifier.Notify(ctx, notify.Notification{
		UserID:  f.userID,
		Level:   level,
		Message: message,
	})
}

func (f *Flow) audit(ctx context.Context, action audit.AuditEvent, amount int64) {
	if f.auditPublisher == nil {
		return
	}
	event := audit.Event{
		Category: audit.CategoryOperations,
		UserID:   f.userID,
		Action:   string(action),
		Amount:   amount,
	}
	if err := f.auditPublisher.Emit(ctx, event); err != nil && f.logger != nil {
		f.logger.WarnContext(ctx, "failed to emit credits audit event",
			"action", action,
			"error", err,
		)
	}
}

func (f *Flow) resetIfCurrent(epoch uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if epoch == f.epoch {
		f.state = credits.StateIdle
		f.quote = nil
	}
}
