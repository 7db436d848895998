package audit

import (
	"context"
	"fmt"
	"log/slog"

	"museforge/pkg/requestcontext"
)

// Publisher enriches audit events with request metadata and delivers them to
// the store and the optional sink.
//
// In sync mode (the default) Emit delivers inline and reports store failures
// to the caller. With an async buffer, Emit enqueues and returns immediately;
// a full buffer drops the event with a warning, because audit must never
// stall the originating request.
type Publisher struct {
	store  Store
	sink   Sink
	logger *slog.Logger
	events chan Event
}

type PublisherOption func(*Publisher)

func WithLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithSink(sink Sink) PublisherOption {
	return func(p *Publisher) {
		p.sink = sink
	}
}

// WithAsyncBuffer switches the publisher to async mode with the given queue
// size. Pair with Run.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.events = make(chan Event, size)
	}
}

func NewPublisher(store Store, opts ...PublisherOption) (*Publisher, error) {
	if store == nil {
		return nil, fmt.Errorf("audit store is required")
	}

	pub := &Publisher{store: store}
	for _, opt := range opts {
		opt(pub)
	}
	return pub, nil
}

// Emit records an audit event. Fields left empty by the caller are filled
// from the request context so call sites stay terse.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = requestcontext.Now(ctx)
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}
	if event.ClientIP == "" {
		event.ClientIP = requestcontext.ClientIP(ctx)
	}
	if event.Device == "" {
		event.Device = requestcontext.Device(ctx)
	}

	if p.events == nil {
		return p.deliver(ctx, event)
	}

	select {
	case p.events <- event:
	default:
		if p.logger != nil {
			p.logger.WarnContext(ctx, "audit buffer full, dropping event",
				"action", event.Action,
				"user_id", event.UserID.String(),
			)
		}
	}
	return nil
}

// Run drains the async buffer until ctx is cancelled, then flushes whatever
// is left in the queue. It returns immediately for sync publishers.
func (p *Publisher) Run(ctx context.Context) error {
	if p.events == nil {
		return nil
	}

	for {
		select {
		case event := <-p.events:
			p.deliverLogged(ctx, event)
		case <-ctx.Done():
			for {
				select {
				case event := <-p.events:
					p.deliverLogged(context.Background(), event)
				default:
					return ctx.Err()
				}
			}
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, event Event) error {
	if err := p.store.Append(ctx, event); err != nil {
		return fmt.Errorf("append audit event: %w", err)
	}

	if p.sink != nil {
		if err := p.sink.Publish(ctx, event); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "audit sink publish failed",
				"action", event.Action,
				"error", err,
			)
		}
	}
	return nil
}

func (p *Publisher) deliverLogged(ctx context.Context, event Event) {
	if err := p.deliver(ctx, event); err != nil && p.logger != nil {
		p.logger.ErrorContext(ctx, "failed to deliver audit event",
			"action", event.Action,
			"error", err,
		)
	}
}
