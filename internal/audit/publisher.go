package audit

import (
	"context"
	"time"

	id "qna/pkg/domain"
)

// Publisher captures structured audit events. It is append-only and uses
// the storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = AuditEvent(base.Action).Category()
	}
	return p.store.Append(ctx, base)
}

func (p *Publisher) List(ctx context.Context, actorID id.UserID) ([]Event, error) {
	return p.store.ListByActor(ctx, actorID)
}

// InboxPublisher queues events on a channel for a Worker to drain, keeping
// audit persistence off the caller's path. Emit blocks when the inbox is
// full, so size the channel for the expected burst.
type InboxPublisher struct {
	inbox chan<- Event
}

func NewInboxPublisher(inbox chan<- Event) *InboxPublisher {
	return &InboxPublisher{inbox: inbox}
}

func (p *InboxPublisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if base.Category == "" {
		base.Category = AuditEvent(base.Action).Category()
	}
	select {
	case p.inbox <- base:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
