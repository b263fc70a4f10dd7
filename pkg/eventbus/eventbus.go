package eventbus

import (
	"context"
	"log/slog"

	"github.com/amirasaad/fintrack/pkg/domain/events"
)

// HandlerFunc handles an event delivered by an in-process bus.
type HandlerFunc func(ctx context.Context, event events.Event) error

// Bus publishes ledger events. Implementations are called only after the
// unit of work that produced the event has committed.
type Bus interface {
	Emit(ctx context.Context, event events.Event) error
}

// Nop discards every event.
type Nop struct{}

func (Nop) Emit(context.Context, events.Event) error { return nil }

// PublishAll emits evts in order. Failures are logged and never returned:
// the money already moved and a lost notification must not undo it.
func PublishAll(ctx context.Context, bus Bus, logger *slog.Logger, evts ...events.Event) {
	if bus == nil {
		return
	}
	for _, evt := range evts {
		if err := bus.Emit(ctx, evt); err != nil {
			logger.Error("failed to publish event", "type", evt.Type(), "error", err)
		}
	}
}
