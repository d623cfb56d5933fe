package events

import (
	"context"
	"errors"
	"sync"

	log "github.com/sirupsen/logrus"
)

// Handler consumes one event. A returned error tells the ingress layer to
// fail the delivery so the platform redelivers it; handlers must therefore
// be idempotent under at-least-once delivery.
type Handler func(ctx context.Context, evt Event) error

// Bus is a synchronous in-process event bus. Handlers for a type run in
// subscription order; every handler runs even if an earlier one failed, and
// Publish returns the joined errors.
type Bus struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

func NewBus() *Bus {
	return &Bus{handlers: make(map[Type][]Handler)}
}

// Subscribe registers a handler for an event type.
func (b *Bus) Subscribe(t Type, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[t] = append(b.handlers[t], h)
}

// Publish delivers the event to every subscribed handler.
func (b *Bus) Publish(ctx context.Context, evt Event) error {
	b.mu.RLock()
	handlers := b.handlers[evt.Type]
	b.mu.RUnlock()

	if len(handlers) == 0 {
		log.WithFields(log.Fields{"event": evt.Type, "id": evt.ID}).Warn("no handlers subscribed")
		return nil
	}

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, evt); err != nil {
			log.WithFields(log.Fields{
				"event": evt.Type,
				"id":    evt.ID,
			}).WithError(err).Error("event handler failed")
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
