// Package ports defines the interfaces between the scope core, its adapters
// and the UI.
package ports

import (
	"github.com/tejashwikalptaru/goscope/internal/domain"
)

// EventBus carries scope and source lifecycle events (domain.EventScope*,
// domain.EventSource*) from the services and the pump to the presenter.
// Frames never travel over the bus; they go through FrameProducer.
//
// Thread-safety: Implementations must be thread-safe. The pump publishes from
// its own goroutine while the presenter subscribes from the UI side.
type EventBus interface {
	// Publish delivers event to the handlers subscribed to its type and to
	// every SubscribeAll handler. It must return quickly: the pump calls it
	// between blocks.
	Publish(event domain.Event)

	// Subscribe registers handler for eventType and returns the id to pass
	// to Unsubscribe.
	Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID

	// Unsubscribe removes a subscription. Unknown ids are ignored.
	Unsubscribe(id domain.SubscriptionID)

	// SubscribeAll registers handler for every event type.
	SubscribeAll(handler domain.EventHandler) domain.SubscriptionID

	// HasSubscribers reports whether anything listens for eventType.
	HasSubscribers(eventType domain.EventType) bool

	// Close drops every subscription. Publishing after Close is a no-op.
	Close() error
}
