// Package eventbus provides the in-process implementation of ports.EventBus.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"runtime"
	"slices"
	"sync"

	"github.com/tejashwikalptaru/goscope/internal/domain"
	"github.com/tejashwikalptaru/goscope/internal/ports"
)

// SyncEventBus delivers events synchronously on the publishing goroutine.
//
// Handlers run in the order they subscribed, type-specific and wildcard
// handlers interleaved. A slow handler delays the publisher, so handlers
// that touch the UI should hand off to fyne.Do.
//
// SyncEventBus is safe for concurrent use.
type SyncEventBus struct {
	logger *slog.Logger

	// mu protects subs, nextID and closed
	mu     sync.RWMutex
	subs   []subscription
	nextID uint64
	closed bool
}

// subscription is one registered handler. A zero eventType with all set
// receives every event.
type subscription struct {
	id        domain.SubscriptionID
	eventType domain.EventType
	all       bool
	handler   domain.EventHandler
}

func (s subscription) matches(t domain.EventType) bool {
	return s.all || s.eventType == t
}

// NewSyncEventBus creates a new synchronous event bus.
// A nil logger disables panic and delivery logging.
func NewSyncEventBus(logger *slog.Logger) *SyncEventBus {
	return &SyncEventBus{logger: logger}
}

// Publish delivers event to every matching handler. Publishing on a closed
// bus is a no-op. A panicking handler is logged and does not stop delivery
// to the rest.
func (bus *SyncEventBus) Publish(event domain.Event) {
	if event == nil {
		return
	}
	eventType := event.Type()

	bus.mu.RLock()
	if bus.closed {
		bus.mu.RUnlock()
		return
	}
	targets := make([]domain.EventHandler, 0, len(bus.subs))
	for _, s := range bus.subs {
		if s.matches(eventType) {
			targets = append(targets, s.handler)
		}
	}
	bus.mu.RUnlock()

	for _, h := range targets {
		bus.deliver(h, event)
	}
}

// deliver calls one handler and recovers from panics.
func (bus *SyncEventBus) deliver(handler domain.EventHandler, event domain.Event) {
	defer func() {
		if r := recover(); r != nil && bus.logger != nil {
			bus.logger.Error("event handler panicked",
				slog.Any("panic", r),
				slog.String("event_type", string(event.Type())),
				slog.String("handler", handlerName(handler)))
		}
	}()

	if bus.logger != nil && bus.logger.Enabled(context.Background(), slog.LevelDebug) {
		bus.logger.Debug("event delivered",
			slog.String("event_type", string(event.Type())),
			slog.String("handler", handlerName(handler)))
	}
	handler(event)
}

func handlerName(h domain.EventHandler) string {
	return runtime.FuncForPC(reflect.ValueOf(h).Pointer()).Name()
}

// Subscribe registers handler for events of eventType.
// It returns an empty ID when the bus is already closed.
func (bus *SyncEventBus) Subscribe(eventType domain.EventType, handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(subscription{eventType: eventType, handler: handler}, "sub")
}

// SubscribeAll registers handler for every event type.
func (bus *SyncEventBus) SubscribeAll(handler domain.EventHandler) domain.SubscriptionID {
	return bus.add(subscription{all: true, handler: handler}, "sub-all")
}

func (bus *SyncEventBus) add(s subscription, prefix string) domain.SubscriptionID {
	if s.handler == nil {
		panic("event handler cannot be nil")
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		if bus.logger != nil {
			bus.logger.Warn("subscribe on closed event bus", slog.String("event_type", string(s.eventType)))
		}
		return ""
	}

	bus.nextID++
	s.id = domain.SubscriptionID(fmt.Sprintf("%s-%d", prefix, bus.nextID))
	bus.subs = append(bus.subs, s)
	return s.id
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
// Remaining handlers keep their order.
func (bus *SyncEventBus) Unsubscribe(id domain.SubscriptionID) {
	if id == "" {
		return
	}

	bus.mu.Lock()
	defer bus.mu.Unlock()

	bus.subs = slices.DeleteFunc(bus.subs, func(s subscription) bool {
		return s.id == id
	})
}

// HasSubscribers reports whether any handler would receive an event of eventType.
func (bus *SyncEventBus) HasSubscribers(eventType domain.EventType) bool {
	bus.mu.RLock()
	defer bus.mu.RUnlock()

	return slices.ContainsFunc(bus.subs, func(s subscription) bool {
		return s.matches(eventType)
	})
}

// Close drops every subscription. Later publishes are ignored.
// Closing twice returns domain.ErrBusClosed.
func (bus *SyncEventBus) Close() error {
	bus.mu.Lock()
	defer bus.mu.Unlock()

	if bus.closed {
		return domain.ErrBusClosed
	}
	bus.closed = true
	bus.subs = nil
	return nil
}

// SubscriberCount returns the number of active subscriptions.
func (bus *SyncEventBus) SubscriberCount() int {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	return len(bus.subs)
}

var _ ports.EventBus = (*SyncEventBus)(nil)
