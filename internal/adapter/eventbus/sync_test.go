package eventbus

import (
	"bytes"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tejashwikalptaru/goscope/internal/domain"
)

func TestNewSyncEventBus(t *testing.T) {
	bus := NewSyncEventBus(nil)

	require.NotNil(t, bus)
	assert.Zero(t, bus.SubscriberCount())
	assert.False(t, bus.closed)
}

func TestPublishSubscribe(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var received []domain.Event
	subID := bus.Subscribe(domain.EventScopeConfigChanged, func(e domain.Event) {
		received = append(received, e)
	})
	require.NotEmpty(t, subID)

	settings := domain.ScopeSettings{Amplitude: 0.5, Window: domain.SampleWindow{Max: 1024}}
	bus.Publish(domain.NewScopeConfigChangedEvent(settings))

	require.Len(t, received, 1)
	e, ok := received[0].(domain.ScopeConfigChangedEvent)
	require.True(t, ok)
	assert.Equal(t, settings, e.Settings)
	assert.False(t, e.Timestamp().IsZero())
}

func TestOnlyMatchingTypeIsDelivered(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var assigned, closed int
	bus.Subscribe(domain.EventScopeAssigned, func(domain.Event) { assigned++ })
	bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { closed++ })

	bus.Publish(domain.NewScopeAssignedEvent(2, 4096, domain.DefaultScopeSettings()))
	bus.Publish(domain.NewScopeAssignedEvent(2, 4096, domain.DefaultScopeSettings()))
	bus.Publish(domain.NewScopeClosedEvent())

	assert.Equal(t, 2, assigned)
	assert.Equal(t, 1, closed)
}

func TestDeliveryOrder(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var order []string
	bus.Subscribe(domain.EventSourceStarted, func(domain.Event) { order = append(order, "a") })
	bus.SubscribeAll(func(domain.Event) { order = append(order, "all") })
	idB := bus.Subscribe(domain.EventSourceStarted, func(domain.Event) { order = append(order, "b") })
	bus.Subscribe(domain.EventSourceStarted, func(domain.Event) { order = append(order, "c") })

	bus.Publish(domain.NewSourceStartedEvent(domain.SourceInfo{Name: "tone"}))
	assert.Equal(t, []string{"a", "all", "b", "c"}, order)

	order = nil
	bus.Unsubscribe(idB)
	bus.Publish(domain.NewSourceStartedEvent(domain.SourceInfo{Name: "tone"}))
	assert.Equal(t, []string{"a", "all", "c"}, order, "unsubscribe keeps the order of the rest")
}

func TestUnsubscribe(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var calls int
	id := bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { calls++ })

	bus.Publish(domain.NewScopeClosedEvent())
	bus.Unsubscribe(id)
	bus.Publish(domain.NewScopeClosedEvent())

	assert.Equal(t, 1, calls)
	assert.Zero(t, bus.SubscriberCount())

	// unknown and empty IDs are ignored
	bus.Unsubscribe("sub-999")
	bus.Unsubscribe("")
}

func TestSubscribeAll(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var types []domain.EventType
	bus.SubscribeAll(func(e domain.Event) { types = append(types, e.Type()) })

	bus.Publish(domain.NewScopeClosedEvent())
	bus.Publish(domain.NewSourceStoppedEvent(domain.SourceInfo{}, 10, nil))

	assert.Equal(t, []domain.EventType{domain.EventScopeClosed, domain.EventSourceStopped}, types)
}

func TestHasSubscribers(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	assert.False(t, bus.HasSubscribers(domain.EventScopeAssigned))

	id := bus.Subscribe(domain.EventScopeAssigned, func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventScopeAssigned))
	assert.False(t, bus.HasSubscribers(domain.EventScopeClosed))

	bus.Unsubscribe(id)
	bus.SubscribeAll(func(domain.Event) {})
	assert.True(t, bus.HasSubscribers(domain.EventScopeClosed), "wildcard counts for every type")
}

func TestHandlerPanic(t *testing.T) {
	var logs bytes.Buffer
	bus := NewSyncEventBus(slog.New(slog.NewTextHandler(&logs, nil)))
	defer bus.Close()

	var after bool
	bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { panic("boom") })
	bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { after = true })

	assert.NotPanics(t, func() { bus.Publish(domain.NewScopeClosedEvent()) })
	assert.True(t, after, "later handlers still run")
	assert.Contains(t, logs.String(), "event handler panicked")
}

func TestClose(t *testing.T) {
	bus := NewSyncEventBus(nil)

	var calls int
	bus.Subscribe(domain.EventScopeClosed, func(domain.Event) { calls++ })

	require.NoError(t, bus.Close())
	assert.Zero(t, bus.SubscriberCount())

	bus.Publish(domain.NewScopeClosedEvent())
	assert.Zero(t, calls)

	assert.Empty(t, bus.Subscribe(domain.EventScopeClosed, func(domain.Event) {}))
	assert.True(t, errors.Is(bus.Close(), domain.ErrBusClosed))
}

func TestNilEventAndHandler(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	assert.NotPanics(t, func() { bus.Publish(nil) })
	assert.Panics(t, func() { bus.Subscribe(domain.EventScopeClosed, nil) })
	assert.Panics(t, func() { bus.SubscribeAll(nil) })
}

func TestConcurrentPublishAndSubscribe(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	var delivered atomic.Int64
	var wg sync.WaitGroup

	for range 8 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for range 100 {
				bus.Publish(domain.NewScopeConfigChangedEvent(domain.DefaultScopeSettings()))
			}
		}()
		go func() {
			defer wg.Done()
			for range 20 {
				id := bus.Subscribe(domain.EventScopeConfigChanged, func(domain.Event) {
					delivered.Add(1)
				})
				bus.Unsubscribe(id)
			}
		}()
	}

	wg.Wait()
	assert.Zero(t, bus.SubscriberCount())
}

func TestUniqueSubscriptionIDs(t *testing.T) {
	bus := NewSyncEventBus(nil)
	defer bus.Close()

	seen := make(map[domain.SubscriptionID]bool)
	for range 50 {
		id := bus.Subscribe(domain.EventScopeAssigned, func(domain.Event) {})
		all := bus.SubscribeAll(func(domain.Event) {})
		assert.False(t, seen[id])
		assert.False(t, seen[all])
		seen[id], seen[all] = true, true
	}
	assert.Equal(t, 100, bus.SubscriberCount())
}
