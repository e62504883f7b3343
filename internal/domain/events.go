// Package domain defines events for the event-driven architecture.
// Events decouple the scope service from the UI and logging.
package domain

import (
	"time"
)

// Event is the base interface for all events in the system.
// All events must implement this interface to be published via the event bus.
type Event interface {
	// Type returns the event type identifier
	Type() EventType

	// Timestamp returns when the event occurred
	Timestamp() time.Time
}

// EventType is a string identifier for different event types.
type EventType string

// Event type constants define all possible events in the system.
const (
	// Scope lifecycle events
	EventScopeAssigned      EventType = "scope.assigned"
	EventScopeConfigChanged EventType = "scope.config_changed"
	EventScopeClosed        EventType = "scope.closed"

	// Source events
	EventSourceStarted EventType = "source.started"
	EventSourceStopped EventType = "source.stopped"
)

// EventHandler is a function that handles events.
type EventHandler func(event Event)

// SubscriptionID uniquely identifies an event or frame-listener subscription.
type SubscriptionID string

// baseEvent provides common event functionality.
// All concrete events should embed this struct.
type baseEvent struct {
	timestamp time.Time
}

// Timestamp returns when the event occurred.
func (e baseEvent) Timestamp() time.Time {
	return e.timestamp
}

// newBaseEvent creates a new base event with the current timestamp.
func newBaseEvent() baseEvent {
	return baseEvent{timestamp: time.Now()}
}

// ScopeAssignedEvent is published when a producer is attached to the scope
// and the frame buffer has been prepared.
type ScopeAssignedEvent struct {
	baseEvent
	Channels  int
	BlockSize int
	Settings  ScopeSettings
}

// Type returns the event type.
func (e ScopeAssignedEvent) Type() EventType {
	return EventScopeAssigned
}

// NewScopeAssignedEvent creates a new ScopeAssignedEvent.
func NewScopeAssignedEvent(channels, blockSize int, settings ScopeSettings) ScopeAssignedEvent {
	return ScopeAssignedEvent{
		baseEvent: newBaseEvent(),
		Channels:  channels,
		BlockSize: blockSize,
		Settings:  settings,
	}
}

// ScopeConfigChangedEvent is published after amplitude, window or
// aggregation changed. Settings holds the effective (clamped) values.
type ScopeConfigChangedEvent struct {
	baseEvent
	Settings ScopeSettings
}

// Type returns the event type.
func (e ScopeConfigChangedEvent) Type() EventType {
	return EventScopeConfigChanged
}

// NewScopeConfigChangedEvent creates a new ScopeConfigChangedEvent.
func NewScopeConfigChangedEvent(settings ScopeSettings) ScopeConfigChangedEvent {
	return ScopeConfigChangedEvent{
		baseEvent: newBaseEvent(),
		Settings:  settings,
	}
}

// ScopeClosedEvent is published after the scope detached from its producer
// and released its buffer.
type ScopeClosedEvent struct {
	baseEvent
}

// Type returns the event type.
func (e ScopeClosedEvent) Type() EventType {
	return EventScopeClosed
}

// NewScopeClosedEvent creates a new ScopeClosedEvent.
func NewScopeClosedEvent() ScopeClosedEvent {
	return ScopeClosedEvent{baseEvent: newBaseEvent()}
}

// SourceStartedEvent is published when a pump starts delivering frames.
type SourceStartedEvent struct {
	baseEvent
	Info SourceInfo
}

// Type returns the event type.
func (e SourceStartedEvent) Type() EventType {
	return EventSourceStarted
}

// NewSourceStartedEvent creates a new SourceStartedEvent.
func NewSourceStartedEvent(info SourceInfo) SourceStartedEvent {
	return SourceStartedEvent{
		baseEvent: newBaseEvent(),
		Info:      info,
	}
}

// SourceStoppedEvent is published when a pump stops, either because the
// source ran out, failed or was cancelled.
type SourceStoppedEvent struct {
	baseEvent
	Info   SourceInfo
	Frames int   // Frames delivered before stopping
	Error  error // Non-nil if the source failed
}

// Type returns the event type.
func (e SourceStoppedEvent) Type() EventType {
	return EventSourceStopped
}

// NewSourceStoppedEvent creates a new SourceStoppedEvent.
func NewSourceStoppedEvent(info SourceInfo, frames int, err error) SourceStoppedEvent {
	return SourceStoppedEvent{
		baseEvent: newBaseEvent(),
		Info:      info,
		Frames:    frames,
		Error:     err,
	}
}
