// pkg/event/event.go
package event

import (
	"sync"

	"github.com/J-FPV/6122/pkg/control"
)

// Type represents the type of event
type Type string

// Common event types
const (
	PhaseChanged      Type = "phase_changed"
	ProximityResolved Type = "proximity_resolved"
	SwarmStarted      Type = "swarm_started"
	SwarmStopped      Type = "swarm_stopped"
)

// Event is the base interface for all events
type Event interface {
	GetType() Type
}

// BaseEvent provides common functionality for all events
type BaseEvent struct {
	EventType Type
}

// GetType returns the event type
func (e *BaseEvent) GetType() Type {
	return e.EventType
}

// Handler is a function that handles events. Handlers run synchronously on
// the publishing goroutine — for phase changes that is the agent's own loop —
// so they must be short and must not block.
type Handler func(Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *Bus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish sends an event to all subscribed handlers
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers, ok := b.handlers[event.GetType()]
	b.mu.RUnlock()

	if !ok {
		return
	}

	for _, handler := range handlers {
		handler(event)
	}
}

// PhaseEvent reports an agent advancing to the next mission phase.
type PhaseEvent struct {
	BaseEvent
	AgentID uint64
	From    control.Phase
	To      control.Phase
}

// NewPhaseEvent creates a new phase-change event
func NewPhaseEvent(agentID uint64, from, to control.Phase) *PhaseEvent {
	return &PhaseEvent{
		BaseEvent: BaseEvent{EventType: PhaseChanged},
		AgentID:   agentID,
		From:      from,
		To:        to,
	}
}

// ProximityEvent reports a resolved close pair during a collision pass.
type ProximityEvent struct {
	BaseEvent
	AgentA   uint64
	AgentB   uint64
	Distance float64
}

// NewProximityEvent creates a new proximity-resolution event
func NewProximityEvent(agentA, agentB uint64, distance float64) *ProximityEvent {
	return &ProximityEvent{
		BaseEvent: BaseEvent{EventType: ProximityResolved},
		AgentA:    agentA,
		AgentB:    agentB,
		Distance:  distance,
	}
}

// SwarmEvent reports a swarm lifecycle change.
type SwarmEvent struct {
	BaseEvent
	AgentCount int
}

// NewSwarmEvent creates a new swarm lifecycle event
func NewSwarmEvent(eventType Type, agentCount int) *SwarmEvent {
	return &SwarmEvent{
		BaseEvent:  BaseEvent{EventType: eventType},
		AgentCount: agentCount,
	}
}
