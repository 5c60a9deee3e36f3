// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/mirror/internal/logger"
)

// Handler defines the function signature for event subscribers.
// It returns true if the event was consumed; dispatch stops at the first consumer.
type Handler func(e Event) bool

// SubscriptionID identifies a handler registration for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := m.nextID
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: id, handler: handler})
	logger.DebugTagf("event", "Event Manager: Handler %d subscribed to %v", id, eventType)
	return id
}

// Unsubscribe removes the registration with the given ID. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for eventType, subs := range m.handlers {
		for i, sub := range subs {
			if sub.id != id {
				continue
			}
			// Copy so a dispatch iterating the old slice is unaffected.
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			if len(kept) == 0 {
				delete(m.handlers, eventType)
			} else {
				m.handlers[eventType] = kept
			}
			logger.DebugTagf("event", "Event Manager: Handler %d unsubscribed from %v", id, eventType)
			return
		}
	}
}

// HandlerCount returns how many handlers are registered for eventType.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch sends an event to all registered handlers for its type.
// Handlers run synchronously on the caller's goroutine, in subscription order.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	event := Event{
		Type: eventType,
		Data: data,
	}

	m.mu.RLock()
	subs := m.handlers[eventType]
	m.mu.RUnlock()

	if len(subs) == 0 {
		return
	}

	logger.DebugTagf("event", "Event Manager: Dispatching %v to %d handler(s)", eventType, len(subs))

	// subs is never mutated in place, so handlers may subscribe or unsubscribe
	// while we iterate.
	for _, sub := range subs {
		if sub.handler(event) {
			break
		}
	}
}
