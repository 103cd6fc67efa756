package event

import (
	"sync"

	"github.com/retailops/backend/internal/domain/shared"
)

// HandlerRegistry maps event types to their subscribed handlers. Handlers
// registered without event types receive every event.
type HandlerRegistry struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	catchAll []shared.EventHandler
}

// NewHandlerRegistry creates an empty registry
func NewHandlerRegistry() *HandlerRegistry {
	return &HandlerRegistry{
		handlers: make(map[string][]shared.EventHandler),
	}
}

// Register subscribes a handler to the given event types
func (r *HandlerRegistry) Register(handler shared.EventHandler, eventTypes ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(eventTypes) == 0 {
		r.catchAll = append(r.catchAll, handler)
		return
	}
	for _, eventType := range eventTypes {
		r.handlers[eventType] = append(r.handlers[eventType], handler)
	}
}

// Unregister removes a handler from all subscriptions
func (r *HandlerRegistry) Unregister(handler shared.EventHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for eventType, handlers := range r.handlers {
		r.handlers[eventType] = remove(handlers, handler)
	}
	r.catchAll = remove(r.catchAll, handler)
}

// GetHandlers returns the handlers subscribed to an event type, including
// catch-all handlers
func (r *HandlerRegistry) GetHandlers(eventType string) []shared.EventHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]shared.EventHandler, 0, len(r.handlers[eventType])+len(r.catchAll))
	out = append(out, r.handlers[eventType]...)
	out = append(out, r.catchAll...)
	return out
}

func remove(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	out := handlers[:0]
	for _, h := range handlers {
		if h != target {
			out = append(out, h)
		}
	}
	return out
}
