// Package events is the publish/subscribe hub shared by the game, the
// controller and the view.
package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Listener receives the notifications it subscribed to.
type Listener interface {
	Update(ctx context.Context, event string, payload any) error
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(ctx context.Context, event string, payload any) error

func (f ListenerFunc) Update(ctx context.Context, event string, payload any) error {
	return f(ctx, event, payload)
}

// Hub maps event names to their listeners in registration order.
type Hub struct {
	listeners map[string][]Listener
	mu        sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		listeners: make(map[string][]Listener),
	}
}

func (h *Hub) AddListener(event string, listener Listener) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.listeners[event] = append(h.listeners[event], listener)
}

// Notify delivers payload to every listener of event, one after another, and
// returns once all of them are done. Listener errors do not stop delivery;
// they are joined into the returned error.
func (h *Hub) Notify(ctx context.Context, event string, payload any) error {
	// snapshot so listeners may subscribe while being notified
	h.mu.RLock()
	listeners := append([]Listener(nil), h.listeners[event]...)
	h.mu.RUnlock()

	var errs []error
	for _, listener := range listeners {
		if err := listener.Update(ctx, event, payload); err != nil {
			errs = append(errs, fmt.Errorf("%s listener: %w", event, err))
		}
	}
	return errors.Join(errs...)
}

// ListenerCount is mostly useful in tests and diagnostics.
func (h *Hub) ListenerCount(event string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners[event])
}
