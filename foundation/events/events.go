// Package events fans ledger events out to any number of subscribers.
package events

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// subscriberBuffer is how many events a subscriber can fall behind before
// events are dropped for it.
const subscriberBuffer = 100

// Event is a single message published by the node.
type Event struct {
	Time    time.Time `json:"time"`
	Message string    `json:"message"`
}

// Hub maintains the set of subscribers, keyed by a unique id.
type Hub struct {
	mu      sync.RWMutex
	subs    map[string]chan Event
	closed  bool
	dropped atomic.Uint64
}

// NewHub constructs a hub with no subscribers.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[string]chan Event),
	}
}

// Subscribe registers the id and returns the channel its events are
// delivered on. Subscribing an id twice returns the same channel.
func (h *Hub) Subscribe(id string) (<-chan Event, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, fmt.Errorf("hub is closed")
	}

	if ch, exists := h.subs[id]; exists {
		return ch, nil
	}

	ch := make(chan Event, subscriberBuffer)
	h.subs[id] = ch

	return ch, nil
}

// Unsubscribe removes the id and closes its channel.
func (h *Hub) Unsubscribe(id string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch, exists := h.subs[id]
	if !exists {
		return fmt.Errorf("id %q does not exist", id)
	}

	delete(h.subs, id)
	close(ch)

	return nil
}

// Publish delivers the message to every subscriber without blocking. A
// subscriber whose buffer is full misses the event.
func (h *Hub) Publish(message string) {
	evt := Event{
		Time:    time.Now().UTC(),
		Message: message,
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- evt:
		default:
			h.dropped.Add(1)
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subs)
}

// Dropped returns the number of events that were not delivered.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}

// Close closes every subscriber channel and rejects new subscriptions.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, ch := range h.subs {
		delete(h.subs, id)
		close(ch)
	}
	h.closed = true
}
