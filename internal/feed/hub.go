// Package feed broadcasts donated_items row changes to live subscribers.
package feed

import (
	"log/slog"
	"sync"

	"github.com/erazemk/heartshare/internal/model"
)

// Hub fans change events out to subscribers. The zero value is not usable; use NewHub.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan model.ChangeEvent]struct{}
	closed bool
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[chan model.ChangeEvent]struct{})}
}

// Subscribe registers a new subscriber with the given channel buffer.
// The returned cancel function is idempotent and closes the channel.
// After Close, Subscribe returns an already closed channel.
func (h *Hub) Subscribe(buffer int) (<-chan model.ChangeEvent, func()) {
	ch := make(chan model.ChangeEvent, buffer)

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}

	return ch, func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.remove(ch)
	}
}

// Publish delivers ev to every subscriber without blocking.
// A subscriber whose buffer is full is dropped; its channel is closed so it
// can reconnect and fetch a fresh listing.
func (h *Hub) Publish(ev model.ChangeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			slog.Warn("dropping slow change subscriber", "event", ev.Type)
			h.remove(ch)
		}
	}
}

// Close disconnects all subscribers. Further publishes are no-ops.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs {
		h.remove(ch)
	}
	h.closed = true
}

// Len returns the number of active subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// remove must be called with h.mu held.
func (h *Hub) remove(ch chan model.ChangeEvent) {
	if _, ok := h.subs[ch]; ok {
		delete(h.subs, ch)
		close(ch)
	}
}
