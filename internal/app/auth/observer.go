package auth

import (
	"context"
	"slices"
	"sync"

	"github.com/PabloGalante/studybuddy/internal/domain"
)

// Handler receives auth transitions.
type Handler func(ctx context.Context, change domain.AuthChange)

// Hub fans auth transitions out to subscribers. Each transition published
// after Subscribe returns is delivered exactly once to that subscriber.
// Earlier transitions are not replayed.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   []subscription
}

type subscription struct {
	id uint64
	fn Handler
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers h and returns a function that removes it. The
// returned function is safe to call more than once.
func (h *Hub) Subscribe(handler Handler) (unsubscribe func()) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.subs = append(h.subs, subscription{id: id, fn: handler})
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			h.subs = slices.DeleteFunc(h.subs, func(s subscription) bool { return s.id == id })
			h.mu.Unlock()
		})
	}
}

// Publish delivers change to the subscribers registered at call time, in
// subscription order, on the caller's goroutine. No lock is held while
// handlers run, so concurrent publishers do not wait on each other.
func (h *Hub) Publish(ctx context.Context, change domain.AuthChange) {
	h.mu.Lock()
	snapshot := slices.Clone(h.subs)
	h.mu.Unlock()

	for _, s := range snapshot {
		s.fn(ctx, change)
	}
}

// Len is the number of current subscribers.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
