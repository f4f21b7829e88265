// Package eventbus is the in-process publish/subscribe boundary between the
// lifecycle orchestrator and its collaborators (points, badges,
// notifications). Delivery is fire-and-forget: a slow subscriber drops
// events rather than blocking a state transition.
package eventbus

import (
	"sync"

	"github.com/google/uuid"

	"github.com/ccpk1/kidschores-ha-sub014/internal/domain"
)

type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan *domain.Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan *domain.Event),
	}
}

// Subscribe registers a buffered subscription and returns its id and channel.
func (b *Bus) Subscribe(bufSize int) (string, <-chan *domain.Event) {
	id := uuid.New().String()
	ch := make(chan *domain.Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

// Publish delivers the event to every subscriber with room in its buffer.
func (b *Bus) Publish(event *domain.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- event:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}
