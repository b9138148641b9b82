package events

import (
	"context"
	"sync"
	"time"
)

// Action identifies what happened to an entity.
type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// Event describes one committed mutation. Cascade deletes emit a single
// event for the root entity, not one per dependent row.
type Event struct {
	Action  Action `json:"action"`
	Entity  string `json:"entity"` // "graph", "node", "edge", "technique"
	ID      int64  `json:"id"`
	GraphID int64  `json:"graph_id,omitempty"`
	OwnerID int64  `json:"owner_id"`
	At      int64  `json:"at"` // unix millis
}

// Publisher receives committed mutation events. Publish must not block the
// caller; slow consumers lose events rather than stalling writes.
type Publisher interface {
	Publish(ev Event)
}

// Hub fans events out to in-process subscribers over buffered channels.
type Hub struct {
	subscribers map[*Subscription]bool
	mu          sync.RWMutex
	closed      bool
}

// Subscription is one receiver attached to a Hub.
type Subscription struct {
	ch        chan Event
	hub       *Hub
	closeOnce sync.Once
}

// NewHub creates an event hub with no subscribers.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[*Subscription]bool)}
}

// Subscribe attaches a new subscriber. The subscription is detached when ctx
// is cancelled or Unsubscribe is called.
func (h *Hub) Subscribe(ctx context.Context) *Subscription {
	sub := &Subscription{
		ch:  make(chan Event, 64),
		hub: h,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.close()
		return sub
	}
	h.subscribers[sub] = true
	h.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
	}()

	return sub
}

// Publish delivers ev to every subscriber without blocking. A subscriber
// whose buffer is full misses the event.
func (h *Hub) Publish(ev Event) {
	if ev.At == 0 {
		ev.At = time.Now().UnixMilli()
	}

	h.mu.RLock()
	subs := make([]*Subscription, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub.ch <- ev:
		default:
			// buffer full, drop
		}
	}
}

// Close detaches all subscribers and closes their channels.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	subs := make([]*Subscription, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.subscribers = make(map[*Subscription]bool)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.close()
	}
}

// Events returns the subscription's receive channel. The channel is closed
// when the subscription detaches.
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Unsubscribe detaches the subscription from the hub.
func (s *Subscription) Unsubscribe() {
	s.hub.mu.Lock()
	delete(s.hub.subscribers, s)
	s.hub.mu.Unlock()
	s.close()
}

func (s *Subscription) close() {
	s.closeOnce.Do(func() {
		close(s.ch)
	})
}

// Fanout publishes every event to multiple publishers.
type Fanout []Publisher

// Publish implements Publisher.
func (f Fanout) Publish(ev Event) {
	for _, p := range f {
		p.Publish(ev)
	}
}
