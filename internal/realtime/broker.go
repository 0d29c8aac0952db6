// Package realtime fans message events out to in-process subscribers.
// The websocket layer bridges these subscriptions onto client connections.
package realtime

import (
	"log/slog"
	"sync"
	"time"

	"wandermate/server/internal/models"
)

// EventType identifies what happened to a group's chat.
type EventType string

const (
	EventMessageCreated EventType = "message_created"
	EventMessageDeleted EventType = "message_deleted"
)

// Event is a single chat change in a group. Consumers de-duplicate by
// MessageID; delivery order across senders is best-effort.
type Event struct {
	Type      EventType                 `json:"type"`
	GroupID   string                    `json:"groupId"`
	MessageID string                    `json:"messageId"`
	Message   *models.MessageWithSender `json:"message,omitempty"`
	Timestamp time.Time                 `json:"timestamp"`
}

// Subscription is a cancellable stream of events for one group. Events
// arrives on C until Cancel is called, after which C is closed.
type Subscription struct {
	C <-chan Event

	broker  *Broker
	groupID string
	id      uint64
	ch      chan Event
	once    sync.Once
}

// Cancel detaches the subscription and closes C.
func (s *Subscription) Cancel() {
	s.once.Do(func() {
		s.broker.remove(s.groupID, s.id)
		close(s.ch)
	})
}

// Broker is an in-process pub/sub hub keyed by group ID.
type Broker struct {
	mu     sync.RWMutex
	subs   map[string]map[uint64]*Subscription
	nextID uint64
	buffer int
}

// NewBroker creates a broker whose subscriptions buffer up to buffer events.
func NewBroker(buffer int) *Broker {
	if buffer <= 0 {
		buffer = 64
	}
	return &Broker{
		subs:   make(map[string]map[uint64]*Subscription),
		buffer: buffer,
	}
}

// Subscribe registers a listener for a group's events.
func (b *Broker) Subscribe(groupID string) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	ch := make(chan Event, b.buffer)
	sub := &Subscription{
		C:       ch,
		broker:  b,
		groupID: groupID,
		id:      b.nextID,
		ch:      ch,
	}

	if b.subs[groupID] == nil {
		b.subs[groupID] = make(map[uint64]*Subscription)
	}
	b.subs[groupID][sub.id] = sub
	return sub
}

// Publish delivers an event to every subscriber of the group. Publish never
// blocks: a subscriber whose buffer is full misses the event and catches up
// by re-fetching.
func (b *Broker) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subs[event.GroupID] {
		select {
		case sub.ch <- event:
		default:
			slog.Warn("dropping realtime event for slow subscriber",
				"group_id", event.GroupID, "event", event.Type)
		}
	}
}

// SubscriberCount returns the number of active subscriptions for a group.
func (b *Broker) SubscriberCount(groupID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[groupID])
}

func (b *Broker) remove(groupID string, id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if group, ok := b.subs[groupID]; ok {
		delete(group, id)
		if len(group) == 0 {
			delete(b.subs, groupID)
		}
	}
}
