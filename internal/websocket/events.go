package websocket

import (
	"time"

	"wandermate/server/internal/realtime"
)

// EventType represents different WebSocket event types
type EventType string

const (
	// Client -> server: manage per-group subscriptions
	EventSubscribeGroup   EventType = "subscribe_group"
	EventUnsubscribeGroup EventType = "unsubscribe_group"

	// Server -> client: subscription lifecycle acknowledgements
	EventSubscribed   EventType = "subscribed"
	EventUnsubscribed EventType = "unsubscribed"

	// Server -> client: chat events for subscribed groups
	EventGroupMessage        EventType = "group_message"
	EventGroupMessageDeleted EventType = "group_message_deleted"

	// Error events
	EventError EventType = "error"
)

// WSMessage represents a WebSocket message structure
type WSMessage struct {
	Type      EventType   `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// SubscriptionPayload acknowledges a subscribe or unsubscribe request.
type SubscriptionPayload struct {
	GroupID string `json:"groupId"`
}

// ErrorPayload represents error event payload
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// IncomingMessage represents messages received from clients
type IncomingMessage struct {
	Type    EventType              `json:"type"`
	Payload map[string]interface{} `json:"payload"`
}

// chatEventType maps a broker event onto the wire vocabulary.
func chatEventType(t realtime.EventType) EventType {
	if t == realtime.EventMessageDeleted {
		return EventGroupMessageDeleted
	}
	return EventGroupMessage
}
