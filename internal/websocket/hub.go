package websocket

import (
	"context"
	"log/slog"
	"sync"

	"wandermate/server/internal/metrics"
	"wandermate/server/internal/models"
	"wandermate/server/internal/realtime"
)

// EventSource opens realtime subscriptions for a group's chat.
type EventSource interface {
	Subscribe(groupID string) *realtime.Subscription
}

// MembershipChecker answers whether a profile may follow a group's chat.
type MembershipChecker interface {
	StatusFor(ctx context.Context, groupID, profileID string) (models.MemberStatus, error)
}

// Hub maintains the set of active clients. Chat events reach clients
// through per-group subscriptions on the event source, not through the
// hub itself; the hub only tracks connection lifecycle.
type Hub struct {
	// Registered clients mapped by profile ID
	Clients map[string]*Client

	// Register requests from clients
	Register chan *Client

	// Unregister requests from clients
	Unregister chan *Client

	source      EventSource
	memberships MembershipChecker

	mu sync.RWMutex
}

// NewHub creates a new WebSocket hub.
func NewHub(source EventSource, memberships MembershipChecker) *Hub {
	return &Hub{
		Clients:     make(map[string]*Client),
		Register:    make(chan *Client),
		Unregister:  make(chan *Client),
		source:      source,
		memberships: memberships,
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.registerClient(client)
		case client := <-h.Unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient adds a client to the hub
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	// If the profile already has a connection, close the old one
	if existing, ok := h.Clients[client.ProfileID]; ok {
		existing.cancelSubscriptions()
		existing.closeSend()
	}

	h.Clients[client.ProfileID] = client
	metrics.WebsocketClients.Set(float64(len(h.Clients)))

	slog.Info("websocket client connected", "profile_id", client.ProfileID, "username", client.Username)
}

// unregisterClient removes a client from the hub
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if current, ok := h.Clients[client.ProfileID]; ok && current == client {
		delete(h.Clients, client.ProfileID)
		client.cancelSubscriptions()
		client.closeSend()
		metrics.WebsocketClients.Set(float64(len(h.Clients)))

		slog.Info("websocket client disconnected", "profile_id", client.ProfileID)
	}
}

// IsOnline checks if a profile is currently connected
func (h *Hub) IsOnline(profileID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, ok := h.Clients[profileID]
	return ok
}

// OnlineCount returns the number of currently connected clients
func (h *Hub) OnlineCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.Clients)
}
