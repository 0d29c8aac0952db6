package websocket

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"wandermate/server/internal/models"
	"wandermate/server/internal/realtime"

	"github.com/gofiber/contrib/websocket"
)

const (
	readTimeout  = 60 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 54 * time.Second
)

// Client represents a WebSocket client connection
type Client struct {
	ProfileID string
	Username  string
	Conn      *websocket.Conn
	Hub       *Hub
	Send      chan []byte

	mu     sync.Mutex
	closed bool
	subs   map[string]*realtime.Subscription // groupID -> active subscription
}

// NewClient creates a new WebSocket client
func NewClient(profileID, username string, conn *websocket.Conn, hub *Hub) *Client {
	return &Client{
		ProfileID: profileID,
		Username:  username,
		Conn:      conn,
		Hub:       hub,
		Send:      make(chan []byte, 256),
		subs:      make(map[string]*realtime.Subscription),
	}
}

// ReadPump handles incoming messages from the client
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister <- c
		c.Conn.Close()
	}()

	c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(readTimeout))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Warn("websocket read error", "profile_id", c.ProfileID, "error", err)
			}
			break
		}

		var incoming IncomingMessage
		if err := json.Unmarshal(message, &incoming); err != nil {
			c.sendError("bad_request", "Failed to parse message")
			continue
		}

		c.handleIncomingMessage(incoming)
	}
}

// WritePump handles outgoing messages to the client
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				slog.Warn("websocket write error", "profile_id", c.ProfileID, "error", err)
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncomingMessage processes different types of incoming messages
func (c *Client) handleIncomingMessage(msg IncomingMessage) {
	groupID, _ := msg.Payload["groupId"].(string)
	if groupID == "" {
		c.sendError("bad_request", "groupId is required")
		return
	}

	switch msg.Type {
	case EventSubscribeGroup:
		c.subscribeGroup(groupID)
	case EventUnsubscribeGroup:
		c.unsubscribeGroup(groupID)
	default:
		c.sendError("unknown_event", "Unknown message type: "+string(msg.Type))
	}
}

// subscribeGroup bridges a group's chat events onto this connection.
// Only accepted members may follow a group's chat.
func (c *Client) subscribeGroup(groupID string) {
	status, err := c.Hub.memberships.StatusFor(context.Background(), groupID, c.ProfileID)
	if err != nil || status != models.StatusAccepted {
		c.sendError("forbidden", "Not a member of this group")
		return
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	if _, exists := c.subs[groupID]; exists {
		c.mu.Unlock()
		c.sendMessage(WSMessage{Type: EventSubscribed, Payload: SubscriptionPayload{GroupID: groupID}, Timestamp: time.Now()})
		return
	}
	sub := c.Hub.source.Subscribe(groupID)
	c.subs[groupID] = sub
	c.mu.Unlock()

	go c.forward(sub)

	c.sendMessage(WSMessage{Type: EventSubscribed, Payload: SubscriptionPayload{GroupID: groupID}, Timestamp: time.Now()})
}

// unsubscribeGroup cancels the bridge for one group.
func (c *Client) unsubscribeGroup(groupID string) {
	c.mu.Lock()
	sub, ok := c.subs[groupID]
	if ok {
		delete(c.subs, groupID)
	}
	c.mu.Unlock()

	if ok {
		sub.Cancel()
	}
	c.sendMessage(WSMessage{Type: EventUnsubscribed, Payload: SubscriptionPayload{GroupID: groupID}, Timestamp: time.Now()})
}

// forward copies broker events for one subscription onto the send channel
// until the subscription is cancelled.
func (c *Client) forward(sub *realtime.Subscription) {
	for event := range sub.C {
		c.sendMessage(WSMessage{
			Type:      chatEventType(event.Type),
			Payload:   event,
			Timestamp: event.Timestamp,
		})
	}
}

// cancelSubscriptions tears down all active group bridges. Called by the
// hub while unregistering, before Send is closed.
func (c *Client) cancelSubscriptions() {
	c.mu.Lock()
	subs := c.subs
	c.subs = make(map[string]*realtime.Subscription)
	c.mu.Unlock()

	for _, sub := range subs {
		sub.Cancel()
	}
}

// closeSend closes the send channel exactly once. Sends and the close
// share c.mu, so a forward goroutine still draining a cancelled
// subscription can never hit a closed channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.Send)
	}
}

// sendMessage queues a message for the client, dropping it if the
// connection cannot keep up or has been torn down.
func (c *Client) sendMessage(msg WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("marshal websocket message failed", "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	select {
	case c.Send <- data:
	default:
		slog.Warn("dropping websocket message for slow client", "profile_id", c.ProfileID)
	}
}

func (c *Client) sendError(code, message string) {
	c.sendMessage(WSMessage{
		Type:      EventError,
		Payload:   ErrorPayload{Code: code, Message: message},
		Timestamp: time.Now(),
	})
}
