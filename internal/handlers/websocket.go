package handlers

import (
	ws "wandermate/server/internal/websocket"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WebSocketHandler upgrades authenticated connections and attaches them
// to the hub.
type WebSocketHandler struct {
	hub *ws.Hub
}

// NewWebSocketHandler creates a WebSocketHandler over a running hub.
func NewWebSocketHandler(hub *ws.Hub) *WebSocketHandler {
	return &WebSocketHandler{hub: hub}
}

// Upgrade checks if the request should be upgraded to WebSocket
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}

	return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{
		"success": false,
		"error":   "WebSocket upgrade required",
	})
}

// Serve handles an upgraded WebSocket connection
func (h *WebSocketHandler) Serve(c *websocket.Conn) {
	// Identity was stored by the auth middleware before the upgrade.
	profileID, _ := c.Locals("profileID").(string)
	username, _ := c.Locals("username").(string)
	if profileID == "" {
		c.Close()
		return
	}

	client := ws.NewClient(profileID, username, c, h.hub)
	h.hub.Register <- client

	go client.WritePump()
	client.ReadPump() // blocks until the connection closes
}

// Stats returns WebSocket connection statistics
func (h *WebSocketHandler) Stats(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"onlineClients": h.hub.OnlineCount(),
		},
	})
}
