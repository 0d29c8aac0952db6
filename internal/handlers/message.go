package handlers

import (
	"strconv"

	"wandermate/server/internal/middleware"
	"wandermate/server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MessageHandler serves group chat over HTTP.
type MessageHandler struct {
	messages *service.MessageService
}

// NewMessageHandler creates a MessageHandler.
func NewMessageHandler(messages *service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// SendMessageRequest represents send message request body. MessageID is
// optional and client-generated; retries with the same ID are idempotent.
type SendMessageRequest struct {
	Content   string `json:"content"`
	MessageID string `json:"messageId"`
}

// Send posts a message to a group's chat
func (h *MessageHandler) Send(c *fiber.Ctx) error {
	var req SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	msg, err := h.messages.Send(c.Context(), c.Params("id"), middleware.GetProfileID(c), req.Content, req.MessageID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    msg,
	})
}

// List returns a group's messages in ascending creation order
func (h *MessageHandler) List(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "50"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.Query("offset", "0"))
	if offset < 0 {
		offset = 0
	}

	msgs, err := h.messages.Fetch(c.Context(), c.Params("id"), limit, offset)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    msgs,
	})
}

// Delete removes a message. Sender or group creator only.
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	err := h.messages.Delete(c.Context(), c.Params("messageId"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "Message deleted"},
	})
}
