// Package handlers contains the HTTP layer: request parsing, auth cookie
// handling and the translation of service errors into HTTP responses.
package handlers

import (
	"errors"
	"log/slog"

	"wandermate/server/internal/apperrors"

	"github.com/gofiber/fiber/v2"
)

// fail writes the standard error envelope.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"error":   message,
	})
}

// respondErr maps a service error onto an HTTP status and the standard
// error envelope. Unknown errors become 500s and are logged, not leaked.
func respondErr(c *fiber.Ctx, err error) error {
	if apperrors.IsValidation(err) {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return fail(c, fiber.StatusNotFound, "Resource not found")
	case errors.Is(err, apperrors.ErrNotAuthorized):
		return fail(c, fiber.StatusForbidden, "You are not allowed to do that")
	case errors.Is(err, apperrors.ErrAlreadyMember):
		return fail(c, fiber.StatusConflict, "Already a member of this group")
	case errors.Is(err, apperrors.ErrRequestPending):
		return fail(c, fiber.StatusConflict, "Join request is already pending")
	case errors.Is(err, apperrors.ErrNotMember):
		return fail(c, fiber.StatusConflict, "No such member or join request")
	case errors.Is(err, apperrors.ErrGroupFull):
		return fail(c, fiber.StatusConflict, "Group is at maximum capacity")
	case errors.Is(err, apperrors.ErrCreatorCannotLeave):
		return fail(c, fiber.StatusConflict, "The creator cannot leave the group")
	case errors.Is(err, apperrors.ErrCannotRemoveCreator):
		return fail(c, fiber.StatusConflict, "The creator cannot be removed")
	case errors.Is(err, apperrors.ErrEmptyContent):
		return fail(c, fiber.StatusBadRequest, "Message content must not be empty")
	case errors.Is(err, apperrors.ErrRateLimited):
		return fail(c, fiber.StatusTooManyRequests, "You are sending messages too quickly")
	case errors.Is(err, apperrors.ErrTransient):
		return fail(c, fiber.StatusServiceUnavailable, "Temporary storage problem, please retry")
	}

	slog.Error("unhandled request error", "path", c.Path(), "error", err)
	return fail(c, fiber.StatusInternalServerError, "Internal server error")
}
