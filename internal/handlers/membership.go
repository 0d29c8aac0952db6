package handlers

import (
	"wandermate/server/internal/middleware"
	"wandermate/server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// MembershipHandler serves the join request lifecycle.
type MembershipHandler struct {
	memberships *service.MembershipService
}

// NewMembershipHandler creates a MembershipHandler.
func NewMembershipHandler(memberships *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{memberships: memberships}
}

// Join files a join request for the caller
func (h *MembershipHandler) Join(c *fiber.Ctx) error {
	err := h.memberships.RequestJoin(c.Context(), c.Params("id"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"status": "pending"},
	})
}

// Approve accepts a pending join request. Creator only.
func (h *MembershipHandler) Approve(c *fiber.Ctx) error {
	err := h.memberships.Approve(c.Context(), c.Params("id"), c.Params("memberId"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"status": "accepted"},
	})
}

// Reject declines a pending join request. Creator only.
func (h *MembershipHandler) Reject(c *fiber.Ctx) error {
	err := h.memberships.Reject(c.Context(), c.Params("id"), c.Params("memberId"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"status": "rejected"},
	})
}

// Leave removes the caller's own membership
func (h *MembershipHandler) Leave(c *fiber.Ctx) error {
	err := h.memberships.Leave(c.Context(), c.Params("id"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "Left the group"},
	})
}

// Remove force-removes a member. Creator only.
func (h *MembershipHandler) Remove(c *fiber.Ctx) error {
	err := h.memberships.Remove(c.Context(), c.Params("id"), c.Params("memberId"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "Member removed"},
	})
}

// Status reports the caller's membership status for a group
func (h *MembershipHandler) Status(c *fiber.Ctx) error {
	status, err := h.memberships.StatusFor(c.Context(), c.Params("id"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"status": status},
	})
}
