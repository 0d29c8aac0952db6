package handlers

import (
	"strconv"
	"time"

	"wandermate/server/internal/middleware"
	"wandermate/server/internal/models"
	"wandermate/server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GroupHandler serves travel group CRUD and listings.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a GroupHandler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// GroupRequest represents create/update group request body
type GroupRequest struct {
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	Destination     string    `json:"destination"`
	StartDate       time.Time `json:"startDate"`
	EndDate         time.Time `json:"endDate"`
	BudgetRange     *string   `json:"budgetRange"`
	ImageURL        *string   `json:"imageUrl"`
	MaxParticipants int       `json:"maxParticipants"`
	Tags            []string  `json:"tags"`
}

func (r *GroupRequest) params() service.GroupParams {
	return service.GroupParams{
		Title:           r.Title,
		Description:     r.Description,
		Destination:     r.Destination,
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		BudgetRange:     r.BudgetRange,
		ImageURL:        r.ImageURL,
		MaxParticipants: r.MaxParticipants,
		Tags:            r.Tags,
	}
}

// Create creates a new travel group
func (h *GroupHandler) Create(c *fiber.Ctx) error {
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	group, err := h.groups.CreateGroup(c.Context(), req.params(), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    group,
	})
}

// Get returns one group with creator, tags and the caller's status
func (h *GroupHandler) Get(c *fiber.Ctx) error {
	group, err := h.groups.GetGroup(c.Context(), c.Params("id"), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    group,
	})
}

// List returns groups matching the query filters, newest first
func (h *GroupHandler) List(c *fiber.Ctx) error {
	filter := models.GroupFilter{
		Destination: c.Query("destination"),
		Budget:      c.Query("budget"),
	}

	if raw := c.Query("startAfter"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid startAfter timestamp")
		}
		filter.StartAfter = &t
	}
	if raw := c.Query("endBefore"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid endBefore timestamp")
		}
		filter.EndBefore = &t
	}

	filter.Limit, _ = strconv.Atoi(c.Query("limit", "20"))
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}
	filter.Offset, _ = strconv.Atoi(c.Query("offset", "0"))
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	groups, err := h.groups.ListGroups(c.Context(), filter, middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    groups,
	})
}

// Update applies changes to a group. Creator only.
func (h *GroupHandler) Update(c *fiber.Ctx) error {
	var req GroupRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	group, err := h.groups.UpdateGroup(c.Context(), c.Params("id"), req.params(), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    group,
	})
}

// Delete removes a group with its memberships and messages. Creator only.
func (h *GroupHandler) Delete(c *fiber.Ctx) error {
	if err := h.groups.DeleteGroup(c.Context(), c.Params("id"), middleware.GetProfileID(c)); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "Group deleted"},
	})
}

// Members lists a group's memberships with profiles
func (h *GroupHandler) Members(c *fiber.Ctx) error {
	members, err := h.groups.ListMembers(c.Context(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    members,
	})
}
