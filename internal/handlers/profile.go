package handlers

import (
	"strconv"

	"wandermate/server/internal/middleware"
	"wandermate/server/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProfileHandler serves profile reads, updates and search.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// UpdateProfileRequest represents profile update request body
type UpdateProfileRequest struct {
	FullName        string   `json:"fullName"`
	AvatarURL       *string  `json:"avatarUrl"`
	Bio             *string  `json:"bio"`
	Location        *string  `json:"location"`
	Languages       []string `json:"languages"`
	TravelInterests []string `json:"travelInterests"`
}

// Get returns a profile's public view
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	profile, err := h.profiles.Get(c.Context(), c.Params("id"))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

// Update applies changes to the caller's own profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := h.profiles.Update(c.Context(), middleware.GetProfileID(c), service.ProfileUpdateParams{
		FullName:        req.FullName,
		AvatarURL:       req.AvatarURL,
		Bio:             req.Bio,
		Location:        req.Location,
		Languages:       req.Languages,
		TravelInterests: req.TravelInterests,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile,
	})
}

// Search matches profiles by username or full name
func (h *ProfileHandler) Search(c *fiber.Ctx) error {
	limit, _ := strconv.Atoi(c.Query("limit", "20"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	results, err := h.profiles.Search(c.Context(), c.Query("q"), limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    results,
	})
}
