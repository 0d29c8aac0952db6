package handlers

import (
	"strings"

	"wandermate/server/internal/middleware"
	"wandermate/server/internal/models"
	"wandermate/server/internal/storage"
	"wandermate/server/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler owns registration, login and session refresh.
type AuthHandler struct {
	profiles storage.ProfileStore
	tokens   *utils.TokenManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(profiles storage.ProfileStore, tokens *utils.TokenManager) *AuthHandler {
	return &AuthHandler{profiles: profiles, tokens: tokens}
}

// RegisterRequest represents registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles account creation
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" || req.FullName == "" || req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Username, full name, email, and password are required")
	}
	if err := utils.ValidatePassword(req.Password); err != nil {
		return fail(c, fiber.StatusBadRequest, err.Error())
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to hash password")
	}

	profile := &models.Profile{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
	}
	if err := h.profiles.CreateProfile(c.Context(), profile); err != nil {
		return respondErr(c, err)
	}

	if err := h.issueSession(c, profile); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    profile.ToResponse(),
	})
}

// Login handles email/password login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return fail(c, fiber.StatusBadRequest, "Email and password are required")
	}

	profile, err := h.profiles.GetProfileByEmail(c.Context(), req.Email)
	if err != nil || !utils.CheckPassword(req.Password, profile.Password) {
		// Same answer for unknown email and wrong password.
		return fail(c, fiber.StatusUnauthorized, "Invalid email or password")
	}

	if err := h.issueSession(c, profile); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile.ToResponse(),
	})
}

// Refresh rotates the access token using the refresh token cookie
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return fail(c, fiber.StatusUnauthorized, "No refresh token provided")
	}

	claims, err := h.tokens.ValidateToken(refreshToken)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	// The profile may have been deleted since the token was issued.
	profile, err := h.profiles.GetProfile(c.Context(), claims.ProfileID)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Invalid refresh token")
	}

	if err := h.issueSession(c, profile); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Failed to generate token")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile.ToResponse(),
	})
}

// Logout clears the session cookies
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{Name: "token", Value: "", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})
	c.Cookie(&fiber.Cookie{Name: "refresh_token", Value: "", MaxAge: -1, HTTPOnly: true, SameSite: "Lax"})

	return c.JSON(fiber.Map{
		"success": true,
		"data":    fiber.Map{"message": "Logged out"},
	})
}

// Me returns the authenticated profile
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	profile, err := h.profiles.GetProfile(c.Context(), middleware.GetProfileID(c))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    profile.ToResponse(),
	})
}

// issueSession sets fresh access and refresh token cookies.
func (h *AuthHandler) issueSession(c *fiber.Ctx, profile *models.Profile) error {
	token, err := h.tokens.GenerateToken(profile.ID, profile.Username)
	if err != nil {
		return err
	}
	refreshToken, err := h.tokens.GenerateRefreshToken(profile.ID, profile.Username)
	if err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     "token",
		Value:    token,
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
		MaxAge:   int(utils.AccessTokenTTL.Seconds()),
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   int(utils.RefreshTokenTTL.Seconds()),
	})
	return nil
}
