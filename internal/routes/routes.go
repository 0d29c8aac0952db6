package routes

import (
	"wandermate/server/internal/handlers"
	"wandermate/server/internal/middleware"
	"wandermate/server/internal/utils"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything SetupRoutes wires into the app.
type Handlers struct {
	Auth        *handlers.AuthHandler
	Profiles    *handlers.ProfileHandler
	Groups      *handlers.GroupHandler
	Memberships *handlers.MembershipHandler
	Messages    *handlers.MessageHandler
	Uploads     *handlers.UploadHandler
	WebSocket   *handlers.WebSocketHandler
	Tokens      *utils.TokenManager
}

// SetupRoutes configures all application routes
func SetupRoutes(app *fiber.App, h Handlers) {
	requireAuth := middleware.Auth(h.Tokens)

	// API v1 group
	api := app.Group("/api/v1")

	// Health check (public)
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "WanderMate API is running",
		})
	})

	// Prometheus metrics (public; fence off at the proxy in production)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Auth routes (public)
	auth := api.Group("/auth")
	auth.Post("/register", middleware.StrictRateLimiter(), h.Auth.Register)
	auth.Post("/login", middleware.StrictRateLimiter(), h.Auth.Login)
	auth.Post("/refresh", middleware.StrictRateLimiter(), h.Auth.Refresh)
	auth.Post("/logout", requireAuth, h.Auth.Logout)
	auth.Get("/me", requireAuth, h.Auth.Me)

	// Profile routes (protected)
	profiles := api.Group("/profiles", requireAuth)
	profiles.Get("/search", middleware.RelaxedRateLimiter(), h.Profiles.Search)
	profiles.Get("/:id", h.Profiles.Get)
	profiles.Put("/me", middleware.ModerateRateLimiter(), h.Profiles.Update)

	// Group routes (protected)
	groups := api.Group("/groups", requireAuth)
	groups.Post("/", middleware.ModerateRateLimiter(), h.Groups.Create)
	groups.Get("/", middleware.RelaxedRateLimiter(), h.Groups.List)
	groups.Get("/:id", h.Groups.Get)
	groups.Put("/:id", h.Groups.Update)
	groups.Delete("/:id", h.Groups.Delete)
	groups.Get("/:id/members", h.Groups.Members)

	// Membership lifecycle (protected)
	groups.Post("/:id/join", middleware.ModerateRateLimiter(), h.Memberships.Join)
	groups.Get("/:id/membership", h.Memberships.Status)
	groups.Post("/:id/members/:memberId/approve", h.Memberships.Approve)
	groups.Post("/:id/members/:memberId/reject", h.Memberships.Reject)
	groups.Post("/:id/leave", h.Memberships.Leave)
	groups.Delete("/:id/members/:memberId", h.Memberships.Remove)

	// Group chat (protected). Per-user-per-group message limits live in
	// the service; the route-level limiter only curbs abusive clients.
	groups.Post("/:id/messages", middleware.ModerateRateLimiter(), h.Messages.Send)
	groups.Get("/:id/messages", middleware.RelaxedRateLimiter(), h.Messages.List)
	api.Delete("/messages/:messageId", requireAuth, h.Messages.Delete)

	// Upload routes (protected)
	uploads := api.Group("/upload", requireAuth)
	uploads.Post("/avatar", middleware.UploadRateLimiter(), h.Uploads.UploadAvatar)
	uploads.Post("/group-image", middleware.UploadRateLimiter(), h.Uploads.UploadGroupImage)

	// Serve uploaded files (public)
	app.Get("/uploads/:type/:filename", h.Uploads.GetFile)

	// WebSocket route (protected)
	api.Get("/ws", requireAuth, h.WebSocket.Upgrade, websocket.New(h.WebSocket.Serve))

	// WebSocket stats (protected, for debugging)
	api.Get("/ws/stats", requireAuth, h.WebSocket.Stats)
}
