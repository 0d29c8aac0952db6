package main

import (
	"context"
	"log/slog"
	"os"

	"wandermate/server/internal/config"
	"wandermate/server/internal/handlers"
	"wandermate/server/internal/ratelimit"
	"wandermate/server/internal/realtime"
	"wandermate/server/internal/routes"
	"wandermate/server/internal/service"
	"wandermate/server/internal/storage/postgres"
	"wandermate/server/internal/utils"
	ws "wandermate/server/internal/websocket"
	"wandermate/server/pkg/logging"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment")
	}

	logging.Setup()
	cfg := config.Load()

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	// Connect to database
	store, err := postgres.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := utils.NewTokenManager(cfg.JWTSecret)
	broker := realtime.NewBroker(64)

	// Per-user-per-group chat rate limiter with a background janitor
	// for expired windows.
	chatLimiter := ratelimit.NewFixedWindow(cfg.ChatRateLimit, cfg.ChatRateWindow)
	stopSweep := make(chan struct{})
	defer close(stopSweep)
	chatLimiter.StartSweeping(stopSweep)

	// Services
	groupService := service.NewGroupService(store, store)
	membershipService := service.NewMembershipService(store, store)
	messageService := service.NewMessageService(store, store, store, membershipService, chatLimiter, broker)
	profileService := service.NewProfileService(store)

	// WebSocket hub bridging realtime subscriptions to clients
	hub := ws.NewHub(messageService, membershipService)
	go hub.Run()

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "WanderMate API v1.0",
	})

	// Middleware
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, routes.Handlers{
		Auth:        handlers.NewAuthHandler(store, tokens),
		Profiles:    handlers.NewProfileHandler(profileService),
		Groups:      handlers.NewGroupHandler(groupService),
		Memberships: handlers.NewMembershipHandler(membershipService),
		Messages:    handlers.NewMessageHandler(messageService),
		Uploads:     handlers.NewUploadHandler(cfg.UploadDir),
		WebSocket:   handlers.NewWebSocketHandler(hub),
		Tokens:      tokens,
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
