package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"mention-bot/config"
	"mention-bot/services"
	"mention-bot/webhooks"
)

const version = "1.0.0"

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found")
	}

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize structured logger
	level := slog.LevelDebug
	if cfg.Environment == "production" {
		level = slog.LevelInfo
	}
	logHandler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(logHandler))

	// Build the account registry
	registry := services.BuildRegistry(cfg)
	slog.Info("Account registry built",
		"facebookPages", len(registry.PageIDs()),
		"instagramAccounts", registry.Len())

	graph := services.NewGraphClient()
	notifier := services.NewEmailNotifier(cfg)
	pipeline := webhooks.NewPipeline(cfg, registry, graph, notifier)

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			slog.Error("Request error", "error", err, "status", code)
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path}\n",
	}))

	// Register webhook routes
	webhooks.RegisterRoutes(app, pipeline)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Social Mention Webhook API",
			"version": version,
		})
	})

	// Health check with configuration diagnostics
	app.Get("/health", healthHandler(cfg, registry))

	// Start server
	slog.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		slog.Error("Server failed to start", "error", err)
		os.Exit(1)
	}
}

func healthHandler(cfg *config.Config, registry *services.Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"configuration": fiber.Map{
				"facebook_pages":     registry.PageIDs(),
				"instagram_accounts": registry.Usernames(),
				"env_vars_set": fiber.Map{
					"META_APP_ID":       cfg.AppID != "",
					"META_APP_SECRET":   cfg.AppSecret != "",
					"META_VERIFY_TOKEN": cfg.VerifyToken != "",
					"EMAIL_CONFIG":      cfg.EmailHost != "" && cfg.EmailUser != "",
				},
			},
		})
	}
}
