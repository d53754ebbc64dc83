package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/briefly/briefly-backend/internal/api/handlers"
	"github.com/briefly/briefly-backend/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services) {
	api := app.Group("/api")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Upload + chat commands share one endpoint, dispatched on form content
	api.Post("/query", handlers.Query(svc))

	// Session management
	api.Get("/sessions/:id", handlers.GetSessionInfo(svc))
	api.Delete("/sessions/:id", handlers.DeleteSession(svc))

	// Transcript download
	api.Post("/download-conversation", handlers.DownloadConversation(svc))
	api.Get("/download/:filename", handlers.DownloadFile(svc))

	// Bundled frontend
	app.Static("/", svc.Config.Server.StaticDir)
}
