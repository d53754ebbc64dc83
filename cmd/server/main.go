package main

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/briefly/briefly-backend/internal/api"
	"github.com/briefly/briefly-backend/internal/config"
	"github.com/briefly/briefly-backend/internal/services"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize services. A missing provider credential fails here, before
	// the server accepts any traffic.
	svc, err := services.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize services: ", err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Briefly Backend",
		BodyLimit:    cfg.Upload.MaxBytes,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Setup routes
	api.SetupRoutes(app, svc)

	// Start background session reclamation
	svc.Reaper.Start()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.WithFields(logrus.Fields{
		"addr":     addr,
		"provider": cfg.DefaultProvider,
	}).Info("Briefly backend starting")

	if err := app.Listen(addr); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
