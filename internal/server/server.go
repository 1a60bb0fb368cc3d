// Package server assembles the Fiber application.
package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"productapi/internal/handlers"
	"productapi/internal/logger"
	"productapi/internal/services"
)

// New builds the Fiber app with middleware, the error handler and all routes.
func New(info handlers.ServiceInfo, productService *services.ProductService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      info.Name,
		ErrorHandler: handlers.ErrorHandler,
	})

	app.Use(logger.FiberMiddleware())
	app.Use(recover.New())

	app.Get("/", handlers.HandleIndex(info))
	app.Get("/health", handlers.HandleHealth)

	handlers.NewProductHandler(productService).RegisterRoutes(app)
	return app
}
