package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// ServiceInfo describes the running service on the index route.
type ServiceInfo struct {
	Name    string
	Version string
}

// Routes lists the product API as shown by the index route.
var Routes = map[string]string{
	"POST /products":            "Create a new product",
	"GET /products/<id>":        "Retrieve a product by ID",
	"GET /products/name/<name>": "Retrieve products by name",
	"PUT /products/<id>":        "Update a product by ID",
	"DELETE /products/<id>":     "Delete a product by ID",
	"GET /products":             "List all products",
}

// HandleIndex returns the static service descriptor.
func HandleIndex(info ServiceInfo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"service_name": info.Name,
			"version":      info.Version,
			"endpoints":    Routes,
		})
	}
}

// HandleHealth reports liveness.
func HandleHealth(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}
