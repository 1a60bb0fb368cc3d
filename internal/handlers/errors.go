package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"productapi/internal/logger"
	"productapi/internal/models"
)

// errorCategories holds the "error" field written for framework-level failures.
var errorCategories = map[int]string{
	fiber.StatusBadRequest:           "Bad Request",
	fiber.StatusNotFound:             "Not Found",
	fiber.StatusMethodNotAllowed:     "Method not Allowed",
	fiber.StatusUnsupportedMediaType: "Unsupported media type",
	fiber.StatusInternalServerError:  "Internal Server Error",
}

// ErrorHandler is the fiber.Config ErrorHandler. Every failure is answered
// with a JSON body; causes of 500s are logged but not returned.
func ErrorHandler(c *fiber.Ctx, err error) error {
	log := logger.FromContext(c.UserContext())

	var dve *models.DataValidationError
	if errors.As(err, &dve) {
		log.Warn("Request rejected", zap.Error(err))
		return writeError(c, fiber.StatusBadRequest, dve.Error())
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return writeError(c, fe.Code, fe.Message)
	}

	log.Error("Unhandled error", zap.Error(err))
	return writeError(c, fiber.StatusInternalServerError, "The server encountered an internal error and was unable to complete your request.")
}

func writeError(c *fiber.Ctx, code int, message string) error {
	category, ok := errorCategories[code]
	if !ok {
		category = fiber.NewError(code).Message
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   category,
		"message": message,
	})
}
