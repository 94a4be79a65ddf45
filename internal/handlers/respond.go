package handlers

import (
	"errors"
	"fmt"
	"log"

	"curio/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// writeError maps a service error to the structured response shape
// {"kind", "detail"}. Not-found deliberately covers both true absence and
// unauthorized access; conflicts are structured 400s rather than raw storage
// errors.
func writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"kind":   "not_found",
			"detail": "Resource not found or you don't have access to it",
		})
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"kind":   "invalid_credentials",
			"detail": "Invalid credentials",
		})
	case errors.Is(err, services.ErrInvalidToken):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"kind":   "invalid_token",
			"detail": "Invalid or expired token",
		})
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":   "conflict",
			"detail": err.Error(),
		})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"kind":   "validation_failed",
			"detail": err.Error(),
		})
	default:
		log.Printf("Internal error handling %s %s: %v", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"kind":   "internal",
			"detail": "Internal server error",
		})
	}
}

// writeBodyError reports an unparseable request body.
func writeBodyError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"kind":   "validation_failed",
		"detail": fmt.Sprintf("Invalid request body: %v", err),
	})
}

// writeValidationErrors renders validator field failures as a field->message
// map, the same shape for every endpoint.
func writeValidationErrors(c *fiber.Ctx, err error) error {
	fields := make(map[string]string)
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		for _, e := range validationErrors {
			fields[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"kind":   "validation_failed",
		"detail": "Validation failed",
		"fields": fields,
	})
}
