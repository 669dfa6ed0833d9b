package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"loneus/cv-builder/internal/repositories"
	"loneus/cv-builder/internal/services"
	"loneus/cv-builder/internal/validation"
)

// respondError maps service errors onto HTTP status codes.
func respondError(c *fiber.Ctx, err error) error {
	var fieldErrs validation.Errors

	switch {
	case errors.Is(err, services.ErrGeneration):
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "The assistant could not produce a response. Please try again.",
		})
	case errors.As(err, &fieldErrs):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error":  "validation failed",
			"fields": fieldErrs,
		})
	case errors.Is(err, services.ErrInvalidRequest):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrAuthRequired), errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbiddenRole):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, repositories.ErrRecordNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrEmailTaken), errors.Is(err, services.ErrNotLastSection):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Something went wrong. Please try again.",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": message})
}
