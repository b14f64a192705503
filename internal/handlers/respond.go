package handlers

import (
	"errors"
	"log/slog"

	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/services"
	"github.com/gofiber/fiber/v2"
)

// serviceError maps service-layer failures to the API error taxonomy:
// business-rule violations are 400 E_NOT_ALLOWED, lookups are 404,
// validation is 400, everything else is a logged 500.
func serviceError(c *fiber.Ctx, err error) error {
	var notAllowed *services.NotAllowedError
	if errors.As(err, &notAllowed) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    "E_NOT_ALLOWED",
			Message: notAllowed.Message,
		})
	}

	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrBusinessNotFound),
		errors.Is(err, services.ErrBenefitNotFound),
		errors.Is(err, services.ErrClaimNotFound),
		errors.Is(err, services.ErrNotAnEmployee):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidMood):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	}

	slog.Error("request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: "Internal server error",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func forbidden(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
		Error: true, Message: message,
	})
}

// paramID parses a positive integer route param.
func paramID(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}
