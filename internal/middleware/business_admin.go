package middleware

import (
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
)

// BusinessAdminRequired gates routes with a :businessId param to the admin of
// that business. Admin status comes from the token; the fresh-session
// middleware guarantees it is not stale.
func BusinessAdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		businessID, err := c.ParamsInt("businessId")
		if err != nil || businessID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid business id",
			})
		}

		sess, err := session.Current(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !sess.IsAdminOf(uint(businessID)) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Business admin access required",
			})
		}

		return c.Next()
	}
}
