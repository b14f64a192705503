package middleware

import (
	"github.com/nicolascalev/toptierperk-api/internal/dto"
	"github.com/nicolascalev/toptierperk-api/internal/models"
	"github.com/nicolascalev/toptierperk-api/internal/session"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FreshSessionRequired rejects requests from sessions issued before an
// authorization change. Role and membership claims live in the token, so a
// role change does not reach the session until it is refreshed; until then
// sensitive requests get a 401 with code E_REAUTH.
func FreshSessionRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := session.Current(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.Select("authorization_changed").First(&user, sess.UserID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if user.AuthorizationChanged {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Code:    "E_REAUTH",
				Message: "Your authorization changed, please sign in again",
			})
		}

		return c.Next()
	}
}
