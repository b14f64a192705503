package middleware

import (
	"errors"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/nicolascalev/toptierperk-api/internal/config"
	"github.com/nicolascalev/toptierperk-api/internal/dto"
)

// JWTProtected guards a route group with bearer-token auth. A missing or
// malformed Authorization header is reported separately from a token that
// parsed but failed verification, so clients can tell "log in" apart from
// "session expired, refresh".
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{Key: []byte(cfg.JWTSecret)},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "Unauthorized: invalid or expired session"
			if errors.Is(err, jwtware.ErrJWTMissingOrMalformed) {
				message = "Unauthorized: missing or malformed session token"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: message,
			})
		},
	})
}
