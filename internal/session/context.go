package session

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

var ErrNoSession = errors.New("no session in context")

// Session is the decoded view of the JWT claims the auth service issues.
// Role and business data are snapshots from token-issue time; the fresh
// session middleware invalidates them when authorization changes.
type Session struct {
	UserID     uint
	Email      string
	BusinessID *uint
	AdminOfID  *uint
	CanVerify  bool
}

// Current extracts the session from the JWT stored in Fiber context locals.
func Current(c *fiber.Ctx) (*Session, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return nil, ErrNoSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("missing sub claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 64)
	if err != nil {
		return nil, errors.New("malformed sub claim")
	}

	s := &Session{UserID: uint(userID)}
	s.Email, _ = claims["email"].(string)
	s.BusinessID = claimID(claims, "business_id")
	s.AdminOfID = claimID(claims, "admin_of")
	s.CanVerify, _ = claims["can_verify"].(bool)
	return s, nil
}

// UserID is a shorthand for Current when only the user id matters.
func UserID(c *fiber.Ctx) (uint, error) {
	s, err := Current(c)
	if err != nil {
		return 0, err
	}
	return s.UserID, nil
}

// IsAdminOf reports whether the session's user administers the business.
func (s *Session) IsAdminOf(businessID uint) bool {
	return s.AdminOfID != nil && *s.AdminOfID == businessID
}

// claimID reads an optional numeric claim. JSON numbers decode as float64.
func claimID(claims jwt.MapClaims, key string) *uint {
	f, ok := claims[key].(float64)
	if !ok || f <= 0 {
		return nil
	}
	id := uint(f)
	return &id
}
