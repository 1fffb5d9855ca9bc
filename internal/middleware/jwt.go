package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/auth"
)

const userIDLocal = "user_id"

// TokenParser validates session tokens.
type TokenParser interface {
	Parse(token string) (auth.Claims, error)
}

// JWTAuth returns a middleware that requires a valid bearer session token.
func JWTAuth(tokens TokenParser) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if len(authz) < len("Bearer ") || !strings.EqualFold(authz[:len("Bearer ")], "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "No token provided")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])
		claims, err := tokens.Parse(tokenStr)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "Invalid or expired token")
		}
		c.Locals(userIDLocal, claims.UserID)
		return c.Next()
	}
}

// UserID returns the authenticated user id set by JWTAuth.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDLocal).(string)
	return id
}
