package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/onboarding"
)

// RegisterAuthRoutes wires the Firebase sign-in endpoints. The sign-in
// endpoints are throttled by rateLimiter.
func RegisterAuthRoutes(api fiber.Router, h *onboarding.Handler, rateLimiter fiber.Handler) {
	grp := api.Group("/auth")
	grp.Post("/verify-firebase-token", rateLimiter, h.VerifyFirebaseToken)
	grp.Post("/google-signin", rateLimiter, h.GoogleSignIn)
	grp.Post("/check-user", h.CheckUser)
}
