package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/plans"
)

// RegisterPlanRoutes wires the plan listing for signed-in users.
func RegisterPlanRoutes(r fiber.Router, h *plans.Handler) {
	r.Get("/plans/:operator", h.ByOperator)
}

// RegisterAdminRoutes wires catalog maintenance behind the admin key.
func RegisterAdminRoutes(r fiber.Router, h *plans.Handler) {
	r.Post("/seed-plans", h.Seed)
	r.Get("/plans/all", h.All)
	r.Delete("/plans/all", h.DeleteAll)
}
