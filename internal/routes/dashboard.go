package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/dashboard"
)

// RegisterDashboardRoutes wires the authenticated dashboard and SIM lookups.
func RegisterDashboardRoutes(r fiber.Router, h *dashboard.Handler) {
	r.Get("/dashboard", h.Mine)
	r.Get("/sims/primary", h.PrimarySim)
}
