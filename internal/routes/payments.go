package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/payments"
)

// RegisterPaymentRoutes wires recharge endpoints. Recharges pass through idempotency.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler, idempotency fiber.Handler) {
	grp := r.Group("/payments")
	grp.Post("/recharge", idempotency, h.Recharge)
	grp.Get("/history", h.History)
}
