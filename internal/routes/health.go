package routes

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/infra"
)

// RegisterHealthRoutes adds the banner plus liveness and readiness endpoints.
func RegisterHealthRoutes(app *fiber.App, d Deps) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": d.Cfg.AppName + " API is running",
		})
	})
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
	app.Get("/healthz", func(c *fiber.Ctx) error {
		deps := infra.Health(c.UserContext(), d.DB, d.Cache)
		status := http.StatusOK
		if !infra.Healthy(deps) {
			status = http.StatusServiceUnavailable
		}
		return c.Status(status).JSON(fiber.Map{
			"status":    deps,
			"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		})
	})
}
