package dashboard

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/middleware"
)

// Handler exposes dashboard endpoints.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Mine serves the authenticated user's dashboard.
func (h *Handler) Mine(c *fiber.Ctx) error {
	d, err := h.service.ForUser(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": d})
}

// ByUID serves the dashboard for the :uid Firebase account.
func (h *Handler) ByUID(c *fiber.Ctx) error {
	d, err := h.service.ForUID(c.UserContext(), c.Params("uid"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": d})
}

// PrimarySim serves the authenticated user's primary SIM.
func (h *Handler) PrimarySim(c *fiber.Ctx) error {
	s, err := h.service.PrimarySim(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success": true,
		"sim": SimSummary{
			ID:           s.ID,
			MobileNumber: s.MobileNumber,
			Operator:     s.Operator.String(),
			IsPrimary:    s.IsPrimary,
		},
	})
}
