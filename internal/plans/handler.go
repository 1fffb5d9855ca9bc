package plans

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes catalog and maintenance endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a plans handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type planView struct {
	ID       string   `json:"_id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Validity string   `json:"validity"`
	Benefits Benefits `json:"benefits"`
	Operator string   `json:"operator"`
	Popular  bool     `json:"popular"`
	Category Category `json:"category"`
}

func viewsOf(plans []Plan) []planView {
	out := make([]planView, 0, len(plans))
	for _, p := range plans {
		out = append(out, planView{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Validity: p.Validity,
			Benefits: p.Benefits,
			Operator: string(p.Operator),
			Popular:  p.Popular,
			Category: p.Category,
		})
	}
	return out
}

// ByOperator lists active plans for the :operator path parameter.
func (h *Handler) ByOperator(c *fiber.Ctx) error {
	plans, err := h.service.ListByOperator(c.UserContext(), c.Params("operator"))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "data": viewsOf(plans)})
}

// Seed loads the built-in catalog into an empty store.
func (h *Handler) Seed(c *fiber.Ctx) error {
	res, err := h.service.Seed(c.UserContext())
	if err != nil {
		return err
	}
	if !res.Created {
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"success": true,
			"message": "Plans already exist in database",
			"count":   res.Count,
		})
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Plans database seeded successfully",
		"count":   res.Count,
		"plans":   viewsOf(res.Plans),
	})
}

// All lists every plan grouped by operator.
func (h *Handler) All(c *fiber.Ctx) error {
	grouped, count, err := h.service.Grouped(c.UserContext())
	if err != nil {
		return err
	}
	out := make(map[string][]planView, len(grouped))
	for op, plans := range grouped {
		out[string(op)] = viewsOf(plans)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"success": true, "count": count, "plans": out})
}

// DeleteAll removes every plan.
func (h *Handler) DeleteAll(c *fiber.Ctx) error {
	n, err := h.service.Purge(c.UserContext())
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"success":      true,
		"message":      "All plans deleted successfully",
		"deletedCount": n,
	})
}
