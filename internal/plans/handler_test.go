package plans

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/logging"
	"github.com/rechargex/rechargex/internal/middleware"
)

func TestHandlerEndpoints(t *testing.T) {
	svc := NewService(NewMemoryRepository(), nil, 0, logging.Discard())
	h := NewHandler(svc)
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler(logging.Discard())})
	app.Get("/plans/:operator", h.ByOperator)
	app.Post("/admin/seed-plans", h.Seed)
	app.Get("/admin/plans/all", h.All)
	app.Delete("/admin/plans/all", h.DeleteAll)

	call := func(method, path string) (int, map[string]any) {
		resp, err := app.Test(httptest.NewRequest(method, path, nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer resp.Body.Close()
		raw, _ := io.ReadAll(resp.Body)
		var out map[string]any
		if err := json.Unmarshal(raw, &out); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
		return resp.StatusCode, out
	}

	if status, _ := call(fiber.MethodPost, "/admin/seed-plans"); status != fiber.StatusCreated {
		t.Fatalf("expected 201 on first seed, got %d", status)
	}
	if status, out := call(fiber.MethodPost, "/admin/seed-plans"); status != fiber.StatusOK || out["count"] != float64(24) {
		t.Fatalf("expected 200 with count on reseed, got %d %v", status, out)
	}

	status, out := call(fiber.MethodGet, "/plans/Vi")
	if status != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	data := out["data"].([]any)
	if len(data) != 6 {
		t.Fatalf("expected 6 Vi plans, got %d", len(data))
	}
	first := data[0].(map[string]any)
	if first["_id"] == "" || first["price"] != float64(269) {
		t.Fatalf("unexpected first plan %v", first)
	}

	if status, out := call(fiber.MethodGet, "/plans/Foo"); status != fiber.StatusBadRequest || out["message"] != "invalid operator" {
		t.Fatalf("expected 400 invalid operator, got %d %v", status, out)
	}

	status, out = call(fiber.MethodGet, "/admin/plans/all")
	if status != fiber.StatusOK || out["count"] != float64(24) {
		t.Fatalf("unexpected all plans %d %v", status, out)
	}
	if grouped := out["plans"].(map[string]any); len(grouped) != 4 {
		t.Fatalf("expected 4 operators, got %d", len(grouped))
	}

	if status, out := call(fiber.MethodDelete, "/admin/plans/all"); status != fiber.StatusOK || out["deletedCount"] != float64(24) {
		t.Fatalf("unexpected delete %d %v", status, out)
	}
}
