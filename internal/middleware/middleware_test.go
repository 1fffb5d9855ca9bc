package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	"github.com/rechargex/rechargex/internal/auth"
	"github.com/rechargex/rechargex/internal/config"
	"github.com/rechargex/rechargex/internal/identity"
)

func TestJWTAuth(t *testing.T) {
	tokens := auth.NewService(config.Config{JWTSecret: "s", SessionTTL: time.Hour})
	app := fiber.New()
	app.Get("/me", JWTAuth(tokens), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c))
	})

	good, err := tokens.Issue(identity.User{ID: "u1"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		header string
		status int
	}{
		{"", fiber.StatusUnauthorized},
		{"Token " + good, fiber.StatusUnauthorized},
		{"Bearer nope", fiber.StatusUnauthorized},
		{"Bearer " + good, fiber.StatusOK},
		{"bearer " + good, fiber.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set(fiber.HeaderAuthorization, tc.header)
		}
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("header %q: expected %d got %d", tc.header, tc.status, resp.StatusCode)
		}
	}
}

func TestAdminKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	enabled := fiber.New()
	enabled.Get("/admin", AdminKey(string(hash)), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	disabled := fiber.New()
	disabled.Get("/admin", AdminKey(""), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	cases := []struct {
		app    *fiber.App
		key    string
		status int
	}{
		{enabled, "", fiber.StatusUnauthorized},
		{enabled, "wrong", fiber.StatusUnauthorized},
		{enabled, "letmein", fiber.StatusNoContent},
		{disabled, "letmein", fiber.StatusForbidden},
	}
	for i, tc := range cases {
		req := httptest.NewRequest(fiber.MethodGet, "/admin", nil)
		if tc.key != "" {
			req.Header.Set(adminKeyHeader, tc.key)
		}
		resp, err := tc.app.Test(req)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("case %d: expected %d got %d", i, tc.status, resp.StatusCode)
		}
	}
}

func TestLoginRateLimit(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer cache.Close()

	app := fiber.New(fiber.Config{ProxyHeader: fiber.HeaderXForwardedFor})
	app.Post("/login", LoginRateLimit(cache, 2), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	send := func(body, ip string) int {
		req := httptest.NewRequest(fiber.MethodPost, "/login", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		req.Header.Set(fiber.HeaderXForwardedFor, ip)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		return resp.StatusCode
	}

	for i := 0; i < 2; i++ {
		if got := send(`{"mobile":"9876543210"}`, "10.0.0.1"); got != fiber.StatusOK {
			t.Fatalf("attempt %d: expected 200 got %d", i+1, got)
		}
	}
	if got := send(`{"mobile":"9876543210"}`, "10.0.0.1"); got != fiber.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", got)
	}
	if got := send(`{"email":"a@b.com"}`, "10.0.0.1"); got != fiber.StatusOK {
		t.Fatalf("other subject should not be limited, got %d", got)
	}
	if got := send(`{"mobile":"9876543210"}`, "10.0.0.2"); got != fiber.StatusOK {
		t.Fatalf("another client must not be locked out of the same number, got %d", got)
	}

	mr.FastForward(time.Minute + time.Second)
	if got := send(`{"mobile":"9876543210"}`, "10.0.0.1"); got != fiber.StatusOK {
		t.Fatalf("expected window to reset, got %d", got)
	}
}

func TestRequestID(t *testing.T) {
	app := fiber.New()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(RequestIDOf(c)) })

	read := func(req *http.Request) (string, string) {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return string(body), resp.Header.Get(fiber.HeaderXRequestID)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-123")
	if local, header := read(req); local != "req-123" || header != "req-123" {
		t.Fatalf("expected echoed id, got local=%q header=%q", local, header)
	}

	local, header := read(httptest.NewRequest(fiber.MethodGet, "/", nil))
	if local == "" || local != header {
		t.Fatalf("expected generated id in locals and header, got local=%q header=%q", local, header)
	}
}
