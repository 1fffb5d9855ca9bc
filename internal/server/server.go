package server

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rechargex/rechargex/internal/middleware"
	"github.com/rechargex/rechargex/internal/routes"
)

// Server wraps the Fiber application and the services wired into it.
type Server struct {
	app      *fiber.App
	deps     routes.Deps
	services *routes.Services
}

// New instantiates the HTTP server and delegates route wiring to routes.Setup.
func New(d routes.Deps) (*Server, error) {
	app := fiber.New(fiber.Config{
		AppName:               d.Cfg.AppName,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		DisableStartupMessage: !d.Cfg.IsDev(),
		ErrorHandler:          middleware.ErrorHandler(d.Logger),
	})

	services, err := routes.Setup(app, d)
	if err != nil {
		return nil, err
	}

	return &Server{app: app, deps: d, services: services}, nil
}

// App exposes the Fiber application, mainly for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Services returns the domain services behind the routes.
func (s *Server) Services() *routes.Services {
	return s.services
}

// Listen starts the HTTP server.
func (s *Server) Listen() error {
	return s.app.Listen(s.deps.Cfg.Address())
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
