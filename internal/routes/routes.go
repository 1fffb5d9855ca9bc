package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/rechargex/rechargex/internal/auth"
	"github.com/rechargex/rechargex/internal/config"
	"github.com/rechargex/rechargex/internal/dashboard"
	"github.com/rechargex/rechargex/internal/firebase"
	"github.com/rechargex/rechargex/internal/identity"
	"github.com/rechargex/rechargex/internal/middleware"
	"github.com/rechargex/rechargex/internal/mobile"
	"github.com/rechargex/rechargex/internal/notification"
	"github.com/rechargex/rechargex/internal/onboarding"
	"github.com/rechargex/rechargex/internal/operator"
	"github.com/rechargex/rechargex/internal/payments"
	"github.com/rechargex/rechargex/internal/plans"
	"github.com/rechargex/rechargex/internal/sim"
	"github.com/rechargex/rechargex/internal/usage"
)

// Deps aggregates shared dependencies required to wire routes.
// Verifier and Notifier are optional.
type Deps struct {
	Cfg      config.Config
	DB       *pgxpool.Pool
	Cache    *redis.Client
	Logger   *slog.Logger
	Verifier firebase.Verifier
	Notifier notification.Notifier
}

// Services are the domain services built by Setup.
type Services struct {
	Users      *identity.Service
	Sims       *sim.Service
	Plans      *plans.Service
	Usage      *usage.Service
	Payments   *payments.Service
	Dashboard  *dashboard.Service
	Onboarding *onboarding.Service
}

// Setup configures middlewares and all application routes.
func Setup(app *fiber.App, d Deps) (*Services, error) {
	if !d.Cfg.IsDev() {
		if d.DB == nil {
			return nil, fmt.Errorf("database is required when APP_ENV=%s", d.Cfg.Env)
		}
		if d.Cache == nil {
			return nil, fmt.Errorf("redis is required when APP_ENV=%s", d.Cfg.Env)
		}
	}
	if d.Notifier == nil {
		d.Notifier = notification.NewLoggerNotifier(d.Logger)
	}
	if d.Verifier == nil {
		d.Verifier = firebase.NewRemoteVerifier(context.Background(), d.Cfg.FirebaseProjectID, d.Cfg.FirebaseJWKSURL)
	}

	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(d.Cfg.AllowedOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, Idempotency-Key, X-Admin-Key",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))
	app.Use(middleware.Audit(d.Logger))

	RegisterHealthRoutes(app, d)

	tokens := auth.NewService(d.Cfg)
	svc := buildServices(d, tokens)

	onboardingHandler := onboarding.NewHandler(svc.Onboarding)
	planHandler := plans.NewHandler(svc.Plans)
	paymentHandler := payments.NewHandler(svc.Payments)
	dashboardHandler := dashboard.NewHandler(svc.Dashboard)

	api := app.Group("/api")
	api.Get("/ping", func(c *fiber.Ctx) error {
		reqID := middleware.RequestIDOf(c)
		return c.Status(http.StatusOK).JSON(fiber.Map{
			"status":     "ok",
			"request_id": reqID,
			"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
		})
	})

	// Public routes
	RegisterAuthRoutes(api, onboardingHandler, middleware.LoginRateLimit(d.Cache, d.Cfg.LoginRateLimit))
	api.Post("/onboarding", onboardingHandler.Onboard)
	api.Get("/dashboard/:uid", dashboardHandler.ByUID)

	// Admin routes are registered before the JWT group so they never need a session.
	RegisterAdminRoutes(api.Group("/admin", middleware.AdminKey(d.Cfg.AdminKeyHash)), planHandler)

	// Protected routes
	protected := api.Group("", middleware.JWTAuth(tokens))
	protected.Post("/users/update-mobile", onboardingHandler.UpdateMobile)
	RegisterDashboardRoutes(protected, dashboardHandler)
	RegisterPlanRoutes(protected, planHandler)
	RegisterPaymentRoutes(protected, paymentHandler, middleware.Idempotency(d.Cache, d.Cfg.IdempotencyTTL, d.Logger))

	app.Use(func(c *fiber.Ctx) error {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Route not found"})
	})

	return svc, nil
}

func buildServices(d Deps, tokens *auth.Service) *Services {
	var (
		userRepo    identity.Repository
		simRepo     sim.Repository
		planRepo    plans.Repository
		usageRepo   usage.Repository
		paymentRepo payments.Repository
	)
	if d.DB != nil {
		userRepo = identity.NewPostgresRepository(d.DB)
		simRepo = sim.NewPostgresRepository(d.DB)
		planRepo = plans.NewPostgresRepository(d.DB)
		usageRepo = usage.NewPostgresRepository(d.DB)
		paymentRepo = payments.NewPostgresRepository(d.DB)
	} else {
		userRepo = identity.NewMemoryRepository()
		simRepo = sim.NewMemoryRepository()
		planRepo = plans.NewMemoryRepository()
		usageRepo = usage.NewMemoryRepository()
		paymentRepo = payments.NewMemoryRepository()
	}

	def, err := operator.Parse(d.Cfg.DefaultOperator)
	if err != nil {
		def = operator.Unknown
	}
	validator := mobile.Validator{Strict: d.Cfg.StrictMobile}

	users := identity.NewService(userRepo, d.Logger)
	sims := sim.NewService(simRepo, operator.NewResolver(def), d.Logger)
	usageSvc := usage.NewService(usageRepo)
	paymentSvc := payments.NewService(paymentRepo, sims, payments.StaticGateway{}, validator, d.Notifier, d.Logger)

	onboardingSvc := onboarding.NewService(onboarding.Deps{
		Validator: validator,
		Verifier:  d.Verifier,
		Users:     users,
		Sims:      sims,
		Tokens:    tokens,
		Notifier:  d.Notifier,
		Logger:    d.Logger,
	})

	return &Services{
		Users:      users,
		Sims:       sims,
		Plans:      plans.NewService(planRepo, d.Cache, d.Cfg.PlanCacheTTL, d.Logger),
		Usage:      usageSvc,
		Payments:   paymentSvc,
		Dashboard:  dashboard.NewService(users, sims, usageSvc, paymentSvc),
		Onboarding: onboardingSvc,
	}
}
