package stub

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/tutorhub-client/internal/config"
	"github.com/spec-kit/tutorhub-client/internal/domain"
)

// New assembles the stub API as a fiber app rooted at /api. The same app
// backs cmd/stubd and the integration tests.
func New(cfg config.StubConfig, logger *zap.Logger) (*fiber.App, *Store) {
	store := NewStore()
	tokens := NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTL())

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	registerMiddlewares(app, logger)
	registerRoutes(app, routeConfig{
		Auth:         NewAuthHandler(store, tokens, cfg.RefreshTokenTTL()),
		Profiles:     NewProfilesHandler(store),
		Availability: NewAvailabilityHandler(store),
		Bookings:     NewBookingsHandler(store),
		Payments:     NewPaymentsHandler(store),
		Tokens:       tokens,
	})
	return app, store
}

type routeConfig struct {
	Auth         *AuthHandler
	Profiles     *ProfilesHandler
	Availability *AvailabilityHandler
	Bookings     *BookingsHandler
	Payments     *PaymentsHandler
	Tokens       *TokenManager
}

func registerRoutes(app *fiber.App, cfg routeConfig) {
	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/refresh-token", cfg.Auth.Refresh)

	authed := RequireAuth(cfg.Tokens)

	students := api.Group("/students", authed, RequireRole(domain.RoleStudent))
	students.Get("/me", cfg.Profiles.MyStudent)
	students.Put("/me", cfg.Profiles.UpdateMyStudent)

	api.Get("/teachers", cfg.Profiles.List)
	api.Get("/teachers/me", authed, RequireRole(domain.RoleTeacher), cfg.Profiles.MyTeacher)
	api.Put("/teachers/me", authed, RequireRole(domain.RoleTeacher), cfg.Profiles.UpdateMyTeacher)
	api.Get("/teachers/:id", cfg.Profiles.Get)

	api.Get("/availability/teacher/:id", cfg.Availability.Open)
	api.Get("/availability/:teacherId", authed, cfg.Availability.List)
	api.Post("/availability/:teacherId", authed, RequireRole(domain.RoleTeacher), cfg.Availability.Add)

	bookings := api.Group("/bookings", authed)
	bookings.Post("/", RequireRole(domain.RoleStudent), cfg.Bookings.Create)
	bookings.Get("/student/:id", RequireRole(domain.RoleStudent, domain.RoleAdmin), cfg.Bookings.ByStudent)
	bookings.Get("/teacher/:id", RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Bookings.ByTeacher)
	bookings.Delete("/teacher/:id", RequireRole(domain.RoleTeacher), cfg.Bookings.CancelAllForTeacher)
	bookings.Put("/:id/complete", RequireRole(domain.RoleTeacher), cfg.Bookings.Complete)
	bookings.Delete("/:id", cfg.Bookings.Cancel)

	stripe := api.Group("/stripe", authed)
	stripe.Post("/create-checkout-session/:bookingId", RequireRole(domain.RoleStudent), cfg.Payments.CreateCheckoutSession)
	stripe.Get("/success/:bookingId", cfg.Payments.Success)
	stripe.Get("/cancel/:bookingId", cfg.Payments.Cancel)
	stripe.Get("/payments/teacher/:id", RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Payments.ByTeacher)

	api.Get("/payments/student/:id", authed, RequireRole(domain.RoleStudent, domain.RoleAdmin), cfg.Payments.ByStudent)
	api.Get("/teacher-dashboard/:id/stats", authed, RequireRole(domain.RoleTeacher, domain.RoleAdmin), cfg.Payments.TeacherStats)
}
