package routes

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/smarttest/internal/config"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/smarttest/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth       *handlers.AuthHandler
	Health     *handlers.HealthHandler
	Users      *handlers.UserHandler
	Macroareas *handlers.MacroareaHandler
	Tests      *handlers.TestHandler
	Tasks      *handlers.TaskHandler
	Audit      *handlers.AuditHandler
}

func Setup(
	app *fiber.App,
	cfg *config.Config,
	sessions middleware.SessionParser,
	users middleware.UserLookup,
	policy services.RolePolicy,
	h Handlers,
) {
	api := app.Group("/api")

	// General API rate limiter, per IP
	if cfg.RateLimit > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:               cfg.RateLimit,
			Expiration:        1 * time.Minute,
			LimiterMiddleware: limiter.SlidingWindow{},
			KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		}))
	}

	api.Get("/health", h.Health.Check)

	session := middleware.Session(cfg.JWTSecret, sessions, users, policy, cfg.DevRoleOverrideAllowed())
	admin := middleware.AdminRequired()

	// Auth: stricter limit on the public credential endpoints
	auth := api.Group("/auth")
	public := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	auth.Post("/callback", public, h.Auth.Callback)
	if cfg.LocalAuthEnabled {
		auth.Post("/signup", public, h.Auth.Signup)
		auth.Post("/login", public, h.Auth.Login)
	}
	auth.Get("/me", append(session, h.Auth.Me)...)

	usersGroup := api.Group("/users", append(session, admin)...)
	usersGroup.Get("/", h.Users.List)
	usersGroup.Get("/stats", h.Users.Stats)
	usersGroup.Put("/:id/role", middleware.StoredAdminRequired(), h.Users.UpdateRole)

	macroareas := api.Group("/macroareas", session...)
	macroareas.Get("/", h.Macroareas.List)
	macroareas.Get("/stats", h.Macroareas.Stats)
	macroareas.Get("/:id", h.Macroareas.Get)
	macroareas.Post("/", admin, h.Macroareas.Create)
	macroareas.Put("/:id", admin, h.Macroareas.Update)
	macroareas.Delete("/:id", admin, h.Macroareas.Delete)

	tests := api.Group("/tests", session...)
	tests.Get("/", h.Tests.List)
	tests.Get("/mine", h.Tests.Mine)
	tests.Post("/", h.Tests.Create)
	tests.Get("/:id", h.Tests.Get)
	tests.Get("/:id/full", h.Tests.Full)
	tests.Put("/:id/status", h.Tests.UpdateStatus)
	tests.Get("/:id/tasks", h.Tests.Tasks)
	tests.Post("/:id/tasks", h.Tests.AddTask)

	tasks := api.Group("/tasks", session...)
	tasks.Get("/stats", h.Tasks.Stats)
	tasks.Post("/preview-status", h.Tasks.PreviewStatus)
	tasks.Put("/:id/status", h.Tasks.UpdateStatus)
	tasks.Put("/:id/notes", h.Tasks.UpdateNotes)
	tasks.Patch("/:id", h.Tasks.Update)
	tasks.Delete("/:id", h.Tasks.Delete)

	api.Get("/audit-logs", append(session, admin, h.Audit.List)...)
}
