package routes

import (
	"time"

	"github.com/biolinkbr/backend/internal/config"
	"github.com/biolinkbr/backend/internal/handlers"
	"github.com/biolinkbr/backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	healthHandler *handlers.HealthHandler,
	profileHandler *handlers.ProfileHandler,
	linkHandler *handlers.LinkHandler,
	planHandler *handlers.PlanHandler,
	publicHandler *handlers.PublicHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", healthHandler.Check)

	// Public pages, keyed by username from the URL
	api.Get("/u/:username", publicHandler.Show)

	// Auth — public, with a stricter rate limit: 10 req/min per IP
	auth := api.Group("/auth")
	auth.Use(limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)

	// Protected routes (JWT required) - apply middleware per route so
	// the public routes above stay public
	jwt := middleware.JWTProtected(cfg)
	api.Post("/auth/logout", jwt, authHandler.Logout)
	api.Get("/auth/session", jwt, authHandler.Session)
	api.Delete("/auth/account", jwt, authHandler.DeleteAccount)

	api.Get("/profile", jwt, profileHandler.Get)
	api.Put("/profile", jwt, profileHandler.Update)
	api.Put("/profile/username", jwt, profileHandler.ChangeUsername)

	api.Get("/links", jwt, linkHandler.List)
	api.Post("/links", jwt, linkHandler.Create)
	api.Put("/links/:id", jwt, linkHandler.Update)
	api.Delete("/links/:id", jwt, linkHandler.Delete)

	api.Post("/plan", jwt, planHandler.Change)
}
