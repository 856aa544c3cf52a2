package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/healthion/healthion-api/internal/config"
	"github.com/healthion/healthion-api/internal/handlers"
	"github.com/healthion/healthion-api/internal/middleware"
	"github.com/healthion/healthion-api/internal/services"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	jwks *services.Auth0JWKSClient,
	userService *services.UserService,
	healthHandler *handlers.HealthHandler,
	userHandler *handlers.UserHandler,
	wearablesHandler *handlers.WearablesHandler,
) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	// Health (no auth required)
	api.Get("/health", healthHandler.Check)

	// Everything under /v1 requires a verified Auth0 token and a resolved
	// local user.
	v1 := api.Group("/v1", middleware.Auth0Protected(jwks), middleware.ResolveUser(cfg, userService))

	v1.Get("/users/me", userHandler.Me)

	wearables := v1.Group("/wearables")
	wearables.Post("/register", wearablesHandler.Register)
	wearables.Get("/providers", wearablesHandler.GetProviders)
	wearables.Get("/authorize/:provider", wearablesHandler.Authorize)
	wearables.Get("/connections", wearablesHandler.GetConnections)
	wearables.Get("/timeseries", wearablesHandler.GetTimeseries)
	wearables.Post("/sync", wearablesHandler.Sync)
	wearables.Get("/workouts", wearablesHandler.GetWorkouts)
	wearables.Get("/events/workouts", wearablesHandler.GetEventWorkouts)
	wearables.Get("/events/sleep", wearablesHandler.GetSleepSessions)
	wearables.Get("/summaries/activity", wearablesHandler.GetActivitySummary)
	wearables.Get("/summaries/sleep", wearablesHandler.GetSleepSummary)
	wearables.Get("/summaries/recovery", wearablesHandler.GetRecoverySummary)
	wearables.Get("/summaries/body", wearablesHandler.GetBodySummary)
	wearables.Get("/workouts/:provider/:workout_id", wearablesHandler.GetWorkoutDetail)
	wearables.Post("/import/apple-health", wearablesHandler.ImportAppleHealth)
	wearables.Get("/series-types", wearablesHandler.GetSeriesTypes)
}
