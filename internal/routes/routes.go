package routes

import (
	"time"

	"github.com/nicolascalev/toptierperk-api/internal/config"
	"github.com/nicolascalev/toptierperk-api/internal/handlers"
	"github.com/nicolascalev/toptierperk-api/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"gorm.io/gorm"
)

func Setup(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authHandler *handlers.AuthHandler,
	businessHandler *handlers.BusinessHandler,
	benefitHandler *handlers.BenefitHandler,
	claimHandler *handlers.ClaimHandler,
	feedbackHandler *handlers.FeedbackHandler,
	webhookHandler *handlers.WebhookHandler,
	healthHandler *handlers.HealthHandler,
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

	// Auth - public, with a stricter rate limit
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

	jwtProtected := middleware.JWTProtected(cfg)
	// freshSession rejects sessions issued before a role/membership change.
	// Session refresh and logout stay reachable with a stale session so the
	// client can recover.
	freshSession := middleware.FreshSessionRequired(db)
	businessAdmin := middleware.BusinessAdminRequired()

	api.Post("/auth/logout", jwtProtected, authHandler.Logout)
	api.Post("/auth/session/refresh", jwtProtected, authHandler.RefreshSession)
	api.Get("/auth/me", jwtProtected, authHandler.Me)

	// Business
	api.Post("/business", jwtProtected, freshSession, businessHandler.Create)
	api.Get("/business/:businessId", jwtProtected, businessHandler.Get)
	api.Patch("/business/:businessId", jwtProtected, freshSession, businessAdmin, businessHandler.Update)
	api.Post("/business/:businessId/join", jwtProtected, freshSession, businessHandler.Join)

	// Employee management - business admin only
	api.Get("/business/:businessId/employees", jwtProtected, freshSession, businessAdmin, businessHandler.Employees)
	api.Patch("/business/:businessId/employee/:employeeId", jwtProtected, freshSession, businessAdmin, businessHandler.SetEmployeeRole)
	api.Delete("/business/:businessId/employee/:employeeId", jwtProtected, freshSession, businessAdmin, businessHandler.RemoveEmployee)

	// Perk catalog from the business's viewpoint
	api.Get("/business/:businessId/benefits", jwtProtected, freshSession, benefitHandler.List)
	api.Get("/business/:businessId/benefits/offers", jwtProtected, freshSession, benefitHandler.ListOffers)

	// Acquire / release - business admin only
	api.Put("/business/:businessId/benefits/:benefitId", jwtProtected, freshSession, businessAdmin, benefitHandler.Acquire)
	api.Delete("/business/:businessId/benefits/:benefitId", jwtProtected, freshSession, businessAdmin, benefitHandler.Release)

	// Business claims and feedback - business admin only
	api.Get("/business/:businessId/claims", jwtProtected, freshSession, businessAdmin, claimHandler.ListForBusiness)
	api.Get("/business/:businessId/feedback", jwtProtected, freshSession, businessAdmin, feedbackHandler.ListForBusiness)

	// Perks
	api.Post("/benefit", jwtProtected, freshSession, benefitHandler.Create)
	api.Get("/benefit/:benefitId", jwtProtected, benefitHandler.Get)
	api.Patch("/benefit/:benefitId", jwtProtected, freshSession, benefitHandler.Update)
	api.Post("/benefit/:benefitId/claim", jwtProtected, freshSession, claimHandler.Create)

	// Claims
	api.Get("/claims", jwtProtected, claimHandler.ListMine)
	api.Post("/claim/:claimId/approve", jwtProtected, freshSession, claimHandler.Approve)

	// Feedback
	api.Post("/feedback", jwtProtected, feedbackHandler.Create)

	// Webhooks - shared-secret auth, no JWT
	api.Post("/webhooks/paypal", webhookHandler.HandlePaypal)
}
