package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/swapitcampus/swapit/internal/auth"
	"github.com/swapitcampus/swapit/internal/handlers"
	"github.com/swapitcampus/swapit/internal/middleware"
	"github.com/swapitcampus/swapit/internal/repositories"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	listingHandler *handlers.ListingHandler,
	tokenManager *auth.TokenManager,
	userRepo *repositories.UserRepository,
	revokeRepo *repositories.TokenRevocationRepository,
) {
	// Edge throttle for unauthenticated auth endpoints. The durable
	// per-identifier login limiter runs inside the auth service.
	rateLimitConfig := middleware.DefaultAuthRateLimit()

	// Public routes - no authentication required
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/login", authHandler.Login)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/register", authHandler.Register)
	router.With(middleware.RateLimitByIP(rateLimitConfig)).Post("/auth/refresh", authHandler.RefreshToken)

	router.Get("/listings", listingHandler.BrowseListings)
	router.Get("/listings/{id}", listingHandler.GetListing)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware(tokenManager, revokeRepo))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/users/me", userHandler.GetMe)
		r.Put("/users/me", userHandler.UpdateMe)
		r.Get("/users/{id}", userHandler.GetUser)

		r.Post("/listings", listingHandler.CreateListing)
		r.Get("/listings/mine", listingHandler.MyListings)
		r.Put("/listings/{id}", listingHandler.UpdateListing)
		r.Delete("/listings/{id}", listingHandler.DeleteListing)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(userRepo, "admin"))
			r.Get("/users", userHandler.ListUsers)
			r.Delete("/users/{id}", userHandler.DeleteUser)
		})
	})
}
