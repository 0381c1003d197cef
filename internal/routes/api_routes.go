package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/time/rate"

	"vehicle-auction/inventory/internal/api"
	"vehicle-auction/inventory/internal/middleware"
)

// refreshRateLimit allows one manual ingestion trigger per minute per IP
var refreshRateLimit = rate.Every(time.Minute)

// RegisterAPIRoutes registers all API v1 routes and handlers
func RegisterAPIRoutes(r chi.Router, deps *api.Dependencies, handlers *api.Handlers) {
	refreshLimiter := middleware.NewIPRateLimiter(refreshRateLimit, 2)

	r.Route("/api/v1", func(v1 chi.Router) {
		v1.Use(middleware.InFlightMiddleware(deps.Metrics, "api_v1"))

		v1.Route("/vehicles", func(vehicles chi.Router) {
			vehicles.Get("/", handlers.ListVehicles())

			vehicles.Get("/refresh", handlers.SellerTypes())
			vehicles.With(refreshLimiter.Middleware).Post("/refresh", handlers.TriggerRefresh())

			vehicles.Post("/place-bid", handlers.PlaceBid())
			vehicles.Post("/watchlist", handlers.Watchlist(true))
			vehicles.Delete("/watchlist", handlers.Watchlist(false))

			vehicles.Get("/{id}", handlers.GetVehicle())
			vehicles.Post("/{id}", handlers.VehicleAction())
		})

		v1.Get("/auctions", handlers.ListAuctions())
		v1.Get("/market-analysis", handlers.MarketAnalysis())
		v1.Get("/ingestion/runs", handlers.IngestionRuns())
	})
}
