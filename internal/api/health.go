package api

import (
	"context"
	"net/http"
	"time"

	"vehicle-auction/inventory/internal/models/dtos/responses"
)

const healthCheckTimeout = 3 * time.Second

// HealthCheckHandler handles GET /healthCheck
//
// @Summary Health check
// @Description Pings the listing store and the facet cache.
// @Tags Misc
// @Success 200 {object} responses.HealthCheckResponse
// @Failure 503 {object} responses.HealthCheckResponse
// @Router /healthCheck [get]
func (h *Handlers) HealthCheckHandler(upSince time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		services := make(map[string]responses.ServiceStatus)

		store := h.deps.Repo.Listings
		storeStatus := responses.ServiceStatus{Status: "ok", Details: store.Name() + " connected"}
		if err := store.Ping(ctx); err != nil {
			storeStatus = responses.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["store"] = storeStatus

		cache := h.deps.Services.Cache
		cacheStatus := responses.ServiceStatus{Status: "ok", Details: cache.Name()}
		if err := cache.Ping(ctx); err != nil {
			cacheStatus = responses.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["cache"] = cacheStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		respondWithJSON(w, code, responses.HealthCheckResponse{
			Status:           overallStatus,
			Services:         services,
			UpSince:          upSince,
			Uptime:           time.Since(upSince).Round(time.Second).String(),
			IngestionRunning: h.deps.Ingestion.Running(),
		})
	}
}
