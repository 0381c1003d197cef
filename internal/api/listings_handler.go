package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vehicle-auction/inventory/internal/query"
)

// ListVehicles handles GET /api/v1/vehicles
//
// @Summary Query listings
// @Description Filters, sorts and paginates stored listings. Facets are included unless the query is narrowed by search, make, body style or location.
// @Tags vehicles
// @Produce json
// @Success 200 {object} dtos.VehiclesResponse
// @Failure 400 {object} responses.APIResponse[any]
// @Failure 503 {object} responses.APIResponse[any]
// @Router /api/v1/vehicles [get]
func (h *Handlers) ListVehicles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		criteria, err := query.ParseCriteria(r.URL.Query())
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}

		resp, err := h.deps.Services.Listings.Query(r.Context(), criteria)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, resp)
	}
}

// GetVehicle handles GET /api/v1/vehicles/{id}; id may be a listing id or a VIN
func (h *Handlers) GetVehicle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		listing, err := h.deps.Services.Listings.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, listing)
	}
}
