package api

import (
	"net/http"

	"vehicle-auction/inventory/internal/services"
)

// ListAuctions handles GET /api/v1/auctions?status=&location=&region=
//
// @Summary Auction sites
// @Description Pickup locations of stored listings with vehicle counts. status is live or listed.
// @Tags vehicles
// @Produce json
// @Param status query string false "live or listed"
// @Param location query string false "Substring of \"City, ST\""
// @Param region query string false "Pickup region"
// @Success 200 {object} responses.APIResponse[dtos.AuctionSitesResponse]
// @Failure 400 {object} responses.APIResponse[any]
// @Failure 503 {object} responses.APIResponse[any]
// @Router /api/v1/auctions [get]
func (h *Handlers) ListAuctions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		sites, err := h.deps.Services.Auctions.List(r.Context(), services.AuctionSiteFilter{
			Status:   params.Get("status"),
			Location: params.Get("location"),
			Region:   params.Get("region"),
		})
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, sites)
	}
}
