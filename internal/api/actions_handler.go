package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"vehicle-auction/inventory/internal/models/dtos"
)

// PlaceBid handles POST /api/v1/vehicles/place-bid
func (h *Handlers) PlaceBid() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.PlaceBidRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ack, err := h.deps.Services.Actions.PlaceBid(r.Context(), req.VehicleID, req.BidAmount)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, ack)
	}
}

// VehicleAction handles POST /api/v1/vehicles/{id} with {action: "bid"|"buyNow", amount}
func (h *Handlers) VehicleAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.VehicleActionRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		ack, err := h.deps.Services.Actions.Act(r.Context(), chi.URLParam(r, "id"), req)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, ack)
	}
}

// Watchlist handles POST (add) and DELETE (remove) on /api/v1/vehicles/watchlist
func (h *Handlers) Watchlist(add bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.WatchlistRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.VehicleID == "" {
			req.VehicleID = r.URL.Query().Get("vehicleId")
		}

		ack, err := h.deps.Services.Actions.Watch(r.Context(), req.VehicleID, add)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, ack)
	}
}
