package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"vehicle-auction/inventory/internal/jobs"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/middleware"
	"vehicle-auction/inventory/internal/models/dtos"
	"vehicle-auction/inventory/internal/services"
)

const (
	defaultRunHistoryLimit = 20
	maxRunHistoryLimit     = 100
)

// TriggerRefresh handles POST /api/v1/vehicles/refresh
//
// @Summary Trigger ingestion
// @Description Replaces the listing store with a fresh pull from the auction source. Runs synchronously; one run at a time.
// @Tags ingestion
// @Accept json
// @Produce json
// @Param body body dtos.RefreshRequest false "Optional seller types"
// @Success 200 {object} dtos.RefreshResponse
// @Failure 400 {object} dtos.RefreshResponse
// @Failure 409 {object} dtos.RefreshResponse
// @Failure 500 {object} dtos.RefreshResponse
// @Router /api/v1/vehicles/refresh [post]
func (h *Handlers) TriggerRefresh() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req dtos.RefreshRequest
		if err := decodeOptionalJSON(r, &req); err != nil {
			respondWithJSON(w, http.StatusBadRequest, dtos.RefreshResponse{
				Message: "Invalid request body",
				Error:   err.Error(),
			})
			return
		}

		logging.Info("Ingestion manually triggered",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"seller_types", req.SellerTypes,
		)

		// the run outlives a disconnecting client
		report, err := h.deps.Ingestion.Run(context.WithoutCancel(r.Context()), req.SellerTypes)
		if err != nil {
			h.respondRefreshError(w, report, err)
			return
		}

		respondWithJSON(w, http.StatusOK, dtos.RefreshResponse{
			Success:     true,
			Message:     fmt.Sprintf("Successfully fetched and saved %d vehicles", report.Totals.Inserted),
			TotalSaved:  report.Totals.Inserted,
			TotalCount:  report.TotalCount,
			SellerTypes: report.SellerTypes,
			Report:      report,
		})
	}
}

func (h *Handlers) respondRefreshError(w http.ResponseWriter, report *dtos.IngestionReport, err error) {
	var sellerErr *services.UnknownSellerTypesError

	resp := dtos.RefreshResponse{Error: err.Error(), Report: report}
	status := http.StatusInternalServerError

	switch {
	case errors.As(err, &sellerErr):
		status = http.StatusBadRequest
		resp.Message = "Invalid seller types"
	case errors.Is(err, jobs.ErrRunInProgress):
		status = http.StatusConflict
		resp.Message = "An ingestion run is already in progress"
	default:
		logging.Error("Ingestion run failed", "error", err)
		resp.Message = "Failed to fetch and save vehicles"
	}
	respondWithJSON(w, status, resp)
}

// SellerTypes handles GET /api/v1/vehicles/refresh
func (h *Handlers) SellerTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondWithJSON(w, http.StatusOK, services.SellerTypeCatalog())
	}
}

// IngestionRuns handles GET /api/v1/ingestion/runs?limit=
func (h *Handlers) IngestionRuns() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.deps.Repo.Runs == nil {
			respondWithError(w, http.StatusNotImplemented, "run history is only kept by SQL stores")
			return
		}

		limit := defaultRunHistoryLimit
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 || n > maxRunHistoryLimit {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("limit must be between 1 and %d", maxRunHistoryLimit))
				return
			}
			limit = n
		}

		runs, err := h.deps.Repo.Runs.ListRecent(r.Context(), limit)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, &runs)
	}
}
