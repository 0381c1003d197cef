package api

import (
	"net/http"
	"strconv"
)

// MarketAnalysis handles GET /api/v1/market-analysis?make=&model=&year=
//
// @Summary Market analysis
// @Description Price aggregates over stored listings of one make, optionally narrowed by model and year.
// @Tags vehicles
// @Produce json
// @Param make query string true "Make"
// @Param model query string false "Model substring"
// @Param year query int false "Model year"
// @Success 200 {object} responses.APIResponse[dtos.MarketAnalysisResponse]
// @Failure 400 {object} responses.APIResponse[any]
// @Router /api/v1/market-analysis [get]
func (h *Handlers) MarketAnalysis() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params := r.URL.Query()

		var year *int
		if raw := params.Get("year"); raw != "" {
			y, err := strconv.Atoi(raw)
			if err != nil {
				respondWithError(w, http.StatusBadRequest, "year must be an integer")
				return
			}
			year = &y
		}

		analysis, err := h.deps.Services.Market.Analyze(r.Context(), params.Get("make"), params.Get("model"), year)
		if err != nil {
			respondWithServiceError(w, r, err)
			return
		}
		respondWithSuccess(w, http.StatusOK, analysis)
	}
}
