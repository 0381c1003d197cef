package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/jobs"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/query"
	"vehicle-auction/inventory/internal/services"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// decodeOptionalJSON decodes r's body into v. An empty body is not an error.
func decodeOptionalJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	var queryErr *query.QueryError
	var sellerErr *services.UnknownSellerTypesError

	switch {
	case errors.As(err, &queryErr), errors.As(err, &sellerErr):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrVehicleIDRequired),
		errors.Is(err, services.ErrInvalidBidAmount),
		errors.Is(err, services.ErrInvalidAction),
		errors.Is(err, services.ErrMarketMakeRequired),
		errors.Is(err, services.ErrInvalidAuctionStatus):
		return http.StatusBadRequest
	case errors.Is(err, repositories.ErrListingNotFound):
		return http.StatusNotFound
	case errors.Is(err, jobs.ErrRunInProgress), errors.Is(err, services.ErrNotBuyable):
		return http.StatusConflict
	case errors.Is(err, repositories.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondWithServiceError writes the error envelope for err. Server-side
// failures are logged and their details withheld.
func respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()

	switch status {
	case http.StatusServiceUnavailable:
		logging.Error("Listing store unavailable", "path", r.URL.Path, "error", err)
		message = repositories.ErrStoreUnavailable.Error()
	case http.StatusInternalServerError:
		logging.Error("Request failed", "path", r.URL.Path, "error", err)
		message = "internal server error"
	}
	respondWithError(w, status, message)
}
