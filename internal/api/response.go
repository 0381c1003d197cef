package api

import (
	"encoding/json"
	"net/http"
	"time"

	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/models/dtos/responses"
)

const requestIDHeader = "X-Request-ID"

func respondWithSuccess[T any](w http.ResponseWriter, statusCode int, data *T) {
	respondWithJSON(w, statusCode, responses.APIResponse[T]{
		Status:    string(constants.APIStatusOk),
		Timestamp: time.Now().UTC(),
		RequestID: w.Header().Get(requestIDHeader),
		Data:      data,
	})
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, responses.APIResponse[any]{
		Status:    string(constants.APIStatusError),
		Timestamp: time.Now().UTC(),
		RequestID: w.Header().Get(requestIDHeader),
		Error:     message,
	})
}

// respondWithJSON writes a bare payload. Vehicle and refresh endpoints use
// it directly because their consumers expect those shapes unwrapped.
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Warn("Failed to write response body", "status", statusCode, "error", err)
	}
}
