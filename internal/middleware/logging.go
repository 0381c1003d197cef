package middleware

import (
	"net/http"
	"time"

	"vehicle-auction/inventory/internal/logging"
)

// Logging emits debug-level request/response lines with the raw query
// string, which is where listing filters live. Mounted outside production.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logging.WithRequest(RequestIDFromContext(r.Context()), r.URL.Path)
		log.Debugw("Request received", "method", r.Method, "query", r.URL.RawQuery, "remote", r.RemoteAddr)

		rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		log.Debugw("Response sent",
			"status", rec.statusCode,
			"bytes", rec.bytes,
			"duration", time.Since(start).String(),
		)
	})
}
