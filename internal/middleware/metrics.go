package middleware

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
)

type ctxKey string

// RequestIDKey is the context key holding the request id
const RequestIDKey ctxKey = "request_id"

// MetricsMiddleware records HTTP metrics for each request
func MetricsMiddleware(metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// Route pattern is only known once chi has matched the route
			routePattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				routePattern = rctx.RoutePattern()
			}

			duration := time.Since(start).Seconds()
			statusCode := strconv.Itoa(wrapped.statusCode)

			metricsReg.HTTPRequestsTotal.WithLabelValues(
				routePattern,
				r.Method,
				statusCode,
			).Inc()

			metricsReg.HTTPRequestDuration.WithLabelValues(
				routePattern,
				r.Method,
			).Observe(duration)

			logRequest(r, routePattern, wrapped.statusCode, duration)
		})
	}
}

// quietRoutes are polled by probes and scrapers; they log at debug on success
var quietRoutes = map[string]bool{
	"/healthCheck": true,
	"/metrics":     true,
}

func logRequest(r *http.Request, routePattern string, statusCode int, seconds float64) {
	fields := []interface{}{
		"request_id", RequestIDFromContext(r.Context()),
		"method", r.Method,
		"endpoint", routePattern,
		"status_code", statusCode,
		"duration_ms", int(seconds * 1000),
	}

	switch {
	case statusCode >= http.StatusInternalServerError:
		logging.Error("HTTP request failed", fields...)
	case statusCode >= http.StatusBadRequest:
		logging.Warn("HTTP request rejected", fields...)
	case quietRoutes[routePattern]:
		logging.Debug("HTTP request completed", fields...)
	default:
		logging.Info("HTTP request completed", fields...)
	}
}

// InFlightMiddleware tracks requests currently being served per route group
func InFlightMiddleware(metricsReg *metrics.MetricsRegistry, group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metricsReg.HTTPRequestsInFlight.WithLabelValues(group).Inc()
			defer metricsReg.HTTPRequestsInFlight.WithLabelValues(group).Dec()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware adds a request ID to the context if not present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = "req-" + uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), RequestIDKey, requestID)

		// Add to response header for tracing
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequestIDFromContext returns the request id stored by RequestIDMiddleware
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// statusRecorder captures the status code and body size of a response
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
	written    bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if !r.written {
		r.statusCode = code
		r.written = true
		r.ResponseWriter.WriteHeader(code)
	}
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.written {
		r.statusCode = http.StatusOK
		r.written = true
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}
