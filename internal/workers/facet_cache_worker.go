package workers

import (
	"context"
	"time"

	"vehicle-auction/inventory/internal/logging"
)

// FacetWarmer recomputes and caches the filter facets
type FacetWarmer interface {
	Warm(ctx context.Context) error
}

// FacetCacheWorker keeps the facet cache populated so the first unfiltered
// listing query after a TTL expiry does not pay for five DISTINCT scans
type FacetCacheWorker struct {
	facets FacetWarmer
}

func NewFacetCacheWorker(facets FacetWarmer) *FacetCacheWorker {
	return &FacetCacheWorker{facets: facets}
}

// Start warms immediately, then every interval until ctx ends
func (w *FacetCacheWorker) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting facet cache worker", "component", "FacetCacheWorker", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.warm(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Shutting down facet cache worker", "component", "FacetCacheWorker")
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

func (w *FacetCacheWorker) warm(ctx context.Context) {
	start := time.Now()
	if err := w.facets.Warm(ctx); err != nil {
		logging.Warn("Facet warm-up failed", "component", "FacetCacheWorker", "error", err)
		return
	}
	logging.Debug("Facets warmed", "component", "FacetCacheWorker", "duration", time.Since(start))
}
