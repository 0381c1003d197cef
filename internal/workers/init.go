package workers

import (
	"context"
	"time"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/metrics"
)

const storeMonitorInterval = time.Minute

type WorkersContainer struct {
	FacetCache   *FacetCacheWorker
	StoreMonitor *StoreMonitor
}

// InitWorkers starts the background workers. A zero warmPeriod disables
// facet warming.
func InitWorkers(
	ctx context.Context,
	facets FacetWarmer,
	store repositories.ListingStore,
	reg *metrics.MetricsRegistry,
	warmPeriod time.Duration,
) *WorkersContainer {
	container := &WorkersContainer{
		FacetCache:   NewFacetCacheWorker(facets),
		StoreMonitor: NewStoreMonitor(store, reg),
	}

	if warmPeriod > 0 {
		go container.FacetCache.Start(ctx, warmPeriod)
	}
	go container.StoreMonitor.Start(ctx, storeMonitorInterval)

	return container
}
