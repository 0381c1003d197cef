package workers

import (
	"context"
	"time"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
)

// StoreMonitor periodically pings the listing store and publishes its size
type StoreMonitor struct {
	store   repositories.ListingStore
	metrics *metrics.MetricsRegistry
}

func NewStoreMonitor(store repositories.ListingStore, reg *metrics.MetricsRegistry) *StoreMonitor {
	return &StoreMonitor{store: store, metrics: reg}
}

// Start checks the store immediately, then every interval until ctx ends
func (m *StoreMonitor) Start(ctx context.Context, interval time.Duration) {
	logging.Info("Starting store monitor", "component", "StoreMonitor", "interval", interval, "store", m.store.Name())

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	m.check(ctx)

	for {
		select {
		case <-ctx.Done():
			logging.Info("Shutting down store monitor", "component", "StoreMonitor")
			return
		case <-ticker.C:
			m.check(ctx)
		}
	}
}

func (m *StoreMonitor) check(ctx context.Context) {
	if err := m.store.Ping(ctx); err != nil {
		logging.Error("Listing store unreachable", "component", "StoreMonitor", "store", m.store.Name(), "error", err)
		return
	}

	count, err := m.store.Count(ctx)
	if err != nil {
		logging.Warn("Failed to count listings", "component", "StoreMonitor", "error", err)
		return
	}
	if m.metrics != nil {
		m.metrics.ListingsStored.Set(float64(count))
	}
	logging.Debug("Listing store healthy", "component", "StoreMonitor", "listings", count)
}
