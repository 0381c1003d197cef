package repositories

import (
	"context"
	"errors"
	"time"

	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

var (
	// ErrStoreUnavailable wraps every backend failure on the read path
	ErrStoreUnavailable = errors.New("listing store unavailable")
	// ErrListingNotFound is returned by GetByID
	ErrListingNotFound = errors.New("listing not found")
)

// InsertResult counts the outcome of one unordered batch insert
type InsertResult struct {
	Inserted   int
	Duplicates int
}

// Add accumulates another batch result
func (r *InsertResult) Add(other InsertResult) {
	r.Inserted += other.Inserted
	r.Duplicates += other.Duplicates
}

// ListingStore is the persisted listing collection. Implementations: gorm
// (postgres, sqlite), mongo and the in-memory fixture store.
type ListingStore interface {
	// Name identifies the backend in logs and health checks
	Name() string
	// Reset deletes every listing and (re)creates the unique indexes
	Reset(ctx context.Context) error
	// InsertBatch inserts listings unordered. Records whose VIN or id already
	// exist, in the store or earlier in the batch, count as duplicates.
	InsertBatch(ctx context.Context, listings []gormModels.Listing) (InsertResult, error)
	// Find returns one page of matching listings and the total match count
	Find(ctx context.Context, preds []query.Predicate, sort query.SortKey, offset, limit int) ([]gormModels.Listing, int64, error)
	// Distinct returns the non-empty distinct values of field, sorted ascending
	Distinct(ctx context.Context, field query.Field) ([]string, error)
	// GetByID looks a listing up by id or VIN
	GetByID(ctx context.Context, id string) (*gormModels.Listing, error)
	Count(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// dedupeBatch drops records whose VIN or id repeats an earlier record in
// the same batch and reports how many were dropped
func dedupeBatch(listings []gormModels.Listing) ([]gormModels.Listing, int) {
	seenVIN := make(map[string]struct{}, len(listings))
	seenID := make(map[string]struct{}, len(listings))
	unique := make([]gormModels.Listing, 0, len(listings))

	for _, l := range listings {
		if _, dup := seenID[l.ID]; dup {
			continue
		}
		if l.VIN != "" {
			if _, dup := seenVIN[l.VIN]; dup {
				continue
			}
			seenVIN[l.VIN] = struct{}{}
		}
		seenID[l.ID] = struct{}{}
		unique = append(unique, l)
	}
	return unique, len(listings) - len(unique)
}

func unavailable(op string, err error) error {
	return &StoreError{Op: op, Err: err}
}

// StoreError carries the failing operation and matches ErrStoreUnavailable
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return "listing store " + e.Op + ": " + e.Err.Error()
}

func (e *StoreError) Unwrap() []error {
	return []error{ErrStoreUnavailable, e.Err}
}

// storeObserver records store operation metrics; a nil registry is a no-op
type storeObserver struct {
	metrics *metrics.MetricsRegistry
}

func (o storeObserver) observe(op string, start time.Time, err error) {
	if o.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	o.metrics.StoreQueriesTotal.WithLabelValues(op, outcome).Inc()
	o.metrics.StoreQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
