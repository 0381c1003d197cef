package services

import (
	"context"
	"errors"
	"testing"

	"vehicle-auction/inventory/internal/db/repositories"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

var errBackendDown = errors.New("connection refused")

// Mock ListingStore; unset funcs fail as an unavailable backend
type mockListingStore struct {
	findFunc     func(ctx context.Context, preds []query.Predicate, sort query.SortKey, offset, limit int) ([]gormModels.Listing, int64, error)
	distinctFunc func(ctx context.Context, field query.Field) ([]string, error)
	getByIDFunc  func(ctx context.Context, id string) (*gormModels.Listing, error)
}

func (m *mockListingStore) Name() string                   { return "mock" }
func (m *mockListingStore) Reset(ctx context.Context) error { return nil }
func (m *mockListingStore) Ping(ctx context.Context) error  { return nil }

func (m *mockListingStore) InsertBatch(ctx context.Context, listings []gormModels.Listing) (repositories.InsertResult, error) {
	return repositories.InsertResult{Inserted: len(listings)}, nil
}

func (m *mockListingStore) Find(ctx context.Context, preds []query.Predicate, sort query.SortKey, offset, limit int) ([]gormModels.Listing, int64, error) {
	if m.findFunc == nil {
		return nil, 0, &repositories.StoreError{Op: "find", Err: errBackendDown}
	}
	return m.findFunc(ctx, preds, sort, offset, limit)
}

func (m *mockListingStore) Distinct(ctx context.Context, field query.Field) ([]string, error) {
	if m.distinctFunc == nil {
		return nil, &repositories.StoreError{Op: "distinct", Err: errBackendDown}
	}
	return m.distinctFunc(ctx, field)
}

func (m *mockListingStore) GetByID(ctx context.Context, id string) (*gormModels.Listing, error) {
	if m.getByIDFunc == nil {
		return nil, repositories.ErrListingNotFound
	}
	return m.getByIDFunc(ctx, id)
}

func (m *mockListingStore) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

// seededStore returns an in-memory store holding the bundled fixtures
func seededStore(t *testing.T) *repositories.ListingMemoryRepository {
	t.Helper()
	store := repositories.NewListingMemoryRepository()
	if _, err := SeedFixtures(context.Background(), store, NewListingPipeline(newTestNormalizer())); err != nil {
		t.Fatalf("Failed to seed fixtures: %v", err)
	}
	return store
}
