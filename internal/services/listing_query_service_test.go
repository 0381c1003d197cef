package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

func newQueryService(store repositories.ListingStore) (*ListingQueryService, *FacetsService) {
	facets := NewFacetsService(store, common.NewCacheService(time.Minute, 2*time.Minute), time.Minute, nil)
	return NewListingQueryService(store, facets), facets
}

func TestListingQueryService_DefaultQuery(t *testing.T) {
	svc, _ := newQueryService(seededStore(t))

	resp, err := svc.Query(context.Background(), query.DefaultCriteria())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if resp.Total != 10 || resp.Page != 1 || resp.TotalPages != 1 {
		t.Errorf("Unexpected paging: total=%d page=%d pages=%d", resp.Total, resp.Page, resp.TotalPages)
	}
	if len(resp.Vehicles) != 10 || resp.Vehicles[0].VIN != "1FTFW1E50NFA00001" {
		t.Errorf("Expected best deal first, got %s", resp.Vehicles[0].VIN)
	}
	for i := 1; i < len(resp.Vehicles); i++ {
		if resp.Vehicles[i-1].DealScore < resp.Vehicles[i].DealScore {
			t.Errorf("Composite order broken at %d", i)
		}
	}

	if resp.FilterOptions == nil {
		t.Fatal("Expected filter options on an unnarrowed query")
	}
	if got := strings.Join(resp.FilterOptions.Makes, ","); got != "BMW,Chevrolet,Ford,Honda,Jeep,Nissan,Tesla,Toyota" {
		t.Errorf("Unexpected makes facet: %s", got)
	}
	if got := strings.Join(resp.FilterOptions.PickupRegions, ","); got != "Midwest,Northeast,Southeast,Southwest,West" {
		t.Errorf("Unexpected regions facet: %s", got)
	}
}

func TestListingQueryService_NarrowedQueryOmitsFacets(t *testing.T) {
	svc, _ := newQueryService(seededStore(t))

	narrowing := []query.Criteria{
		{Make: "ford"},
		{Search: "camry"},
		{BodyStyle: "SUV"},
		{Location: "Dallas"},
	}
	for _, c := range narrowing {
		c.Sort, c.Page, c.Limit = query.SortCompositeScore, 1, 20
		resp, err := svc.Query(context.Background(), c)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if resp.FilterOptions != nil {
			t.Errorf("Expected no filter options for %+v", c)
		}
	}

	c := query.DefaultCriteria()
	c.Make = "FORD"
	resp, _ := svc.Query(context.Background(), c)
	if resp.Total != 2 {
		t.Errorf("Expected 2 Ford listings, got %d", resp.Total)
	}

	// region and price filters do not suppress facets
	c = query.DefaultCriteria()
	c.Region = "west"
	resp, _ = svc.Query(context.Background(), c)
	if resp.FilterOptions == nil || resp.Total != 2 {
		t.Errorf("Expected facets and 2 West listings, got total=%d facets=%v", resp.Total, resp.FilterOptions != nil)
	}
}

func TestListingQueryService_Pagination(t *testing.T) {
	svc, _ := newQueryService(seededStore(t))

	c := query.DefaultCriteria()
	c.Limit = 3
	c.Page = 4
	resp, err := svc.Query(context.Background(), c)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if resp.TotalPages != 4 || len(resp.Vehicles) != 1 {
		t.Errorf("Expected last page with 1 vehicle of 4 pages, got %d vehicles, %d pages", len(resp.Vehicles), resp.TotalPages)
	}

	c.Page = 9
	resp, _ = svc.Query(context.Background(), c)
	if resp.Vehicles == nil || len(resp.Vehicles) != 0 {
		t.Errorf("Expected empty non-nil page past the end, got %v", resp.Vehicles)
	}
}

func TestListingQueryService_StoreUnavailable(t *testing.T) {
	svc, _ := newQueryService(&mockListingStore{})

	_, err := svc.Query(context.Background(), query.DefaultCriteria())
	if !errors.Is(err, repositories.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}

func TestFacetsService_CachesAndInvalidates(t *testing.T) {
	var calls int32
	store := &mockListingStore{
		distinctFunc: func(ctx context.Context, field query.Field) ([]string, error) {
			atomic.AddInt32(&calls, 1)
			return []string{string(field)}, nil
		},
		findFunc: func(ctx context.Context, preds []query.Predicate, sort query.SortKey, offset, limit int) ([]gormModels.Listing, int64, error) {
			return nil, 0, nil
		},
	}
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	facets := NewFacetsService(store, common.NewCacheService(time.Minute, 2*time.Minute), time.Minute, reg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := facets.Get(ctx); err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
	}
	if calls != int32(len(query.FacetFields)) {
		t.Errorf("Expected one computation (%d distinct calls), got %d", len(query.FacetFields), calls)
	}
	if hits := testutil.ToFloat64(reg.CacheHitsTotal.WithLabelValues("FACETS_")); hits != 2 {
		t.Errorf("Expected 2 cache hits, got %v", hits)
	}

	facets.Invalidate(context.Background())
	got, _ := facets.Get(ctx)
	if calls != int32(2*len(query.FacetFields)) {
		t.Errorf("Expected recomputation after invalidate, got %d calls", calls)
	}
	if len(got.Makes) != 1 || got.Makes[0] != "make" {
		t.Errorf("Unexpected facets: %+v", got)
	}
}

func TestFacetsService_InvalidateDuringComputeIsNotCached(t *testing.T) {
	var loaded atomic.Bool
	var once sync.Once
	started := make(chan struct{})
	release := make(chan struct{})

	store := &mockListingStore{
		distinctFunc: func(ctx context.Context, field query.Field) ([]string, error) {
			once.Do(func() {
				close(started)
				<-release
			})
			if loaded.Load() {
				return []string{"full"}, nil
			}
			return []string{"partial"}, nil
		},
	}
	facets := NewFacetsService(store, common.NewCacheService(time.Minute, 2*time.Minute), time.Minute, nil)
	ctx := context.Background()

	inFlight := make(chan []string, 1)
	go func() {
		got, err := facets.Get(ctx)
		if err != nil {
			inFlight <- nil
			return
		}
		inFlight <- got.Makes
	}()

	<-started
	// the store finishes loading while the first computation is running
	loaded.Store(true)
	facets.Invalidate(ctx)
	close(release)

	if makes := <-inFlight; len(makes) != 1 || makes[0] != "partial" {
		t.Fatalf("Expected in-flight caller to get its own result, got %v", makes)
	}

	got, err := facets.Get(ctx)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got.Makes) != 1 || got.Makes[0] != "full" {
		t.Errorf("Expected facets recomputed after invalidate, got %v", got.Makes)
	}
}

func TestFacetsService_EmptyStoreGivesEmptyLists(t *testing.T) {
	facets := NewFacetsService(repositories.NewListingMemoryRepository(), common.NewCacheService(time.Minute, 2*time.Minute), time.Minute, nil)

	got, err := facets.Get(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got.Makes == nil || got.ExteriorColors == nil {
		t.Errorf("Expected non-nil empty facet lists, got %+v", got)
	}
}
