package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
	"vehicle-auction/inventory/internal/models/dtos"
	"vehicle-auction/inventory/internal/query"
)

const facetsCacheKey = string(constants.CachePrefixFacets) + "ALL"

// FacetsService computes and caches the filter picker values. Concurrent
// misses share one computation. A computation that overlaps an Invalidate
// is returned to its callers but never cached.
type FacetsService struct {
	store   repositories.ListingStore
	cache   common.CacheInterface
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.MetricsRegistry

	// mu orders Invalidate against the post-compute cache write
	mu         sync.Mutex
	generation uint64
}

func NewFacetsService(store repositories.ListingStore, cache common.CacheInterface, ttl time.Duration, reg *metrics.MetricsRegistry) *FacetsService {
	return &FacetsService{
		store:   store,
		cache:   cache,
		ttl:     ttl,
		metrics: reg,
	}
}

// Get returns cached facets, computing them on a miss
func (s *FacetsService) Get(ctx context.Context) (*dtos.FilterOptions, error) {
	if cached, found := s.cache.Get(ctx, facetsCacheKey); found {
		if facets, ok := common.DecodeCached[dtos.FilterOptions](cached); ok {
			s.observe(true)
			return &facets, nil
		}
	}
	s.observe(false)

	gen := s.currentGeneration()
	v, err, _ := s.group.Do(fmt.Sprintf("%s#%d", facetsCacheKey, gen), func() (interface{}, error) {
		facets, err := s.compute(ctx)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.generation == gen {
			s.cache.Set(ctx, facetsCacheKey, facets, s.ttl)
		} else {
			logging.Debug("Discarding facets computed before invalidation", "generation", gen)
		}
		return facets, nil
	})
	if err != nil {
		return nil, err
	}

	facets := v.(dtos.FilterOptions)
	return &facets, nil
}

// Invalidate drops the cached facets; called after every ingestion run
func (s *FacetsService) Invalidate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.cache.Delete(ctx, facetsCacheKey)
}

func (s *FacetsService) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// Warm recomputes the facets into the cache
func (s *FacetsService) Warm(ctx context.Context) error {
	s.Invalidate(ctx)
	_, err := s.Get(ctx)
	return err
}

func (s *FacetsService) compute(ctx context.Context) (dtos.FilterOptions, error) {
	var facets dtos.FilterOptions
	targets := map[query.Field]*[]string{
		query.FieldMake:          &facets.Makes,
		query.FieldBodyStyle:     &facets.BodyStyles,
		query.FieldLocationCity:  &facets.Locations,
		query.FieldPickupRegion:  &facets.PickupRegions,
		query.FieldExteriorColor: &facets.ExteriorColors,
	}

	for _, field := range query.FacetFields {
		values, err := s.store.Distinct(ctx, field)
		if err != nil {
			return facets, fmt.Errorf("failed to compute %s facet: %w", field, err)
		}
		if values == nil {
			values = []string{}
		}
		*targets[field] = values
	}

	logging.Debug("Facets computed", "makes", len(facets.Makes), "locations", len(facets.Locations))
	return facets, nil
}

func (s *FacetsService) observe(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CacheHitsTotal.WithLabelValues(string(constants.CachePrefixFacets)).Inc()
		return
	}
	s.metrics.CacheMissesTotal.WithLabelValues(string(constants.CachePrefixFacets)).Inc()
}
