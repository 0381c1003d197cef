package services

import (
	"context"
	"fmt"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

// ListingQueryService answers filtered, sorted, paginated listing queries
type ListingQueryService struct {
	store  repositories.ListingStore
	facets *FacetsService
}

func NewListingQueryService(store repositories.ListingStore, facets *FacetsService) *ListingQueryService {
	return &ListingQueryService{store: store, facets: facets}
}

// Query returns one page of listings matching c. Filter options are only
// attached when the query is not narrowed by search, make, body style or
// location.
func (s *ListingQueryService) Query(ctx context.Context, c query.Criteria) (*dtos.VehiclesResponse, error) {
	preds := query.FromCriteria(c)

	listings, total, err := s.store.Find(ctx, preds, c.Sort, c.Offset(), c.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	if listings == nil {
		listings = []gormModels.Listing{}
	}

	resp := &dtos.VehiclesResponse{
		Vehicles:   listings,
		Total:      total,
		Page:       c.Page,
		TotalPages: c.TotalPages(total),
	}

	if !c.Narrowed() && s.facets != nil {
		facets, err := s.facets.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load filter options: %w", err)
		}
		resp.FilterOptions = facets
	}
	return resp, nil
}

// Get returns one listing by id or VIN
func (s *ListingQueryService) Get(ctx context.Context, id string) (*gormModels.Listing, error) {
	return s.store.GetByID(ctx, id)
}
