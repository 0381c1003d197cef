package services

import (
	"context"
	"encoding/json"
	"fmt"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// ListingPipeline turns one page of raw search items into storable listings:
// decode, quality filter, then normalize
type ListingPipeline struct {
	normalizer *Normalizer
}

func NewListingPipeline(normalizer *Normalizer) *ListingPipeline {
	return &ListingPipeline{normalizer: normalizer}
}

// Prepare returns the listings that passed the quality filter together with
// the rawFetched/rejected/normalized counts for the page
func (p *ListingPipeline) Prepare(items []json.RawMessage, colorMap map[string]string) ([]gormModels.Listing, dtos.IngestionCounts) {
	counts := dtos.IngestionCounts{RawFetched: len(items)}
	listings := make([]gormModels.Listing, 0, len(items))

	for _, item := range items {
		raw, err := DecodeRawListing(item)
		if err != nil {
			counts.Rejected++
			continue
		}
		if reason := QualityRejectReason(raw); reason != "" {
			logging.Debug("Listing rejected by quality filter", "vin", raw.VIN.String(), "reason", reason)
			counts.Rejected++
			continue
		}
		listings = append(listings, p.normalizer.Normalize(raw, colorMap))
	}

	counts.Normalized = len(listings)
	return listings, counts
}

// SeedFixtures loads the bundled sample records into store through the
// normal pipeline. Used only when fixtures are explicitly enabled.
func SeedFixtures(ctx context.Context, store repositories.ListingStore, pipeline *ListingPipeline) (dtos.IngestionCounts, error) {
	items, err := repositories.FixtureRecords()
	if err != nil {
		return dtos.IngestionCounts{}, err
	}

	if err := store.Reset(ctx); err != nil {
		return dtos.IngestionCounts{}, fmt.Errorf("failed to reset fixture store: %w", err)
	}

	listings, counts := pipeline.Prepare(items, fixtureColorMap)
	result, err := store.InsertBatch(ctx, listings)
	if err != nil {
		return counts, fmt.Errorf("failed to insert fixtures: %w", err)
	}
	counts.Inserted = result.Inserted
	counts.Duplicates = result.Duplicates
	return counts, nil
}

var fixtureColorMap = map[string]string{
	"1": "Black",
	"2": "Silver",
	"3": "White",
	"4": "Blue",
	"5": "Red",
}
