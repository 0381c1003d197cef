package repositories

import (
	"context"
	"sort"
	"sync"

	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

// ListingMemoryRepository keeps listings in process memory. It backs the
// USE_FIXTURES mode and evaluates predicates with query.Match.
type ListingMemoryRepository struct {
	mu       sync.RWMutex
	listings []gormModels.Listing
	byID     map[string]int
	byVIN    map[string]int
}

// NewListingMemoryRepository creates an empty in-memory store
func NewListingMemoryRepository() *ListingMemoryRepository {
	return &ListingMemoryRepository{
		byID:  make(map[string]int),
		byVIN: make(map[string]int),
	}
}

func (r *ListingMemoryRepository) Name() string {
	return "memory"
}

func (r *ListingMemoryRepository) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.listings = nil
	r.byID = make(map[string]int)
	r.byVIN = make(map[string]int)
	return nil
}

func (r *ListingMemoryRepository) InsertBatch(ctx context.Context, listings []gormModels.Listing) (InsertResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result InsertResult
	for _, l := range listings {
		if _, dup := r.byID[l.ID]; dup {
			result.Duplicates++
			continue
		}
		if _, dup := r.byVIN[l.VIN]; dup && l.VIN != "" {
			result.Duplicates++
			continue
		}

		idx := len(r.listings)
		r.listings = append(r.listings, l)
		r.byID[l.ID] = idx
		if l.VIN != "" {
			r.byVIN[l.VIN] = idx
		}
		result.Inserted++
	}
	return result, nil
}

func (r *ListingMemoryRepository) Find(ctx context.Context, preds []query.Predicate, key query.SortKey, offset, limit int) ([]gormModels.Listing, int64, error) {
	r.mu.RLock()
	matched := make([]gormModels.Listing, 0, len(r.listings))
	for i := range r.listings {
		if query.Match(&r.listings[i], preds) {
			matched = append(matched, r.listings[i])
		}
	}
	r.mu.RUnlock()

	query.SortListings(matched, key)
	total := int64(len(matched))

	if offset < 0 {
		offset = 0
	}
	if offset >= len(matched) {
		return []gormModels.Listing{}, total, nil
	}
	end := len(matched)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}
	return matched[offset:end], total, nil
}

func (r *ListingMemoryRepository) Distinct(ctx context.Context, field query.Field) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for i := range r.listings {
		if v := scalarText(&r.listings[i], field); v != "" {
			seen[v] = struct{}{}
		}
	}

	values := make([]string, 0, len(seen))
	for v := range seen {
		values = append(values, v)
	}
	sort.Strings(values)
	return values, nil
}

func scalarText(l *gormModels.Listing, field query.Field) string {
	switch field {
	case query.FieldMake:
		return l.Make
	case query.FieldBodyStyle:
		return l.BodyStyle
	case query.FieldLocationCity:
		return l.LocationCity
	case query.FieldPickupRegion:
		return l.PickupRegion
	case query.FieldExteriorColor:
		return l.ExteriorColor
	case query.FieldVIN:
		return l.VIN
	}
	return ""
}

func (r *ListingMemoryRepository) GetByID(ctx context.Context, id string) (*gormModels.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		idx, ok = r.byVIN[id]
	}
	if !ok {
		return nil, ErrListingNotFound
	}
	listing := r.listings[idx]
	return &listing, nil
}

func (r *ListingMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.listings)), nil
}

func (r *ListingMemoryRepository) Ping(ctx context.Context) error {
	return nil
}
