package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

// Auction site statuses
const (
	AuctionStatusLive   = "Live"
	AuctionStatusListed = "Listed"
)

// ErrInvalidAuctionStatus is returned for a status filter other than live or listed
var ErrInvalidAuctionStatus = errors.New("status must be live or listed")

// AuctionSiteFilter narrows the site list. Empty fields impose no constraint.
type AuctionSiteFilter struct {
	Status   string
	Location string
	Region   string
}

// AuctionSiteService derives the auction site directory from stored
// listings, one site per pickup city and state
type AuctionSiteService struct {
	store repositories.ListingStore
}

func NewAuctionSiteService(store repositories.ListingStore) *AuctionSiteService {
	return &AuctionSiteService{store: store}
}

func (s *AuctionSiteService) List(ctx context.Context, filter AuctionSiteFilter) (*dtos.AuctionSitesResponse, error) {
	status := strings.ToLower(strings.TrimSpace(filter.Status))
	switch status {
	case "", strings.ToLower(AuctionStatusLive), strings.ToLower(AuctionStatusListed):
	default:
		return nil, ErrInvalidAuctionStatus
	}

	preds := query.NewBuilder().
		EqualFold(query.FieldPickupRegion, filter.Region).
		Predicates()

	listings, _, err := s.store.Find(ctx, preds, query.SortCompositeScore, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings for auction sites: %w", err)
	}

	location := strings.ToLower(strings.TrimSpace(filter.Location))
	sites := make([]dtos.AuctionSite, 0)
	for _, site := range groupSites(listings) {
		if status != "" && strings.ToLower(site.Status) != status {
			continue
		}
		if location != "" && !strings.Contains(strings.ToLower(site.Name), location) {
			continue
		}
		sites = append(sites, site)
	}

	return &dtos.AuctionSitesResponse{Auctions: sites, Total: len(sites)}, nil
}

// groupSites buckets listings by city and state, largest site first
func groupSites(listings []gormModels.Listing) []dtos.AuctionSite {
	byKey := make(map[string]*dtos.AuctionSite)

	for _, l := range listings {
		city := strings.TrimSpace(l.LocationCity)
		if city == "" {
			continue
		}
		state := strings.ToUpper(strings.TrimSpace(l.LocationState))
		key := strings.ToLower(city) + "|" + state

		site, ok := byKey[key]
		if !ok {
			site = &dtos.AuctionSite{
				ID:     siteID(city, state),
				Name:   siteName(city, state),
				City:   city,
				State:  state,
				Region: l.PickupRegion,
			}
			byKey[key] = site
		}

		site.VehicleCount++
		if l.AtAuction {
			site.AtAuctionCount++
		}
		if l.Buyable && l.BuyNowPrice > 0 {
			site.BuyNowCount++
		}
		if start, ok := parseSourceTime(l.AuctionStartTime); ok {
			formatted := start.Format("2006-01-02T15:04:05Z")
			if site.NextAuctionStart == "" || formatted < site.NextAuctionStart {
				site.NextAuctionStart = formatted
			}
		}
	}

	sites := make([]dtos.AuctionSite, 0, len(byKey))
	for _, site := range byKey {
		site.Status = AuctionStatusListed
		if site.AtAuctionCount > 0 {
			site.Status = AuctionStatusLive
		}
		sites = append(sites, *site)
	}
	sort.Slice(sites, func(i, j int) bool {
		if sites[i].VehicleCount != sites[j].VehicleCount {
			return sites[i].VehicleCount > sites[j].VehicleCount
		}
		return sites[i].Name < sites[j].Name
	})
	return sites
}

func siteID(city, state string) string {
	slug := strings.ToUpper(strings.Join(strings.Fields(city), "-"))
	if state == "" {
		return slug
	}
	return state + "-" + slug
}

func siteName(city, state string) string {
	if state == "" {
		return city
	}
	return city + ", " + state
}
