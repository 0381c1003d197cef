package dtos

import (
	"time"

	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// FilterOptions are the distinct values offered in filter pickers
type FilterOptions struct {
	Makes          []string `json:"makes"`
	BodyStyles     []string `json:"bodyStyles"`
	Locations      []string `json:"locations"`
	PickupRegions  []string `json:"pickupRegions"`
	ExteriorColors []string `json:"exteriorColors"`
}

// VehiclesResponse is one page of a listing query
type VehiclesResponse struct {
	Vehicles      []gormModels.Listing `json:"vehicles"`
	Total         int64                `json:"total"`
	Page          int                  `json:"page"`
	TotalPages    int                  `json:"totalPages"`
	FilterOptions *FilterOptions       `json:"filterOptions,omitempty"`
}

// ---- MOCK ACTIONS ----

type PlaceBidRequest struct {
	VehicleID string  `json:"vehicleId"`
	BidAmount float64 `json:"bidAmount"`
}

type VehicleActionRequest struct {
	Action string  `json:"action"`
	Amount float64 `json:"amount"`
}

type WatchlistRequest struct {
	VehicleID string `json:"vehicleId"`
}

// ActionAcknowledgment is the synthetic reply of every mocked action
type ActionAcknowledgment struct {
	Success       bool      `json:"success"`
	Message       string    `json:"message"`
	VehicleID     string    `json:"vehicleId"`
	Action        string    `json:"action"`
	BidID         string    `json:"bidId,omitempty"`
	BidAmount     float64   `json:"bidAmount,omitempty"`
	PurchasePrice float64   `json:"purchasePrice,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ---- MARKET ANALYSIS ----

type VehicleInfo struct {
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year,omitempty"`
}

type PriceAnalysis struct {
	AverageBuyNowPrice float64 `json:"averageBuyNowPrice"`
	AverageMMRValue    float64 `json:"averageMmrValue"`
	AverageDelta       float64 `json:"averageValuationDelta"`
	MedianBuyNowPrice  float64 `json:"medianBuyNowPrice"`
	SampleSize         int     `json:"sampleSize"`
	ValuedSampleSize   int     `json:"valuedSampleSize"`
	PercentVsMarket    float64 `json:"percentVsMarket"`
}

type RegionPricing struct {
	Region   string  `json:"region"`
	AvgPrice float64 `json:"avgPrice"`
	Count    int     `json:"count"`
}

type ConditionBand struct {
	Grade    string  `json:"grade"`
	AvgPrice float64 `json:"avgPrice"`
	Count    int     `json:"count"`
}

type MarketAnalysisResponse struct {
	VehicleInfo     VehicleInfo     `json:"vehicleInfo"`
	PriceAnalysis   PriceAnalysis   `json:"priceAnalysis"`
	RegionPricing   []RegionPricing `json:"regionPricing"`
	ConditionImpact []ConditionBand `json:"conditionImpact"`
}

// AuctionSite groups stored listings by pickup location
type AuctionSite struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	City             string `json:"city"`
	State            string `json:"state"`
	Region           string `json:"region"`
	Status           string `json:"status"`
	VehicleCount     int    `json:"vehicleCount"`
	AtAuctionCount   int    `json:"atAuctionCount"`
	BuyNowCount      int    `json:"buyNowCount"`
	NextAuctionStart string `json:"nextAuctionStart,omitempty"`
}

type AuctionSitesResponse struct {
	Auctions []AuctionSite `json:"auctions"`
	Total    int           `json:"total"`
}
