package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/models/dtos"
)

// Mocked buyer actions. Nothing is persisted; every call is acknowledged.
const (
	ActionBid             = "bid"
	ActionBuyNow          = "buyNow"
	ActionWatchlistAdd    = "added"
	ActionWatchlistRemove = "removed"
)

var (
	ErrVehicleIDRequired = errors.New("vehicleId is required")
	ErrInvalidBidAmount  = errors.New("invalid bid amount")
	ErrInvalidAction     = errors.New("invalid action")
	ErrNotBuyable        = errors.New("vehicle is not available for buy now")
)

// ActionService acknowledges bids, purchases and watchlist changes
type ActionService struct {
	store repositories.ListingStore
	now   func() time.Time
}

func NewActionService(store repositories.ListingStore) *ActionService {
	return &ActionService{store: store, now: time.Now}
}

// PlaceBid acknowledges a bid on an existing listing
func (s *ActionService) PlaceBid(ctx context.Context, vehicleID string, amount float64) (*dtos.ActionAcknowledgment, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, ErrVehicleIDRequired
	}
	if amount <= 0 {
		return nil, ErrInvalidBidAmount
	}
	if _, err := s.store.GetByID(ctx, vehicleID); err != nil {
		return nil, err
	}

	ack := &dtos.ActionAcknowledgment{
		Success:   true,
		Message:   "Bid placed successfully",
		VehicleID: vehicleID,
		Action:    ActionBid,
		BidID:     "BID-" + uuid.NewString(),
		BidAmount: amount,
		Timestamp: s.now().UTC(),
	}
	logging.Info("Mock bid placed", "vehicle_id", vehicleID, "amount", amount, "bid_id", ack.BidID)
	return ack, nil
}

// Act dispatches a per-vehicle action ("bid" or "buyNow")
func (s *ActionService) Act(ctx context.Context, vehicleID string, req dtos.VehicleActionRequest) (*dtos.ActionAcknowledgment, error) {
	switch req.Action {
	case ActionBid:
		return s.PlaceBid(ctx, vehicleID, req.Amount)
	case ActionBuyNow:
		return s.buyNow(ctx, vehicleID)
	default:
		return nil, ErrInvalidAction
	}
}

func (s *ActionService) buyNow(ctx context.Context, vehicleID string) (*dtos.ActionAcknowledgment, error) {
	listing, err := s.store.GetByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	if !listing.Buyable || listing.BuyNowPrice <= 0 {
		return nil, ErrNotBuyable
	}

	logging.Info("Mock purchase", "vehicle_id", vehicleID, "price", listing.BuyNowPrice)
	return &dtos.ActionAcknowledgment{
		Success:       true,
		Message:       "Vehicle purchased successfully",
		VehicleID:     vehicleID,
		Action:        ActionBuyNow,
		PurchasePrice: listing.BuyNowPrice,
		Timestamp:     s.now().UTC(),
	}, nil
}

// Watch acknowledges adding (add=true) or removing a watchlist entry
func (s *ActionService) Watch(ctx context.Context, vehicleID string, add bool) (*dtos.ActionAcknowledgment, error) {
	vehicleID = strings.TrimSpace(vehicleID)
	if vehicleID == "" {
		return nil, ErrVehicleIDRequired
	}

	ack := &dtos.ActionAcknowledgment{
		Success:   true,
		Message:   "Vehicle removed from watchlist",
		VehicleID: vehicleID,
		Action:    ActionWatchlistRemove,
		Timestamp: s.now().UTC(),
	}
	if add {
		ack.Message = "Vehicle added to watchlist"
		ack.Action = ActionWatchlistAdd
	}
	return ack, nil
}
