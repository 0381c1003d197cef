package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/models/dtos"
)

func TestActionService_PlaceBid(t *testing.T) {
	svc := NewActionService(seededStore(t))
	ctx := context.Background()

	ack, err := svc.PlaceBid(ctx, "1FTFW1E50NFA00001", 36000)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !ack.Success || !strings.HasPrefix(ack.BidID, "BID-") || ack.BidAmount != 36000 {
		t.Errorf("Unexpected acknowledgment: %+v", ack)
	}

	if _, err := svc.PlaceBid(ctx, "1FTFW1E50NFA00001", 0); !errors.Is(err, ErrInvalidBidAmount) {
		t.Errorf("Expected ErrInvalidBidAmount, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, "", 100); !errors.Is(err, ErrVehicleIDRequired) {
		t.Errorf("Expected ErrVehicleIDRequired, got %v", err)
	}
	if _, err := svc.PlaceBid(ctx, "NOPE", 100); !errors.Is(err, repositories.ErrListingNotFound) {
		t.Errorf("Expected ErrListingNotFound, got %v", err)
	}
}

func TestActionService_Act(t *testing.T) {
	svc := NewActionService(seededStore(t))
	ctx := context.Background()

	ack, err := svc.Act(ctx, "1FTFW1E50NFA00001", dtos.VehicleActionRequest{Action: ActionBuyNow})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if ack.PurchasePrice != 38900 || ack.Action != ActionBuyNow {
		t.Errorf("Unexpected purchase acknowledgment: %+v", ack)
	}

	if _, err := svc.Act(ctx, "1FTFW1E50NFA00001", dtos.VehicleActionRequest{Action: "steal"}); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("Expected ErrInvalidAction, got %v", err)
	}
	if _, err := svc.Act(ctx, "1FTFW1E50NFA00001", dtos.VehicleActionRequest{Action: ActionBid, Amount: -5}); !errors.Is(err, ErrInvalidBidAmount) {
		t.Errorf("Expected ErrInvalidBidAmount, got %v", err)
	}
}

func TestActionService_Watch(t *testing.T) {
	svc := NewActionService(repositories.NewListingMemoryRepository())

	added, err := svc.Watch(context.Background(), "A1", true)
	if err != nil || added.Action != ActionWatchlistAdd {
		t.Errorf("Expected added acknowledgment, got %+v (%v)", added, err)
	}
	removed, _ := svc.Watch(context.Background(), "A1", false)
	if removed.Action != ActionWatchlistRemove {
		t.Errorf("Expected removed acknowledgment, got %+v", removed)
	}
	if _, err := svc.Watch(context.Background(), " ", true); !errors.Is(err, ErrVehicleIDRequired) {
		t.Errorf("Expected ErrVehicleIDRequired, got %v", err)
	}
}
