package services

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/models/dtos"
)

var fixedNow = time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return NewNormalizerWith(
		func() time.Time { return fixedNow },
		func() string { return "vehicle_fixed" },
	)
}

func decodeRaw(t *testing.T, body string) dtos.RawListing {
	t.Helper()
	raw, err := DecodeRawListing(json.RawMessage(body))
	if err != nil {
		t.Fatalf("Failed to decode raw listing: %v", err)
	}
	return raw
}

func TestNormalize_FullRecord(t *testing.T) {
	raw := decodeRaw(t, `{
		"vin": "1HGCM82633A004352",
		"year": "2019",
		"make": "Honda",
		"models": ["Accord", "Accord Hybrid"],
		"trims": ["EX"],
		"bodyType": "Sedan",
		"exteriorColorIds": ["1", "99", "2"],
		"odometer": 42000.4,
		"buyNowPrice": "$18,000",
		"mmrPrice": 20000,
		"conditionGradeNumeric": 4.2,
		"pickupLocationCity": "Dallas",
		"pickupLocationState": "TX",
		"pickupRegion": "Southwest",
		"auctionStartTime": "2025-03-15T18:30:00.000Z",
		"statuses": ["Sold"],
		"listedAt": "2025-03-10T12:00:00Z",
		"images": ["https://img/1.jpg", {"largeUrl": "https://img/2l.jpg", "smallUrl": "https://img/2s.jpg", "sequence": 2, "category": "Exterior"}]
	}`)

	listing := newTestNormalizer().Normalize(raw, map[string]string{"1": "Black", "2": "Silver"})

	if listing.ID != "1HGCM82633A004352" || listing.VIN != listing.ID {
		t.Errorf("Expected id to equal VIN, got id=%s vin=%s", listing.ID, listing.VIN)
	}
	if listing.VINURL != "https://www.ove.com/search/results#/details/1HGCM82633A004352/OVE" {
		t.Errorf("Unexpected vinUrl: %s", listing.VINURL)
	}
	if listing.Year != 2019 || listing.Model != "Accord" || listing.BodyStyle != "Sedan" {
		t.Errorf("Unexpected descriptive fields: %+v", listing)
	}
	if listing.ExteriorColor != "Black, Silver" {
		t.Errorf("Expected 'Black, Silver', got %q", listing.ExteriorColor)
	}
	if listing.Odometer != 42000 {
		t.Errorf("Expected odometer 42000, got %d", listing.Odometer)
	}
	if listing.BuyNowPrice != 18000 || listing.BidPrice != 18000 {
		t.Errorf("Expected buy-now and bid price 18000, got %v/%v", listing.BuyNowPrice, listing.BidPrice)
	}
	if !listing.Buyable {
		t.Error("Expected listing with buy-now price to be buyable")
	}
	if listing.ValuationDelta == nil || *listing.ValuationDelta != 2000 {
		t.Errorf("Expected valuation delta 2000, got %v", listing.ValuationDelta)
	}
	if listing.DealScore != 6.2 {
		t.Errorf("Expected deal score 6.2, got %v", listing.DealScore)
	}
	if listing.DisplayTime != "1:30 PM" {
		t.Errorf("Expected display time 1:30 PM, got %q", listing.DisplayTime)
	}
	if listing.Status != "Sold" {
		t.Errorf("Expected status Sold, got %s", listing.Status)
	}
	if listing.DaysOnMarket != 5 {
		t.Errorf("Expected 5 days on market, got %d", listing.DaysOnMarket)
	}
	if len(listing.TitleBrandings) != 1 || listing.TitleBrandings[0] != "Clean" {
		t.Errorf("Expected default title branding, got %v", listing.TitleBrandings)
	}
	if len(listing.Images) != 2 || listing.Images[1].LargeURL != "https://img/2l.jpg" || *listing.Images[1].Sequence != 2 {
		t.Errorf("Unexpected images: %+v", listing.Images)
	}
	if !listing.ImportedAt.Equal(fixedNow) || listing.APISource != "manheim_live_api" {
		t.Errorf("Unexpected bookkeeping: %v %s", listing.ImportedAt, listing.APISource)
	}
}

func TestNormalize_EmptyRecordUsesDefaults(t *testing.T) {
	listing := newTestNormalizer().Normalize(decodeRaw(t, `{}`), nil)

	if listing.ID != "vehicle_fixed" {
		t.Errorf("Expected synthetic id, got %s", listing.ID)
	}
	if listing.VINURL != "" || listing.Make != "" || listing.Year != 0 {
		t.Errorf("Expected empty defaults, got %+v", listing)
	}
	if listing.Models == nil || len(listing.Models) != 0 {
		t.Errorf("Expected empty non-nil models, got %v", listing.Models)
	}
	if listing.ValuationDelta != nil || listing.ValuationDeltaSort != 0 {
		t.Errorf("Expected unknown delta, got %v/%v", listing.ValuationDelta, listing.ValuationDeltaSort)
	}
	if listing.Status != "Live" {
		t.Errorf("Expected default status Live, got %s", listing.Status)
	}
	if listing.Buyable {
		t.Error("Expected listing without price to not be buyable")
	}
	if listing.DisplayTime != "" || listing.DaysOnMarket != 0 {
		t.Errorf("Expected empty time fields, got %q/%d", listing.DisplayTime, listing.DaysOnMarket)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	body := `{"vin":"A1","buyNowPrice":15000,"mmrPrice":"14000","images":[{"href":"h"},{"weird":true}],"buyable":"false"}`
	n := newTestNormalizer()

	first := n.Normalize(decodeRaw(t, body), map[string]string{})
	second := n.Normalize(decodeRaw(t, body), map[string]string{})

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical output\nfirst:  %+v\nsecond: %+v", first, second)
	}
	if first.Buyable {
		t.Error("Expected explicit buyable=false to win over price")
	}
	if first.ValuationDelta == nil || *first.ValuationDelta != -1000 {
		t.Errorf("Expected delta -1000, got %v", first.ValuationDelta)
	}
}

func TestValuationDelta(t *testing.T) {
	tests := []struct {
		name   string
		mmr    common.FlexFloat
		buyNow common.FlexFloat
		want   *float64
	}{
		{"below market", common.FlexFloat{Value: 20000, Valid: true}, common.FlexFloat{Value: 18000, Valid: true}, floatPtr(2000)},
		{"above market", common.FlexFloat{Value: 15000, Valid: true}, common.FlexFloat{Value: 16500, Valid: true}, floatPtr(-1500)},
		{"missing mmr", common.FlexFloat{}, common.FlexFloat{Value: 18000, Valid: true}, nil},
		{"missing buy-now", common.FlexFloat{Value: 20000, Valid: true}, common.FlexFloat{}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValuationDelta(tt.mmr, tt.buyNow)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("Expected %v, got %v", tt.want, got)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("Expected %v, got %v", *tt.want, *got)
			}
		})
	}
}

func TestDisplayTime(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2025-03-15T18:30:00Z", "1:30 PM"},
		{"2025-03-15T18:30:00.123+00:00", "1:30 PM"},
		{"2025-03-15 02:05:00", "9:05 PM"},
		{"2025-03-15", ""},
		{"not a time at all!!", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := DisplayTime(tt.input); got != tt.want {
			t.Errorf("DisplayTime(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestDecodeRawListing_RejectsNonObjects(t *testing.T) {
	for _, body := range []string{`"vin"`, `42`, `null`, `[]`, ``} {
		if _, err := DecodeRawListing(json.RawMessage(body)); err == nil {
			t.Errorf("Expected error for %q", body)
		}
	}
}

func TestNormalizeImages_Shapes(t *testing.T) {
	var raw dtos.RawImages
	if err := json.Unmarshal([]byte(`[
		"https://a",
		{"url": "https://b"},
		{"href": "https://c"},
		{"src": "https://d"},
		{"largeUrl": "https://e"},
		{"unexpected": 1},
		"",
		null
	]`), &raw); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	images := NormalizeImages(raw)
	if len(images) != 6 {
		t.Fatalf("Expected 6 images, got %d: %+v", len(images), images)
	}
	for i, want := range []string{"https://a", "https://b", "https://c", "https://d", "https://e"} {
		if images[i].LargeURL != want || images[i].SmallURL != want {
			t.Errorf("Image %d: expected %s, got %+v", i, want, images[i])
		}
	}
	if images[5].Raw == nil {
		t.Error("Expected unknown shape to be passed through raw")
	}
}

func floatPtr(v float64) *float64 {
	return &v
}
