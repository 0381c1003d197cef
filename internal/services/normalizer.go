package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// ErrNotAnObject is returned for search items that are not JSON objects
var ErrNotAnObject = errors.New("listing record is not a JSON object")

const (
	sourceTimeLayout  = "2006-01-02T15:04:05"
	displayTimeLayout = "3:04 PM"
)

// Normalizer maps raw source records to listings. The clock and the
// synthetic id generator are injected so the mapping is deterministic.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

// NewNormalizer creates a normalizer using the wall clock and random ids
func NewNormalizer() *Normalizer {
	return NewNormalizerWith(time.Now, func() string {
		return "vehicle_" + uuid.NewString()
	})
}

// NewNormalizerWith creates a normalizer with a fixed clock and id generator
func NewNormalizerWith(now func() time.Time, newID func() string) *Normalizer {
	return &Normalizer{now: now, newID: newID}
}

// DecodeRawListing decodes one search item. Field-level type mismatches are
// tolerated; only non-object records fail.
func DecodeRawListing(item json.RawMessage) (dtos.RawListing, error) {
	var raw dtos.RawListing
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return raw, ErrNotAnObject
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return raw, fmt.Errorf("decode listing record: %w", err)
	}
	return raw, nil
}

// Normalize maps one raw record to a listing with derived fields filled in
func (n *Normalizer) Normalize(raw dtos.RawListing, colorMap map[string]string) gormModels.Listing {
	now := n.now()

	vin := raw.VIN.String()
	id := vin
	if id == "" {
		id = n.newID()
	}
	vinURL := ""
	if vin != "" {
		vinURL = fmt.Sprintf(constants.VINDetailURLFormat, vin)
	}

	models := nonNil(raw.Models)
	model := ""
	if len(models) > 0 {
		model = models[0]
	}

	bodyStyle := raw.BodyType.String()
	if bodyStyle == "" {
		bodyStyle = raw.BodyStyle.String()
	}

	buyNow := raw.BuyNowPrice.Or(0)
	bidPrice := raw.BidPrice.Or(buyNow)
	buyable := buyNow > 0
	if raw.Buyable.Set {
		buyable = raw.Buyable.Value
	}

	grade := raw.ConditionGradeNumeric.Or(0)
	delta := ValuationDelta(raw.MMRPrice, raw.BuyNowPrice)
	deltaSort := 0.0
	if delta != nil {
		deltaSort = *delta
	}

	titleBrandings := nonNil(raw.TitleBrandings)
	if len(titleBrandings) == 0 {
		titleBrandings = []string{"Clean"}
	}

	status := constants.DefaultListingStatus
	if len(raw.Statuses) > 0 {
		status = raw.Statuses[0]
	}

	return gormModels.Listing{
		ID:       id,
		VIN:      vin,
		VINURL:   vinURL,
		Source:   raw.Source.String(),
		SaleDate: raw.SaleDate.String(),

		Year:          int(raw.Year),
		Make:          raw.Make.String(),
		Model:         model,
		Models:        datatypes.JSONSlice[string](models),
		Trims:         datatypes.JSONSlice[string](nonNil(raw.Trims)),
		BodyStyle:     bodyStyle,
		ExteriorColor: ExteriorColorNames(raw.ExteriorColorIDs, colorMap),
		Odometer:      int(raw.Odometer),

		SellerName:      raw.SellerName.String(),
		SellerTypes:     datatypes.JSONSlice[string](nonNil(raw.SellerTypes)),
		LocationCity:    raw.PickupLocationCity.String(),
		LocationState:   raw.PickupLocationState.String(),
		LocationZipcode: raw.PickupLocationZipcode.String(),
		PickupRegion:    raw.PickupRegion.String(),

		BidPrice:         bidPrice,
		BuyNowPrice:      buyNow,
		MMRPrice:         raw.MMRPrice.Ptr(),
		Buyable:          buyable,
		AtAuction:        raw.AtAuction.IsTrue(),
		AuctionStartTime: raw.AuctionStartTime.String(),
		AuctionEndTime:   raw.AuctionEndTime.String(),
		DisplayTime:      DisplayTime(raw.AuctionStartTime.String()),

		ValuationDelta:     delta,
		ValuationDeltaSort: deltaSort,
		DealScore:          DealScore(deltaSort, grade),

		ConditionGrade:          grade,
		TitleBrandings:          datatypes.JSONSlice[string](titleBrandings),
		Salvage:                 raw.SalvageVehicle.IsTrue() || raw.Salvage.IsTrue(),
		ConditionReportURL:      raw.ConditionReportURL.String(),
		Comments:                raw.Comments.String(),
		Announcements:           raw.Announcements.String(),
		AdditionalAnnouncements: raw.AdditionalAnnouncements.String(),

		Images: datatypes.JSONSlice[gormModels.ImageDescriptor](NormalizeImages(raw.Images)),

		DaysOnMarket:    DaysSince(raw.ListedAt.String(), now),
		ViewCount:       int(raw.ViewCount),
		BidCount:        int(raw.BidCount),
		Status:          status,
		LastPriceUpdate: raw.UpdatedAt.String(),
		ImportedAt:      now.UTC(),
		APISource:       constants.APISourceTag,
	}
}

// ValuationDelta is mmr - buyNow, or nil when either price is missing
func ValuationDelta(mmr, buyNow common.FlexFloat) *float64 {
	if !mmr.Valid || !buyNow.Valid {
		return nil
	}
	delta := mmr.Value - buyNow.Value
	return &delta
}

// DealScore ranks listings: every $1000 below market is worth one condition grade
func DealScore(deltaSort, conditionGrade float64) float64 {
	return deltaSort/1000 + conditionGrade
}

// ExteriorColorNames resolves color ids through the taxonomy; unknown ids are skipped
func ExteriorColorNames(ids []string, colorMap map[string]string) string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name := colorMap[id]; name != "" {
			names = append(names, name)
		}
	}
	return strings.Join(names, ", ")
}

// parseSourceTime reads the first 19 characters of ts as a UTC timestamp
func parseSourceTime(ts string) (time.Time, bool) {
	ts = strings.TrimSpace(ts)
	if len(ts) < len(sourceTimeLayout) {
		return time.Time{}, false
	}
	prefix := strings.Replace(ts[:len(sourceTimeLayout)], " ", "T", 1)
	t, err := time.ParseInLocation(sourceTimeLayout, prefix, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DisplayTime renders an auction start time in the fixed display zone, or "" when malformed
func DisplayTime(ts string) string {
	t, ok := parseSourceTime(ts)
	if !ok {
		return ""
	}
	return t.Add(constants.DisplayTimeOffsetHours * time.Hour).Format(displayTimeLayout)
}

// DaysSince returns whole days between ts and now, 0 when ts is absent or in the future
func DaysSince(ts string, now time.Time) int {
	t, ok := parseSourceTime(ts)
	if !ok {
		return 0
	}
	days := int(now.UTC().Sub(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
