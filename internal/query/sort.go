package query

import (
	"sort"

	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// SortKey names a result ordering
type SortKey string

const (
	SortPriceLow           SortKey = "price_low"
	SortPriceHigh          SortKey = "price_high"
	SortConditionGradeLow  SortKey = "condition_grade_low"
	SortConditionGradeHigh SortKey = "condition_grade_high"
	SortDaysOnMarket       SortKey = "days_on_market"
	SortValuationDeltaDesc SortKey = "valuation_delta_desc"
	SortValuationDeltaAsc  SortKey = "valuation_delta_asc"
	SortCompositeScore     SortKey = "composite_score"
)

// SortOrder is the primary ordering of a sort key. Every key tie-breaks on
// VIN ascending so equal scores come back in a fixed order.
type SortOrder struct {
	Field Field
	Desc  bool
}

var sortOrders = map[SortKey]SortOrder{
	SortPriceLow:           {Field: FieldBidPrice},
	SortPriceHigh:          {Field: FieldBidPrice, Desc: true},
	SortConditionGradeLow:  {Field: FieldConditionGrade},
	SortConditionGradeHigh: {Field: FieldConditionGrade, Desc: true},
	SortDaysOnMarket:       {Field: FieldDaysOnMarket, Desc: true},
	// unknown deltas are stored as 0 in the sort column
	SortValuationDeltaDesc: {Field: FieldValuationDeltaSort, Desc: true},
	SortValuationDeltaAsc:  {Field: FieldValuationDeltaSort},
	SortCompositeScore:     {Field: FieldDealScore, Desc: true},
}

// Order returns the ordering for k, falling back to composite score
func (k SortKey) Order() SortOrder {
	if ord, ok := sortOrders[k]; ok {
		return ord
	}
	return sortOrders[SortCompositeScore]
}

// Valid reports whether k is a known sort key
func (k SortKey) Valid() bool {
	_, ok := sortOrders[k]
	return ok
}

// SortListings orders listings in place the same way the stores do
func SortListings(listings []gormModels.Listing, key SortKey) {
	ord := key.Order()
	sort.SliceStable(listings, func(i, j int) bool {
		a := sortValue(&listings[i], ord.Field)
		b := sortValue(&listings[j], ord.Field)
		if a != b {
			if ord.Desc {
				return a > b
			}
			return a < b
		}
		return listings[i].VIN < listings[j].VIN
	})
}

func sortValue(l *gormModels.Listing, f Field) float64 {
	if v, ok := numberValue(l, f); ok {
		return v
	}
	return 0
}
