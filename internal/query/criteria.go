package query

import (
	"math"

	"vehicle-auction/inventory/internal/constants"
)

// Criteria is every optional listing filter plus sort and paging. A nil
// pointer, empty string, false flag or empty slice imposes no constraint.
type Criteria struct {
	Search    string
	Make      string
	BodyStyle string

	YearMin *int
	YearMax *int

	PriceMin   *float64
	PriceMax   *float64
	MileageMax *int

	Location string
	Region   string
	Color    string

	SalvageOnly bool
	BuyNowOnly  bool
	AuctionOnly bool

	ConditionMin      *float64
	ConditionMax      *float64
	ValuationDeltaMin *float64

	DaysOnMarketMin *int
	DaysOnMarketMax *int

	SellerTypes []string

	Sort  SortKey
	Page  int
	Limit int
}

// DefaultCriteria is an unfiltered first page in composite-score order
func DefaultCriteria() Criteria {
	return Criteria{
		Sort:  SortCompositeScore,
		Page:  1,
		Limit: constants.DefaultPageSize,
	}
}

// Narrowed reports whether a text, make, body-style or location filter is
// active. Facets are only computed for queries that are not narrowed.
func (c Criteria) Narrowed() bool {
	return c.Search != "" || c.Make != "" || c.BodyStyle != "" || c.Location != ""
}

// Offset is the number of records skipped before the current page. A page
// too far out to address saturates at math.MaxInt.
func (c Criteria) Offset() int {
	if c.Page < 1 || c.Limit < 1 {
		return 0
	}
	if c.Page-1 > math.MaxInt/c.Limit {
		return math.MaxInt
	}
	return (c.Page - 1) * c.Limit
}

// TotalPages is ceil(total/limit)
func (c Criteria) TotalPages(total int64) int {
	if c.Limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(c.Limit) - 1) / int64(c.Limit))
}
