package query

import (
	"errors"
	"math"
	"net/url"
	"testing"
)

func TestParseCriteria_Defaults(t *testing.T) {
	c, err := ParseCriteria(url.Values{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.Page != 1 || c.Limit != 20 {
		t.Errorf("Expected page 1 limit 20, got page %d limit %d", c.Page, c.Limit)
	}
	if c.Sort != SortCompositeScore {
		t.Errorf("Expected default composite_score sort, got %s", c.Sort)
	}
	if c.Narrowed() {
		t.Error("Expected empty criteria not to be narrowed")
	}
}

func TestParseCriteria_AllParams(t *testing.T) {
	values := url.Values{
		"search":            {"camry"},
		"make":              {"Toyota"},
		"bodyStyle":         {"Sedan"},
		"yearMin":           {"2015"},
		"yearMax":           {"2020"},
		"priceMin":          {"5000"},
		"priceMax":          {"20000.50"},
		"mileageMax":        {"90000"},
		"location":          {"Dallas"},
		"salvageOnly":       {"false"},
		"buyNowOnly":        {"true"},
		"auctionOnly":       {""},
		"conditionMin":      {"2.5"},
		"conditionMax":      {"4.9"},
		"valuationDeltaMin": {"1000"},
		"region":            {"Southwest"},
		"color":             {"blue"},
		"daysOnMarketMin":   {"3"},
		"daysOnMarketMax":   {"30"},
		"sellerTypes":       {"Bank,Lease", "Fleet/Lease"},
		"sort":              {"price_low"},
		"page":              {"3"},
		"limit":             {"50"},
	}

	c, err := ParseCriteria(values)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if c.Search != "camry" || c.Make != "Toyota" || c.BodyStyle != "Sedan" || c.Location != "Dallas" {
		t.Errorf("Unexpected text criteria: %+v", c)
	}
	if *c.YearMin != 2015 || *c.YearMax != 2020 || *c.MileageMax != 90000 {
		t.Errorf("Unexpected integer criteria: %+v", c)
	}
	if *c.PriceMax != 20000.50 || *c.ValuationDeltaMin != 1000 {
		t.Errorf("Unexpected float criteria: %+v", c)
	}
	if c.SalvageOnly || !c.BuyNowOnly || c.AuctionOnly {
		t.Errorf("Unexpected flags: salvage=%v buyNow=%v auction=%v", c.SalvageOnly, c.BuyNowOnly, c.AuctionOnly)
	}
	if len(c.SellerTypes) != 3 || c.SellerTypes[2] != "Fleet/Lease" {
		t.Errorf("Unexpected seller types: %v", c.SellerTypes)
	}
	if c.Sort != SortPriceLow || c.Page != 3 || c.Limit != 50 {
		t.Errorf("Unexpected paging: sort=%s page=%d limit=%d", c.Sort, c.Page, c.Limit)
	}
	if c.Offset() != 100 {
		t.Errorf("Expected offset 100, got %d", c.Offset())
	}
	if !c.Narrowed() {
		t.Error("Expected make/search to narrow the query")
	}
}

func TestParseCriteria_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		param string
		value url.Values
	}{
		{"malformed price", "priceMax", url.Values{"priceMax": {"cheap"}}},
		{"malformed year", "yearMin", url.Values{"yearMin": {"20x5"}}},
		{"unknown sort", "sort", url.Values{"sort": {"random"}}},
		{"zero page", "page", url.Values{"page": {"0"}}},
		{"limit too large", "limit", url.Values{"limit": {"500"}}},
		{"bad flag", "buyNowOnly", url.Values{"buyNowOnly": {"yes"}}},
		{"inverted range", "price", url.Values{"priceMin": {"500"}, "priceMax": {"100"}}},
		{"infinite number", "priceMin", url.Values{"priceMin": {"Inf"}}},
		{"page past addressable range", "page", url.Values{"page": {"100000000000000001"}, "limit": {"100"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCriteria(tt.value)
			if err == nil {
				t.Fatal("Expected error")
			}
			var qErr *QueryError
			if !errors.As(err, &qErr) {
				t.Fatalf("Expected *QueryError, got %T", err)
			}
			if qErr.Param != tt.param {
				t.Errorf("Expected param %s, got %s", tt.param, qErr.Param)
			}
		})
	}
}

func TestCriteria_OffsetSaturates(t *testing.T) {
	c := Criteria{Page: math.MaxInt, Limit: 100}
	if got := c.Offset(); got != math.MaxInt {
		t.Errorf("Expected offset to saturate at MaxInt, got %d", got)
	}

	c, err := ParseCriteria(url.Values{"page": {"92233720368547758"}, "limit": {"100"}})
	if err != nil {
		t.Fatalf("Expected largest addressable page to parse, got %v", err)
	}
	if c.Offset() < 0 {
		t.Errorf("Expected non-negative offset, got %d", c.Offset())
	}
}

func TestCriteria_TotalPages(t *testing.T) {
	c := Criteria{Limit: 20}
	cases := map[int64]int{0: 0, 1: 1, 20: 1, 21: 2, 100: 5}
	for total, want := range cases {
		if got := c.TotalPages(total); got != want {
			t.Errorf("TotalPages(%d) = %d, want %d", total, got, want)
		}
	}
}
