package query

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"vehicle-auction/inventory/internal/constants"
)

// QueryError is a malformed filter, sort or paging parameter
type QueryError struct {
	Param  string
	Value  string
	Reason string
}

func (e *QueryError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Param, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Reason)
}

type parser struct {
	values url.Values
	err    *QueryError
}

// first returns the first non-empty value among the given parameter names
func (p *parser) first(names ...string) (string, string) {
	for _, name := range names {
		if v := strings.TrimSpace(p.values.Get(name)); v != "" {
			return name, v
		}
	}
	return names[0], ""
}

func (p *parser) fail(param, value, reason string) {
	if p.err == nil {
		p.err = &QueryError{Param: param, Value: value, Reason: reason}
	}
}

func (p *parser) floatParam(names ...string) *float64 {
	name, raw := p.first(names...)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(name, raw, "must be a decimal number")
		return nil
	}
	return &v
}

func (p *parser) intParam(names ...string) *int {
	name, raw := p.first(names...)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(name, raw, "must be an integer")
		return nil
	}
	return &v
}

func (p *parser) boolParam(name string) bool {
	raw := strings.TrimSpace(p.values.Get(name))
	switch strings.ToLower(raw) {
	case "", "false":
		return false
	case "true":
		return true
	}
	p.fail(name, raw, `must be "true" or "false"`)
	return false
}

func (p *parser) list(names ...string) []string {
	var out []string
	for _, name := range names {
		for _, raw := range p.values[name] {
			for _, part := range strings.Split(raw, ",") {
				if part = strings.TrimSpace(part); part != "" {
					out = append(out, part)
				}
			}
		}
	}
	return out
}

func (p *parser) checkRange(param string, lo, hi *float64) {
	if lo != nil && hi != nil && *lo > *hi {
		p.fail(param, "", "minimum is greater than maximum")
	}
}

func intRange(lo, hi *int) (*float64, *float64) {
	var a, b *float64
	if lo != nil {
		v := float64(*lo)
		a = &v
	}
	if hi != nil {
		v := float64(*hi)
		b = &v
	}
	return a, b
}

// ParseCriteria reads flat query parameters into Criteria. Unknown sort keys,
// malformed numbers and flags, and out-of-range paging are rejected.
func ParseCriteria(values url.Values) (Criteria, error) {
	p := &parser{values: values}
	c := DefaultCriteria()

	_, c.Search = p.first("search")
	_, c.Make = p.first("make")
	_, c.BodyStyle = p.first("bodyStyle")
	_, c.Location = p.first("location")
	_, c.Region = p.first("region", "marketRegion")
	_, c.Color = p.first("color", "exteriorColor")

	c.YearMin = p.intParam("yearMin")
	c.YearMax = p.intParam("yearMax")
	c.PriceMin = p.floatParam("priceMin")
	c.PriceMax = p.floatParam("priceMax")
	c.MileageMax = p.intParam("mileageMax")
	c.ConditionMin = p.floatParam("conditionMin", "conditionGradeMin")
	c.ConditionMax = p.floatParam("conditionMax", "conditionGradeMax")
	c.ValuationDeltaMin = p.floatParam("valuationDeltaMin", "minValuationDelta")
	c.DaysOnMarketMin = p.intParam("daysOnMarketMin")
	c.DaysOnMarketMax = p.intParam("daysOnMarketMax")

	c.SalvageOnly = p.boolParam("salvageOnly")
	c.BuyNowOnly = p.boolParam("buyNowOnly")
	c.AuctionOnly = p.boolParam("auctionOnly")

	c.SellerTypes = p.list("sellerTypes", "sellerType")

	if name, raw := p.first("sort", "sortBy"); raw != "" {
		key := SortKey(raw)
		if !key.Valid() {
			p.fail(name, raw, "unknown sort key")
		} else {
			c.Sort = key
		}
	}

	if page := p.intParam("page"); page != nil {
		if *page < 1 {
			p.fail("page", strconv.Itoa(*page), "must be at least 1")
		} else {
			c.Page = *page
		}
	}
	if limit := p.intParam("limit"); limit != nil {
		if *limit < 1 || *limit > constants.MaxPageSize {
			p.fail("limit", strconv.Itoa(*limit), fmt.Sprintf("must be between 1 and %d", constants.MaxPageSize))
		} else {
			c.Limit = *limit
		}
	}
	if c.Page-1 > math.MaxInt/c.Limit {
		p.fail("page", strconv.Itoa(c.Page), "is out of range")
	}

	yMin, yMax := intRange(c.YearMin, c.YearMax)
	p.checkRange("year", yMin, yMax)
	p.checkRange("price", c.PriceMin, c.PriceMax)
	p.checkRange("condition", c.ConditionMin, c.ConditionMax)
	dMin, dMax := intRange(c.DaysOnMarketMin, c.DaysOnMarketMax)
	p.checkRange("daysOnMarket", dMin, dMax)

	if p.err != nil {
		return Criteria{}, p.err
	}
	return c, nil
}
