package query

import (
	"strings"

	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// Match evaluates an AND-combined predicate list against one listing
func Match(l *gormModels.Listing, preds []Predicate) bool {
	for _, p := range preds {
		if !matchOne(l, p) {
			return false
		}
	}
	return true
}

func matchOne(l *gormModels.Listing, p Predicate) bool {
	switch p.Op {
	case OpEqualFold:
		for _, v := range textValues(l, p.Field) {
			if strings.EqualFold(v, p.Text) {
				return true
			}
		}
		return false
	case OpContainsFold:
		needle := strings.ToLower(p.Text)
		for _, v := range textValues(l, p.Field) {
			if strings.Contains(strings.ToLower(v), needle) {
				return true
			}
		}
		return false
	case OpAtLeast:
		v, ok := numberValue(l, p.Field)
		return ok && v >= p.Number
	case OpAtMost:
		v, ok := numberValue(l, p.Field)
		return ok && v <= p.Number
	case OpIsTrue:
		return boolValue(l, p.Field)
	case OpAnyOf:
		for _, have := range textValues(l, p.Field) {
			for _, want := range p.Values {
				if have == want {
					return true
				}
			}
		}
		return false
	case OpOr:
		for _, alt := range p.Any {
			if matchOne(l, alt) {
				return true
			}
		}
		return false
	}
	return false
}

func textValues(l *gormModels.Listing, f Field) []string {
	switch f {
	case FieldVIN:
		return []string{l.VIN}
	case FieldMake:
		return []string{l.Make}
	case FieldModels:
		return l.Models
	case FieldBodyStyle:
		return []string{l.BodyStyle}
	case FieldLocationCity:
		return []string{l.LocationCity}
	case FieldPickupRegion:
		return []string{l.PickupRegion}
	case FieldExteriorColor:
		return []string{l.ExteriorColor}
	case FieldSellerTypes:
		return l.SellerTypes
	}
	return nil
}

// numberValue returns false for unknown values (a nil valuation delta)
func numberValue(l *gormModels.Listing, f Field) (float64, bool) {
	switch f {
	case FieldYear:
		return float64(l.Year), true
	case FieldBidPrice:
		return l.BidPrice, true
	case FieldOdometer:
		return float64(l.Odometer), true
	case FieldConditionGrade:
		return l.ConditionGrade, true
	case FieldValuationDelta:
		if l.ValuationDelta == nil {
			return 0, false
		}
		return *l.ValuationDelta, true
	case FieldValuationDeltaSort:
		return l.ValuationDeltaSort, true
	case FieldDealScore:
		return l.DealScore, true
	case FieldDaysOnMarket:
		return float64(l.DaysOnMarket), true
	}
	return 0, false
}

func boolValue(l *gormModels.Listing, f Field) bool {
	switch f {
	case FieldSalvage:
		return l.Salvage
	case FieldBuyable:
		return l.Buyable
	case FieldAtAuction:
		return l.AtAuction
	}
	return false
}
