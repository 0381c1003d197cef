package query

import "strings"

// Op is the comparison a predicate applies
type Op int

const (
	OpEqualFold    Op = iota // case-insensitive equality
	OpContainsFold           // case-insensitive substring; any element for list fields
	OpAtLeast                // >= ; unknown (null) values never match
	OpAtMost                 // <= ; unknown (null) values never match
	OpIsTrue
	OpAnyOf // list field shares at least one element with Values
	OpOr    // any of Any matches
)

// Predicate is one typed filter clause. A predicate list is AND-combined.
type Predicate struct {
	Op     Op
	Field  Field
	Text   string
	Number float64
	Values []string
	Any    []Predicate
}

// Builder accumulates predicates. Unset inputs are skipped, so callers can
// chain every optional criterion without branching.
type Builder struct {
	preds []Predicate
}

func NewBuilder() *Builder {
	return &Builder{}
}

func (b *Builder) EqualFold(f Field, v string) *Builder {
	if v = strings.TrimSpace(v); v != "" {
		b.preds = append(b.preds, Predicate{Op: OpEqualFold, Field: f, Text: v})
	}
	return b
}

func (b *Builder) ContainsFold(f Field, v string) *Builder {
	if v = strings.TrimSpace(v); v != "" {
		b.preds = append(b.preds, Predicate{Op: OpContainsFold, Field: f, Text: v})
	}
	return b
}

func (b *Builder) AtLeast(f Field, v *float64) *Builder {
	if v != nil {
		b.preds = append(b.preds, Predicate{Op: OpAtLeast, Field: f, Number: *v})
	}
	return b
}

func (b *Builder) AtMost(f Field, v *float64) *Builder {
	if v != nil {
		b.preds = append(b.preds, Predicate{Op: OpAtMost, Field: f, Number: *v})
	}
	return b
}

func (b *Builder) AtLeastInt(f Field, v *int) *Builder {
	if v != nil {
		n := float64(*v)
		b.AtLeast(f, &n)
	}
	return b
}

func (b *Builder) AtMostInt(f Field, v *int) *Builder {
	if v != nil {
		n := float64(*v)
		b.AtMost(f, &n)
	}
	return b
}

func (b *Builder) IsTrue(f Field, enabled bool) *Builder {
	if enabled {
		b.preds = append(b.preds, Predicate{Op: OpIsTrue, Field: f})
	}
	return b
}

func (b *Builder) AnyOf(f Field, values []string) *Builder {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) > 0 {
		b.preds = append(b.preds, Predicate{Op: OpAnyOf, Field: f, Values: cleaned})
	}
	return b
}

// ContainsFoldAny matches when v is a substring of any of fields
func (b *Builder) ContainsFoldAny(v string, fields ...Field) *Builder {
	if v = strings.TrimSpace(v); v == "" || len(fields) == 0 {
		return b
	}
	alts := make([]Predicate, 0, len(fields))
	for _, f := range fields {
		alts = append(alts, Predicate{Op: OpContainsFold, Field: f, Text: v})
	}
	b.preds = append(b.preds, Predicate{Op: OpOr, Any: alts})
	return b
}

func (b *Builder) Predicates() []Predicate {
	out := make([]Predicate, len(b.preds))
	copy(out, b.preds)
	return out
}

// FromCriteria compiles every set criterion into an AND-combined predicate list
func FromCriteria(c Criteria) []Predicate {
	return NewBuilder().
		ContainsFoldAny(c.Search, FieldMake, FieldModels, FieldVIN, FieldBodyStyle).
		EqualFold(FieldMake, c.Make).
		EqualFold(FieldBodyStyle, c.BodyStyle).
		AtLeastInt(FieldYear, c.YearMin).
		AtMostInt(FieldYear, c.YearMax).
		AtLeast(FieldBidPrice, c.PriceMin).
		AtMost(FieldBidPrice, c.PriceMax).
		AtMostInt(FieldOdometer, c.MileageMax).
		EqualFold(FieldLocationCity, c.Location).
		IsTrue(FieldSalvage, c.SalvageOnly).
		IsTrue(FieldBuyable, c.BuyNowOnly).
		IsTrue(FieldAtAuction, c.AuctionOnly).
		AtLeast(FieldConditionGrade, c.ConditionMin).
		AtMost(FieldConditionGrade, c.ConditionMax).
		AtLeast(FieldValuationDelta, c.ValuationDeltaMin).
		EqualFold(FieldPickupRegion, c.Region).
		ContainsFold(FieldExteriorColor, c.Color).
		AtLeastInt(FieldDaysOnMarket, c.DaysOnMarketMin).
		AtMostInt(FieldDaysOnMarket, c.DaysOnMarketMax).
		AnyOf(FieldSellerTypes, c.SellerTypes).
		Predicates()
}
