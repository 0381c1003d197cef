package query

// Field is a filterable or sortable listing attribute. The string value is
// the document key used by the mongo store and the JSON API.
type Field string

const (
	FieldVIN                Field = "vin"
	FieldMake               Field = "make"
	FieldModels             Field = "models"
	FieldBodyStyle          Field = "bodyStyle"
	FieldYear               Field = "year"
	FieldBidPrice           Field = "bidPrice"
	FieldOdometer           Field = "odometer"
	FieldLocationCity       Field = "locationCity"
	FieldPickupRegion       Field = "pickupRegion"
	FieldExteriorColor      Field = "exteriorColor"
	FieldSalvage            Field = "salvage"
	FieldBuyable            Field = "buyable"
	FieldAtAuction          Field = "atAuction"
	FieldConditionGrade     Field = "conditionGradeNumeric"
	FieldValuationDelta     Field = "valuationDelta"
	FieldValuationDeltaSort Field = "valuationDeltaSort"
	FieldDealScore          Field = "dealScore"
	FieldDaysOnMarket       Field = "daysOnMarket"
	FieldSellerTypes        Field = "sellerTypes"
)

var sqlColumns = map[Field]string{
	FieldVIN:                "vin",
	FieldMake:               "make",
	FieldModels:             "models",
	FieldBodyStyle:          "body_style",
	FieldYear:               "year",
	FieldBidPrice:           "bid_price",
	FieldOdometer:           "odometer",
	FieldLocationCity:       "location_city",
	FieldPickupRegion:       "pickup_region",
	FieldExteriorColor:      "exterior_color",
	FieldSalvage:            "salvage",
	FieldBuyable:            "buyable",
	FieldAtAuction:          "at_auction",
	FieldConditionGrade:     "condition_grade",
	FieldValuationDelta:     "valuation_delta",
	FieldValuationDeltaSort: "valuation_delta_sort",
	FieldDealScore:          "deal_score",
	FieldDaysOnMarket:       "days_on_market",
	FieldSellerTypes:        "seller_types",
}

// Column is the SQL column backing the field
func (f Field) Column() string {
	return sqlColumns[f]
}

// IsList reports whether the field holds a JSON list in SQL stores
func (f Field) IsList() bool {
	return f == FieldModels || f == FieldSellerTypes
}

// FacetFields are the fields whose distinct values populate filter pickers
var FacetFields = []Field{
	FieldMake,
	FieldBodyStyle,
	FieldLocationCity,
	FieldPickupRegion,
	FieldExteriorColor,
}
