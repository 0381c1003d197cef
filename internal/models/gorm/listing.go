package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// ImageDescriptor is one normalized listing photo
type ImageDescriptor struct {
	LargeURL string `json:"largeUrl" bson:"largeUrl"`
	SmallURL string `json:"smallUrl" bson:"smallUrl"`
	Sequence *int   `json:"sequence,omitempty" bson:"sequence,omitempty"`
	Category string `json:"category,omitempty" bson:"category,omitempty"`
	// Raw holds the source value when its shape was not recognized
	Raw interface{} `json:"raw,omitempty" bson:"raw,omitempty"`
}

// Listing is one vehicle offered by the auction source. The same struct is
// persisted by every store backend and served as JSON.
//
// Valuation fields:
//   - ValuationDelta = MMRPrice - BuyNowPrice; positive means priced below
//     market. Nil when either input is missing.
//   - ValuationDeltaSort is ValuationDelta, or 0 when unknown.
//   - DealScore = ValuationDeltaSort/1000 + ConditionGrade; higher is better.
type Listing struct {
	ID     string `gorm:"column:id;primaryKey;type:varchar(64)" json:"id" bson:"id"`
	VIN    string `gorm:"column:vin;type:varchar(32);index:idx_listing_vin,unique,where:vin <> ''" json:"vin" bson:"vin,omitempty"`
	VINURL string `gorm:"column:vin_url" json:"vinUrl" bson:"vinUrl"`

	Source   string `gorm:"column:source" json:"source" bson:"source"`
	SaleDate string `gorm:"column:sale_date" json:"saleDate" bson:"saleDate"`

	Year          int                         `gorm:"column:year;index" json:"year" bson:"year"`
	Make          string                      `gorm:"column:make;index" json:"make" bson:"make"`
	Model         string                      `gorm:"column:model" json:"model" bson:"model"`
	Models        datatypes.JSONSlice[string] `gorm:"column:models" json:"models" bson:"models"`
	Trims         datatypes.JSONSlice[string] `gorm:"column:trims" json:"trims" bson:"trims"`
	BodyStyle     string                      `gorm:"column:body_style;index" json:"bodyStyle" bson:"bodyStyle"`
	ExteriorColor string                      `gorm:"column:exterior_color" json:"exteriorColor" bson:"exteriorColor"`
	Odometer      int                         `gorm:"column:odometer" json:"odometer" bson:"odometer"`

	SellerName      string                      `gorm:"column:seller_name" json:"sellerName" bson:"sellerName"`
	SellerTypes     datatypes.JSONSlice[string] `gorm:"column:seller_types" json:"sellerTypes" bson:"sellerTypes"`
	LocationCity    string                      `gorm:"column:location_city;index" json:"locationCity" bson:"locationCity"`
	LocationState   string                      `gorm:"column:location_state" json:"locationState" bson:"locationState"`
	LocationZipcode string                      `gorm:"column:location_zipcode" json:"locationZipcode" bson:"locationZipcode"`
	PickupRegion    string                      `gorm:"column:pickup_region" json:"pickupRegion" bson:"pickupRegion"`

	BidPrice         float64  `gorm:"column:bid_price;index" json:"bidPrice" bson:"bidPrice"`
	BuyNowPrice      float64  `gorm:"column:buy_now_price" json:"buyNowPrice" bson:"buyNowPrice"`
	MMRPrice         *float64 `gorm:"column:mmr_price" json:"mmrPrice" bson:"mmrPrice"`
	Buyable          bool     `gorm:"column:buyable" json:"buyable" bson:"buyable"`
	AtAuction        bool     `gorm:"column:at_auction" json:"atAuction" bson:"atAuction"`
	AuctionStartTime string   `gorm:"column:auction_start_time" json:"auctionStartTime" bson:"auctionStartTime"`
	AuctionEndTime   string   `gorm:"column:auction_end_time" json:"auctionEndTime" bson:"auctionEndTime"`
	DisplayTime      string   `gorm:"column:display_time" json:"displayTime" bson:"displayTime"`

	ValuationDelta     *float64 `gorm:"column:valuation_delta" json:"valuationDelta" bson:"valuationDelta"`
	ValuationDeltaSort float64  `gorm:"column:valuation_delta_sort;index" json:"-" bson:"valuationDeltaSort"`
	DealScore          float64  `gorm:"column:deal_score;index" json:"dealScore" bson:"dealScore"`

	ConditionGrade          float64                     `gorm:"column:condition_grade" json:"conditionGradeNumeric" bson:"conditionGradeNumeric"`
	TitleBrandings          datatypes.JSONSlice[string] `gorm:"column:title_brandings" json:"titleBrandings" bson:"titleBrandings"`
	Salvage                 bool                        `gorm:"column:salvage" json:"salvage" bson:"salvage"`
	ConditionReportURL      string                      `gorm:"column:condition_report_url" json:"conditionReportUrl" bson:"conditionReportUrl"`
	Comments                string                      `gorm:"column:comments" json:"comments" bson:"comments"`
	Announcements           string                      `gorm:"column:announcements" json:"announcements" bson:"announcements"`
	AdditionalAnnouncements string                      `gorm:"column:additional_announcements" json:"additionalAnnouncements" bson:"additionalAnnouncements"`

	Images datatypes.JSONSlice[ImageDescriptor] `gorm:"column:images" json:"images" bson:"images"`

	DaysOnMarket    int       `gorm:"column:days_on_market" json:"daysOnMarket" bson:"daysOnMarket"`
	ViewCount       int       `gorm:"column:view_count" json:"viewCount" bson:"viewCount"`
	BidCount        int       `gorm:"column:bid_count" json:"bidCount" bson:"bidCount"`
	Status          string    `gorm:"column:status" json:"status" bson:"status"`
	LastPriceUpdate string    `gorm:"column:last_price_update" json:"lastPriceUpdate" bson:"lastPriceUpdate"`
	ImportedAt      time.Time `gorm:"column:imported_at" json:"importedAt" bson:"importedAt"`
	APISource       string    `gorm:"column:api_source" json:"apiSource" bson:"apiSource"`
}

// TableName is the default table; stores pass the configured name via Table()
func (Listing) TableName() string {
	return "vehicle_listings"
}
