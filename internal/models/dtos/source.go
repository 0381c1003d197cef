package dtos

import (
	"bytes"
	"encoding/json"

	"vehicle-auction/inventory/internal/common"
)

// ---- AUCTION SOURCE: SEARCH ----

// SearchPayload is the body POSTed to /searches
type SearchPayload struct {
	ExecuteNow                bool     `json:"executeNow"`
	IncludeFacets             bool     `json:"includeFacets"`
	FirstTimeListed           bool     `json:"firstTimeListed"`
	IncludeFilters            bool     `json:"includeFilters"`
	SellerTypes               []string `json:"sellerTypes"`
	HasFrameDamage            bool     `json:"hasFrameDamage"`
	StartBuyNowPrice          int      `json:"startBuyNowPrice"`
	PickupLocationStates      []string `json:"pickupLocationStates"`
	OdometerCheckOK           bool     `json:"odometerCheckOK"`
	AsIs                      bool     `json:"asIs"`
	PreviouslyCanadianListing bool     `json:"previouslyCanadianListing"`
	SalvageVehicle            bool     `json:"salvageVehicle"`
	TitleAndProblemCheckOK    bool     `json:"titleAndProblemCheckOK"`
	Fields                    []string `json:"fields"`
	Limit                     int      `json:"limit"`
	Start                     int      `json:"start"`
}

// SearchResponse keeps items raw so one malformed record cannot fail the page
type SearchResponse struct {
	Items      []json.RawMessage `json:"items"`
	TotalCount common.FlexInt    `json:"totalCount"`
}

// ---- AUCTION SOURCE: TAXONOMY ----

type ColorTaxonomyResponse struct {
	Items []ColorTaxonomyItem `json:"items"`
}

type ColorTaxonomyItem struct {
	ID   common.FlexString `json:"id"`
	Name string            `json:"name"`
}

// ---- AUCTION SOURCE: LISTING RECORD ----

// RawListing is one search result as the source sends it. Every field is
// optional and loosely typed.
type RawListing struct {
	ID                      common.FlexString  `json:"id"`
	VIN                     common.FlexString  `json:"vin"`
	Source                  common.FlexString  `json:"source"`
	SaleDate                common.FlexString  `json:"saleDate"`
	Year                    common.FlexInt     `json:"year"`
	Make                    common.FlexString  `json:"make"`
	Models                  common.FlexStrings `json:"models"`
	Trims                   common.FlexStrings `json:"trims"`
	BodyType                common.FlexString  `json:"bodyType"`
	BodyStyle               common.FlexString  `json:"bodyStyle"`
	ExteriorColorIDs        common.FlexStrings `json:"exteriorColorIds"`
	Odometer                common.FlexInt     `json:"odometer"`
	BidPrice                common.FlexFloat   `json:"bidPrice"`
	BuyNowPrice             common.FlexFloat   `json:"buyNowPrice"`
	MMRPrice                common.FlexFloat   `json:"mmrPrice"`
	Buyable                 common.FlexBool    `json:"buyable"`
	AtAuction               common.FlexBool    `json:"atAuction"`
	ConditionGradeNumeric   common.FlexFloat   `json:"conditionGradeNumeric"`
	ConditionReportURL      common.FlexString  `json:"conditionReportUrl"`
	Comments                common.FlexString  `json:"comments"`
	Announcements           common.FlexString  `json:"announcements"`
	AdditionalAnnouncements common.FlexString  `json:"additionalAnnouncements"`
	Images                  RawImages          `json:"images"`
	SellerName              common.FlexString  `json:"sellerName"`
	SellerTypes             common.FlexStrings `json:"sellerTypes"`
	PickupLocationCity      common.FlexString  `json:"pickupLocationCity"`
	PickupLocationState     common.FlexString  `json:"pickupLocationState"`
	PickupLocationZipcode   common.FlexString  `json:"pickupLocationZipcode"`
	PickupRegion            common.FlexString  `json:"pickupRegion"`
	AuctionStartTime        common.FlexString  `json:"auctionStartTime"`
	AuctionEndTime          common.FlexString  `json:"auctionEndTime"`
	TitleBrandings          common.FlexStrings `json:"titleBrandings"`
	Statuses                common.FlexStrings `json:"statuses"`
	ListedAt                common.FlexString  `json:"listedAt"`
	UpdatedAt               common.FlexString  `json:"updatedAt"`
	ViewCount               common.FlexInt     `json:"viewCount"`
	BidCount                common.FlexInt     `json:"bidCount"`

	// Quality flags
	SalvageVehicle            common.FlexBool `json:"salvageVehicle"`
	Salvage                   common.FlexBool `json:"salvage"`
	OdometerCheckOK           common.FlexBool `json:"odometerCheckOK"`
	TitleAndProblemCheckOK    common.FlexBool `json:"titleAndProblemCheckOK"`
	AsIs                      common.FlexBool `json:"asIs"`
	HasFrameDamage            common.FlexBool `json:"hasFrameDamage"`
	PreviouslyCanadianListing common.FlexBool `json:"previouslyCanadianListing"`
}

// RawImageKind tags which shape a raw image arrived in
type RawImageKind int

const (
	RawImageUnknown RawImageKind = iota
	RawImageString
	RawImageSized // {largeUrl, smallUrl, sequence, category}
	RawImageURL   // {url}
	RawImageHref  // {href}
	RawImageSrc   // {src}
)

// RawImage is a tagged union over the image shapes the source has used
type RawImage struct {
	Kind     RawImageKind
	URL      string
	LargeURL string
	SmallURL string
	Sequence *int
	Category string
	Raw      interface{}
}

type rawImageObject struct {
	URL      common.FlexString `json:"url"`
	Href     common.FlexString `json:"href"`
	Src      common.FlexString `json:"src"`
	LargeURL common.FlexString `json:"largeUrl"`
	SmallURL common.FlexString `json:"smallUrl"`
	Sequence common.FlexFloat  `json:"sequence"`
	Category common.FlexString `json:"category"`
}

// UnmarshalJSON dispatches on the JSON shape and never fails
func (ri *RawImage) UnmarshalJSON(b []byte) error {
	*ri = RawImage{}
	b = bytes.TrimSpace(b)

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != "" {
			ri.Kind = RawImageString
			ri.URL = s
		}
		return nil
	}

	var obj rawImageObject
	if len(b) > 0 && b[0] == '{' && json.Unmarshal(b, &obj) == nil {
		if obj.Sequence.Valid {
			seq := int(obj.Sequence.Value)
			ri.Sequence = &seq
		}
		ri.Category = obj.Category.String()

		switch {
		case obj.LargeURL != "" || obj.SmallURL != "":
			ri.Kind = RawImageSized
			ri.LargeURL = obj.LargeURL.String()
			ri.SmallURL = obj.SmallURL.String()
			return nil
		case obj.URL != "":
			ri.Kind = RawImageURL
			ri.URL = obj.URL.String()
			return nil
		case obj.Href != "":
			ri.Kind = RawImageHref
			ri.URL = obj.Href.String()
			return nil
		case obj.Src != "":
			ri.Kind = RawImageSrc
			ri.URL = obj.Src.String()
			return nil
		}
	}

	var generic interface{}
	if err := json.Unmarshal(b, &generic); err == nil && generic != nil {
		ri.Kind = RawImageUnknown
		ri.Raw = generic
	}
	return nil
}

// RawImages tolerates a missing, null or non-array images field
type RawImages []RawImage

func (r *RawImages) UnmarshalJSON(b []byte) error {
	*r = nil
	var items []RawImage
	if err := json.Unmarshal(b, &items); err == nil {
		*r = items
	}
	return nil
}
