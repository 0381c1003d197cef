package constants

// StatePartitions groups pickup states into the search partitions walked by
// every ingestion run, largest markets first.
var StatePartitions = [][]string{
	{"CA", "TX", "FL", "NY", "IL"},
	{"GA", "NC", "PA", "OH", "MI"},
	{"VA", "NJ", "WA", "AZ", "MA"},
	{"IN", "TN", "MO", "WI", "CO"},
	{"MN", "SC", "AL", "LA", "KY"},
	{"OK", "OR", "CT", "IA", "MS"},
	{"AR", "KS", "UT", "NV", "NM"},
	{"WV", "NE", "ID", "ME", "HI"},
	{"NH", "RI", "MT", "DE", "SD"},
	{"ND", "VT", "WY"},
}

// SearchFields is the field projection requested from the search API
var SearchFields = []string{
	"sources", "saleDate", "vin", "year", "make", "models", "trims", "bodyType", "exteriorColorIds",
	"odometer", "buyNowPrice", "mmrPrice", "conditionGradeNumeric", "conditionReportUrl", "comments",
	"announcements", "additionalAnnouncements", "images", "sellerName", "sellerTypes", "pickupLocationCity",
	"pickupLocationState", "pickupLocationZipcode", "pickupRegion", "auctionStartTime", "auctionEndTime",
	"titleBrandings", "statuses", "listedAt", "updatedAt", "buyable", "atAuction", "bidPrice",
}
