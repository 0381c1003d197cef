package constants

// DefaultSellerTypes are searched when an ingestion trigger names none
var DefaultSellerTypes = []string{
	"Auction",
	"Bank",
	"Captive Finance",
	"Car Rental",
	"Credit Union",
	"Independent",
	"Franchise",
	"Fleet/Lease",
	"Finance",
	"Lease",
}

// AvailableSellerTypes is every seller type the search API accepts
var AvailableSellerTypes = []string{
	"Auction",
	"Bank",
	"Captive Finance",
	"Car Rental",
	"Credit Union",
	"Finance",
	"Fleet/Lease",
	"Franchise",
	"Government",
	"Independent",
	"Insurance",
	"Lease",
	"Manufacturer",
	"Nonprofit",
	"Other",
	"Personal",
	"Repossession",
	"Trade",
}

// IsKnownSellerType reports whether s is in AvailableSellerTypes
func IsKnownSellerType(s string) bool {
	for _, known := range AvailableSellerTypes {
		if known == s {
			return true
		}
	}
	return false
}
