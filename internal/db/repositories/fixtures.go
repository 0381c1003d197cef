package repositories

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed fixtures/raw_listings.json
var rawFixtureListings []byte

// FixtureRecords returns the bundled sample search items, in the raw shape
// the auction source returns them
func FixtureRecords() ([]json.RawMessage, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(rawFixtureListings, &items); err != nil {
		return nil, fmt.Errorf("failed to decode fixture listings: %w", err)
	}
	return items, nil
}
