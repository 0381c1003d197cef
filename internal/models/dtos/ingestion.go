package dtos

import (
	"time"

	"vehicle-auction/inventory/internal/constants"
)

// IngestionCounts are the per-stage record counters of a run
type IngestionCounts struct {
	RawFetched int `json:"rawFetched"`
	Rejected   int `json:"rejected"`
	Normalized int `json:"normalized"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

// Add accumulates other into c
func (c *IngestionCounts) Add(other IngestionCounts) {
	c.RawFetched += other.RawFetched
	c.Rejected += other.Rejected
	c.Normalized += other.Normalized
	c.Inserted += other.Inserted
	c.Duplicates += other.Duplicates
}

// PartitionReport is the outcome of paging one partition
type PartitionReport struct {
	Index  int      `json:"index"`
	States []string `json:"states"`
	Pages  int      `json:"pages"`
	IngestionCounts
	// Error is set when a fetch failure stopped this partition early
	Error string `json:"error,omitempty"`
}

// IngestionReport is the outcome of one ingestion run
type IngestionReport struct {
	RunID       string             `json:"runId"`
	Success     bool               `json:"success"`
	State       constants.RunState `json:"state"`
	SellerTypes []string           `json:"sellerTypes"`
	StartedAt   time.Time          `json:"startedAt"`
	FinishedAt  time.Time          `json:"finishedAt"`
	DurationMs  int64              `json:"durationMs"`
	CapReached  bool               `json:"capReached"`
	TotalCount  int64              `json:"totalCount"`
	Totals      IngestionCounts    `json:"totals"`
	Partitions  []PartitionReport  `json:"partitions"`
	Error       string             `json:"error,omitempty"`
}

// RefreshRequest is the optional body of the ingestion trigger
type RefreshRequest struct {
	SellerTypes []string `json:"sellerTypes"`
}

// RefreshResponse is returned by the ingestion trigger
type RefreshResponse struct {
	Success     bool             `json:"success"`
	Message     string           `json:"message"`
	TotalSaved  int              `json:"totalSaved"`
	TotalCount  int64            `json:"totalCount"`
	SellerTypes []string         `json:"sellerTypes,omitempty"`
	Report      *IngestionReport `json:"report,omitempty"`
	Error       string           `json:"error,omitempty"`
}

// SellerTypesResponse is the static seller-type catalog
type SellerTypesResponse struct {
	AvailableSellerTypes []string `json:"availableSellerTypes"`
	DefaultSellerTypes   []string `json:"defaultSellerTypes"`
}
