package gorm

import (
	"time"

	"gorm.io/datatypes"
)

// IngestionRun records the outcome of one ingestion run. Migrated with GORM,
// read and written through sqlx, hence both tag sets.
type IngestionRun struct {
	ID           string                      `gorm:"column:id;primaryKey;type:varchar(36)" db:"id" json:"id"`
	StartedAt    time.Time                   `gorm:"column:started_at;index" db:"started_at" json:"startedAt"`
	FinishedAt   time.Time                   `gorm:"column:finished_at" db:"finished_at" json:"finishedAt"`
	Status       string                      `gorm:"column:status;type:varchar(20);not null" db:"status" json:"status"`
	SellerTypes  datatypes.JSONSlice[string] `gorm:"column:seller_types" db:"seller_types" json:"sellerTypes"`
	RawFetched   int                         `gorm:"column:raw_fetched" db:"raw_fetched" json:"rawFetched"`
	Rejected     int                         `gorm:"column:rejected" db:"rejected" json:"rejected"`
	Normalized   int                         `gorm:"column:normalized" db:"normalized" json:"normalized"`
	Inserted     int                         `gorm:"column:inserted" db:"inserted" json:"inserted"`
	Duplicates   int                         `gorm:"column:duplicates" db:"duplicates" json:"duplicates"`
	ErrorMessage string                      `gorm:"column:error_message" db:"error_message" json:"errorMessage,omitempty"`
}

// TableName specifies the table name for GORM
func (IngestionRun) TableName() string {
	return "ingestion_runs"
}
