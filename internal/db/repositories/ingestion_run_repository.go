package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vehicle-auction/inventory/internal/constants"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
)

// IngestionRunRepository reads and writes run history with sqlx
type IngestionRunRepository struct {
	db *sqlx.DB
}

// NewIngestionRunRepository creates a run history repository
func NewIngestionRunRepository(db *sqlx.DB) *IngestionRunRepository {
	return &IngestionRunRepository{db: db}
}

// Record inserts one finished run
func (r *IngestionRunRepository) Record(ctx context.Context, run *gormModels.IngestionRun) error {
	q, args, err := sqlx.Named(constants.InsertIngestionRun, run)
	if err != nil {
		return fmt.Errorf("failed to bind ingestion run: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("failed to record ingestion run: %w", err)
	}
	return nil
}

// ListRecent returns up to limit runs, newest first
func (r *IngestionRunRepository) ListRecent(ctx context.Context, limit int) ([]gormModels.IngestionRun, error) {
	runs := []gormModels.IngestionRun{}
	if err := r.db.SelectContext(ctx, &runs, r.db.Rebind(constants.ListRecentIngestionRuns), limit); err != nil {
		return nil, fmt.Errorf("failed to list ingestion runs: %w", err)
	}
	return runs, nil
}

// LastSuccessful returns the newest succeeded run, or nil when none exists
func (r *IngestionRunRepository) LastSuccessful(ctx context.Context) (*gormModels.IngestionRun, error) {
	var run gormModels.IngestionRun
	err := r.db.GetContext(ctx, &run, constants.GetLastSuccessfulIngestionRun)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load last ingestion run: %w", err)
	}
	return &run, nil
}
