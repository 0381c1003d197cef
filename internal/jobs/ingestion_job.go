package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
	"vehicle-auction/inventory/internal/models/dtos"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/providers"
	"vehicle-auction/inventory/internal/services"
)

// ErrRunInProgress is returned when a run is triggered while another is active
var ErrRunInProgress = errors.New("an ingestion run is already in progress")

// RunHistory persists finished runs. Nil on backends without run history.
type RunHistory interface {
	Record(ctx context.Context, run *gormModels.IngestionRun) error
	LastSuccessful(ctx context.Context) (*gormModels.IngestionRun, error)
}

// FacetInvalidator drops cached facets after the store changed
type FacetInvalidator interface {
	Invalidate(ctx context.Context)
}

// IngestionJob replaces the listing store with a fresh pull from the auction source
type IngestionJob struct {
	source     providers.AuctionSource
	store      repositories.ListingStore
	pipeline   *services.ListingPipeline
	runs       RunHistory
	facets     FacetInvalidator
	metrics    *metrics.MetricsRegistry
	cfg        config.IngestionConfig
	partitions [][]string
	running    atomic.Bool
	newRunID   func() string
}

// NewIngestionJob creates an ingestion job. runs, facets and reg may be nil.
func NewIngestionJob(
	source providers.AuctionSource,
	store repositories.ListingStore,
	pipeline *services.ListingPipeline,
	runs RunHistory,
	facets FacetInvalidator,
	reg *metrics.MetricsRegistry,
	cfg config.IngestionConfig,
) *IngestionJob {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 1000
	}
	if cfg.MaxRecords <= 0 {
		cfg.MaxRecords = 3000
	}
	return &IngestionJob{
		source:     source,
		store:      store,
		pipeline:   pipeline,
		runs:       runs,
		facets:     facets,
		metrics:    reg,
		cfg:        cfg,
		partitions: constants.StatePartitions,
		newRunID:   uuid.NewString,
	}
}

// Running reports whether a run is active
func (j *IngestionJob) Running() bool {
	return j.running.Load()
}

// Run executes one ingestion run for the given seller types (defaults when
// empty). An auth or store failure yields a report with Success=false and
// a non-nil error; partition fetch failures only mark their partition.
func (j *IngestionJob) Run(ctx context.Context, sellerTypes []string) (*dtos.IngestionReport, error) {
	resolved, err := services.ResolveSellerTypes(sellerTypes)
	if err != nil {
		return nil, err
	}

	if !j.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer j.running.Store(false)

	run := j.newRun(resolved)
	report := &dtos.IngestionReport{
		RunID:       run.id,
		SellerTypes: resolved,
		StartedAt:   run.startedAt,
	}

	run.log.Infow("Starting ingestion run",
		"seller_types", resolved,
		"page_size", j.cfg.PageSize,
		"max_records", j.cfg.MaxRecords,
		"partition_concurrency", j.cfg.PartitionConcurrency,
	)

	runErr := run.execute(ctx, report)
	if runErr != nil {
		run.transition(constants.RunStateFailed)
		report.Error = runErr.Error()
	} else {
		run.transition(constants.RunStateDone)
		report.Success = true
	}
	report.State = run.state

	j.finish(ctx, run, report)

	if runErr != nil {
		return report, fmt.Errorf("ingestion run %s failed: %w", run.id, runErr)
	}
	return report, nil
}

func (j *IngestionJob) newRun(sellerTypes []string) *ingestionRun {
	id := j.newRunID()

	limit := rate.Inf
	if j.cfg.PageDelay > 0 {
		limit = rate.Every(j.cfg.PageDelay)
	}

	return &ingestionRun{
		id:          id,
		job:         j,
		log:         logging.WithRun(id),
		sellerTypes: sellerTypes,
		startedAt:   time.Now().UTC(),
		quota:       newCapTracker(j.cfg.MaxRecords),
		pacer:       rate.NewLimiter(limit, 1),
	}
}

// finish runs the post-run side effects. They use a context detached from
// cancellation so a cancelled run is still recorded.
func (j *IngestionJob) finish(ctx context.Context, run *ingestionRun, report *dtos.IngestionReport) {
	ctx = context.WithoutCancel(ctx)

	report.FinishedAt = time.Now().UTC()
	report.DurationMs = report.FinishedAt.Sub(report.StartedAt).Milliseconds()

	if run.storeTouched && j.facets != nil {
		j.facets.Invalidate(ctx)
	}

	if total, err := j.store.Count(ctx); err == nil {
		report.TotalCount = total
	} else {
		run.log.Warnw("Failed to count stored listings", "error", err)
	}

	j.observe(report)

	if j.runs != nil {
		if err := j.runs.Record(ctx, toRunRecord(report)); err != nil {
			run.log.Warnw("Failed to record ingestion run", "error", err)
		}
	}

	run.log.Infow("Ingestion run finished",
		"state", report.State,
		"success", report.Success,
		"duration", time.Duration(report.DurationMs)*time.Millisecond,
		"raw_fetched", report.Totals.RawFetched,
		"rejected", report.Totals.Rejected,
		"normalized", report.Totals.Normalized,
		"inserted", report.Totals.Inserted,
		"duplicates", report.Totals.Duplicates,
		"cap_reached", report.CapReached,
		"total_count", report.TotalCount,
	)
}

func (j *IngestionJob) observe(report *dtos.IngestionReport) {
	if j.metrics == nil {
		return
	}

	status := constants.RunStatusSucceeded
	if !report.Success {
		status = constants.RunStatusFailed
	}
	j.metrics.IngestionRunsTotal.WithLabelValues(status).Inc()
	j.metrics.IngestionRunDuration.Observe(float64(report.DurationMs) / 1000)

	stages := map[string]int{
		"fetched":    report.Totals.RawFetched,
		"rejected":   report.Totals.Rejected,
		"normalized": report.Totals.Normalized,
		"inserted":   report.Totals.Inserted,
		"duplicate":  report.Totals.Duplicates,
	}
	for stage, n := range stages {
		j.metrics.IngestionRecordsTotal.WithLabelValues(stage).Add(float64(n))
	}
	j.metrics.ListingsStored.Set(float64(report.TotalCount))
}

func toRunRecord(report *dtos.IngestionReport) *gormModels.IngestionRun {
	status := constants.RunStatusSucceeded
	if !report.Success {
		status = constants.RunStatusFailed
	}
	return &gormModels.IngestionRun{
		ID:           report.RunID,
		StartedAt:    report.StartedAt,
		FinishedAt:   report.FinishedAt,
		Status:       status,
		SellerTypes:  report.SellerTypes,
		RawFetched:   report.Totals.RawFetched,
		Rejected:     report.Totals.Rejected,
		Normalized:   report.Totals.Normalized,
		Inserted:     report.Totals.Inserted,
		Duplicates:   report.Totals.Duplicates,
		ErrorMessage: report.Error,
	}
}

// RunScheduled runs ingestion every interval until ctx ends. The first run
// starts immediately unless a successful run finished within the interval.
func (j *IngestionJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if j.shouldRunInitialIngestion(ctx, interval) {
		j.runScheduledOnce(ctx)
	}

	for {
		select {
		case <-ticker.C:
			j.runScheduledOnce(ctx)
		case <-ctx.Done():
			logging.Info("Shutting down scheduled ingestion", "component", "IngestionJob")
			return
		}
	}
}

func (j *IngestionJob) runScheduledOnce(ctx context.Context) {
	if _, err := j.Run(ctx, nil); err != nil {
		if errors.Is(err, ErrRunInProgress) {
			logging.Info("Skipping scheduled ingestion, a run is active", "component", "IngestionJob")
			return
		}
		logging.Error("Scheduled ingestion failed", "component", "IngestionJob", "error", err)
	}
}

func (j *IngestionJob) shouldRunInitialIngestion(ctx context.Context, interval time.Duration) bool {
	if j.runs == nil {
		return true
	}

	last, err := j.runs.LastSuccessful(ctx)
	if err != nil {
		logging.Warn("Could not load last ingestion run, running now", "component", "IngestionJob", "error", err)
		return true
	}
	if last == nil {
		logging.Info("No previous ingestion run found, running now", "component", "IngestionJob")
		return true
	}

	since := time.Since(last.FinishedAt)
	if since > interval {
		logging.Info("Last ingestion run is stale, running now", "component", "IngestionJob", "since", since.Truncate(time.Minute))
		return true
	}

	logging.Info("Last ingestion run is recent, waiting for next tick", "component", "IngestionJob", "since", since.Truncate(time.Minute))
	return false
}
