package jobs

import (
	"context"

	"vehicle-auction/inventory/internal/logging"
)

// InitializeJobs starts the scheduled ingestion loop when an interval is
// configured. The job itself is always returned for manual triggers.
func InitializeJobs(ctx context.Context, job *IngestionJob) *IngestionJob {
	interval := job.cfg.ScheduleInterval
	if interval <= 0 {
		logging.Info("Scheduled ingestion disabled", "component", "IngestionJob")
		return job
	}

	logging.Info("Starting scheduled ingestion", "component", "IngestionJob", "interval", interval)
	go job.RunScheduled(ctx, interval)
	return job
}
