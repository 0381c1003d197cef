package constants

// Ingestion run history (sqlx). Written with ? placeholders and rebound
// for the active driver.
const (
	InsertIngestionRun = `
	INSERT INTO ingestion_runs (
		id, started_at, finished_at, status, seller_types,
		raw_fetched, rejected, normalized, inserted, duplicates, error_message
	) VALUES (
		:id, :started_at, :finished_at, :status, :seller_types,
		:raw_fetched, :rejected, :normalized, :inserted, :duplicates, :error_message
	)
	`

	ListRecentIngestionRuns = `
	SELECT id, started_at, finished_at, status, seller_types,
		raw_fetched, rejected, normalized, inserted, duplicates, error_message
	FROM ingestion_runs
	ORDER BY started_at DESC
	LIMIT ?
	`

	GetLastSuccessfulIngestionRun = `
	SELECT id, started_at, finished_at, status, seller_types,
		raw_fetched, rejected, normalized, inserted, duplicates, error_message
	FROM ingestion_runs
	WHERE status = 'succeeded'
	ORDER BY started_at DESC
	LIMIT 1
	`
)
