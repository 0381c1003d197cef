package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/models/dtos"
	"vehicle-auction/inventory/internal/providers"
)

// capTracker keeps the number of inserted records at or below limit while
// several partitions page concurrently. A partition reserves room for a
// page before fetching it and commits what it actually inserted.
type capTracker struct {
	mu       sync.Mutex
	cond     *sync.Cond
	limit    int
	inserted int
	reserved int
}

func newCapTracker(limit int) *capTracker {
	c := &capTracker{limit: limit}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// reserve returns how many records the caller may request, 0 once the cap
// is reached. It waits while other partitions hold the remaining room.
func (c *capTracker) reserve(want int) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for {
		free := c.limit - c.inserted - c.reserved
		if free > 0 {
			n := min(want, free)
			c.reserved += n
			return n
		}
		if c.reserved == 0 {
			return 0
		}
		c.cond.Wait()
	}
}

// commit releases a reservation and books the records actually inserted
func (c *capTracker) commit(reserved, inserted int) {
	c.mu.Lock()
	c.reserved -= reserved
	c.inserted += inserted
	c.mu.Unlock()
	c.cond.Broadcast()
}

func (c *capTracker) reached() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inserted >= c.limit
}

// ingestionRun is the state of a single run. Nothing here outlives Run.
type ingestionRun struct {
	id          string
	job         *IngestionJob
	log         *zap.SugaredLogger
	sellerTypes []string
	startedAt   time.Time

	state    constants.RunState
	token    *oauth2.Token
	colorMap map[string]string
	quota    *capTracker
	pacer    *rate.Limiter

	// storeTouched is set once the store has been reset
	storeTouched bool
}

func (r *ingestionRun) transition(state constants.RunState) {
	r.log.Debugw("Run state changed", "from", r.state, "to", state)
	r.state = state
}

// execute walks the run state machine and fills report
func (r *ingestionRun) execute(ctx context.Context, report *dtos.IngestionReport) error {
	r.transition(constants.RunStateAuthenticating)
	token, err := r.job.source.Authenticate(ctx)
	if err != nil {
		r.log.Errorw("Authentication failed, nothing written", "error", err, "code", providers.ErrorCode(err))
		return err
	}
	r.token = token

	r.transition(constants.RunStateLoadingColorMap)
	r.colorMap = r.job.source.FetchColorMap(ctx, token)
	if len(r.colorMap) == 0 {
		r.log.Warnw("Color taxonomy unavailable, exterior colors will be empty")
	}

	r.transition(constants.RunStateClearingStore)
	r.storeTouched = true
	if err := r.job.store.Reset(ctx); err != nil {
		r.log.Errorw("Failed to clear listing store", "error", err)
		return err
	}

	r.transition(constants.RunStatePartitionLoop)
	partitions := r.job.partitions
	report.Partitions = make([]dtos.PartitionReport, len(partitions))

	g := new(errgroup.Group)
	g.SetLimit(max(1, r.job.cfg.PartitionConcurrency))
	for i, states := range partitions {
		i := i
		report.Partitions[i] = dtos.PartitionReport{Index: i, States: states}
		g.Go(func() error {
			r.walkPartition(ctx, &report.Partitions[i])
			return nil
		})
	}
	_ = g.Wait()

	for _, p := range report.Partitions {
		report.Totals.Add(p.IngestionCounts)
	}
	report.CapReached = r.quota.reached()
	return ctx.Err()
}

// walkPartition pages one state group until it runs dry, the cap is
// reached, the context ends or a fetch fails
func (r *ingestionRun) walkPartition(ctx context.Context, part *dtos.PartitionReport) {
	log := r.log.With("partition", part.Index)
	offset := 0

	for ctx.Err() == nil {
		limit := r.quota.reserve(r.job.cfg.PageSize)
		if limit == 0 {
			log.Debugw("Record cap reached")
			return
		}

		if err := r.pacer.Wait(ctx); err != nil {
			r.quota.commit(limit, 0)
			return
		}

		items, err := r.job.source.Search(ctx, r.token, providers.SearchRequest{
			States:      part.States,
			SellerTypes: r.sellerTypes,
			Start:       offset,
			Limit:       limit,
		})
		if err != nil {
			r.quota.commit(limit, 0)
			part.Error = err.Error()
			log.Warnw("Fetch failed, skipping rest of partition", "offset", offset, "error", err, "code", providers.ErrorCode(err))
			return
		}
		if len(items) > limit {
			items = items[:limit]
		}

		listings, counts := r.job.pipeline.Prepare(items, r.colorMap)
		result, err := r.job.store.InsertBatch(ctx, listings)
		r.quota.commit(limit, result.Inserted)
		counts.Inserted = result.Inserted
		counts.Duplicates = result.Duplicates
		part.Add(counts)
		part.Pages++

		if err != nil {
			part.Error = err.Error()
			log.Errorw("Insert failed, skipping rest of partition", "offset", offset, "error", err)
			return
		}

		log.Debugw("Page ingested",
			"offset", offset,
			"fetched", counts.RawFetched,
			"inserted", counts.Inserted,
			"duplicates", counts.Duplicates,
		)

		if len(items) < limit {
			return
		}
		offset += len(items)
	}
}
