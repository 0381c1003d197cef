package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/oauth2"
	"gorm.io/driver/sqlite"
	gormlib "gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/constants"
	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/providers"
	"vehicle-auction/inventory/internal/services"
)

// mockAuctionSource is a hand-written AuctionSource with function fields
type mockAuctionSource struct {
	authFunc   func(ctx context.Context) (*oauth2.Token, error)
	colorsFunc func(ctx context.Context, token *oauth2.Token) map[string]string
	searchFunc func(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error)

	mu       sync.Mutex
	requests []providers.SearchRequest
}

func (m *mockAuctionSource) Authenticate(ctx context.Context) (*oauth2.Token, error) {
	if m.authFunc != nil {
		return m.authFunc(ctx)
	}
	return &oauth2.Token{AccessToken: "test-token", TokenType: "Bearer"}, nil
}

func (m *mockAuctionSource) FetchColorMap(ctx context.Context, token *oauth2.Token) map[string]string {
	if m.colorsFunc != nil {
		return m.colorsFunc(ctx, token)
	}
	return map[string]string{"1": "Black"}
}

func (m *mockAuctionSource) Search(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	return m.searchFunc(ctx, token, req)
}

func (m *mockAuctionSource) searchRequests() []providers.SearchRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]providers.SearchRequest(nil), m.requests...)
}

type mockRunHistory struct {
	mu       sync.Mutex
	recorded []*gormModels.IngestionRun
	last     *gormModels.IngestionRun
	lastErr  error
}

func (m *mockRunHistory) Record(ctx context.Context, run *gormModels.IngestionRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recorded = append(m.recorded, run)
	return nil
}

func (m *mockRunHistory) LastSuccessful(ctx context.Context) (*gormModels.IngestionRun, error) {
	return m.last, m.lastErr
}

type countingInvalidator struct {
	calls int32
}

func (c *countingInvalidator) Invalidate(context.Context) {
	atomic.AddInt32(&c.calls, 1)
}

func rawRecord(vin string) json.RawMessage {
	return json.RawMessage(fmt.Sprintf(
		`{"vin":%q,"year":2021,"make":"Ford","models":["Escape"],"buyNowPrice":20000,"mmrPrice":21000,"conditionGradeNumeric":4,"exteriorColorIds":["1"]}`,
		vin,
	))
}

// inventorySearch serves perPartition records for every partition, keyed by
// the first state so VINs never collide across partitions
func inventorySearch(perPartition int) func(context.Context, *oauth2.Token, providers.SearchRequest) ([]json.RawMessage, error) {
	return func(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error) {
		end := min(req.Start+req.Limit, perPartition)
		items := []json.RawMessage{}
		for i := req.Start; i < end; i++ {
			items = append(items, rawRecord(fmt.Sprintf("%s%015d", req.States[0], i)))
		}
		return items, nil
	}
}

func testIngestionConfig() config.IngestionConfig {
	return config.IngestionConfig{
		PageSize:             10,
		MaxRecords:           3000,
		PartitionConcurrency: 1,
	}
}

func newTestJob(source providers.AuctionSource, store repositories.ListingStore, cfg config.IngestionConfig) (*IngestionJob, *mockRunHistory, *countingInvalidator) {
	runs := &mockRunHistory{}
	facets := &countingInvalidator{}
	job := NewIngestionJob(source, store, services.NewListingPipeline(services.NewNormalizer()), runs, facets, nil, cfg)
	return job, runs, facets
}

func setupSQLiteStore(t *testing.T) *repositories.ListingGormRepository {
	db, err := gormlib.Open(sqlite.Open(":memory:"), &gormlib.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	store := repositories.NewListingGormRepository(db, "vehicle_listings", nil)
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return store
}

func TestIngestionJob_WalksEveryPartition(t *testing.T) {
	source := &mockAuctionSource{searchFunc: inventorySearch(25)}
	store := repositories.NewListingMemoryRepository()
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	job, runs, facets := newTestJob(source, store, testIngestionConfig())
	job.metrics = reg

	report, err := job.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !report.Success || report.State != constants.RunStateDone {
		t.Errorf("Expected successful run, got success=%v state=%s", report.Success, report.State)
	}
	if report.Totals.Inserted != 250 || report.TotalCount != 250 {
		t.Errorf("Expected 250 inserted, got %d (count %d)", report.Totals.Inserted, report.TotalCount)
	}
	if len(report.Partitions) != len(constants.StatePartitions) {
		t.Fatalf("Expected %d partition reports, got %d", len(constants.StatePartitions), len(report.Partitions))
	}
	for _, p := range report.Partitions {
		if p.Pages != 3 || p.Inserted != 25 {
			t.Errorf("Partition %d: expected 3 pages / 25 inserted, got %d / %d", p.Index, p.Pages, p.Inserted)
		}
	}
	if len(report.SellerTypes) != len(constants.DefaultSellerTypes) {
		t.Errorf("Expected default seller types, got %v", report.SellerTypes)
	}

	if facets.calls != 1 {
		t.Errorf("Expected facets invalidated once, got %d", facets.calls)
	}
	if len(runs.recorded) != 1 || runs.recorded[0].Status != constants.RunStatusSucceeded || runs.recorded[0].Inserted != 250 {
		t.Errorf("Unexpected run history: %+v", runs.recorded)
	}
	if got := testutil.ToFloat64(reg.IngestionRunsTotal.WithLabelValues(constants.RunStatusSucceeded)); got != 1 {
		t.Errorf("Expected 1 succeeded run metric, got %v", got)
	}
	if got := testutil.ToFloat64(reg.ListingsStored); got != 250 {
		t.Errorf("Expected listings gauge 250, got %v", got)
	}

	listing, err := store.GetByID(context.Background(), "CA000000000000000")
	if err != nil {
		t.Fatalf("Expected stored listing, got %v", err)
	}
	if listing.ExteriorColor != "Black" || listing.ValuationDelta == nil || *listing.ValuationDelta != 1000 {
		t.Errorf("Expected normalized listing, got color=%q delta=%v", listing.ExteriorColor, listing.ValuationDelta)
	}
}

func TestIngestionJob_CapSequential(t *testing.T) {
	source := &mockAuctionSource{searchFunc: inventorySearch(100)}
	store := setupSQLiteStore(t)
	cfg := testIngestionConfig()
	cfg.PageSize = 40
	cfg.MaxRecords = 150
	job, _, _ := newTestJob(source, store, cfg)

	report, err := job.Run(context.Background(), []string{"Bank"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Totals.Inserted != 150 || report.TotalCount != 150 || !report.CapReached {
		t.Errorf("Expected exactly 150 inserted with cap reached, got %d (count %d, cap %v)",
			report.Totals.Inserted, report.TotalCount, report.CapReached)
	}

	reqs := source.searchRequests()
	limits := []int{}
	for _, r := range reqs {
		limits = append(limits, r.Limit)
	}
	want := []int{40, 40, 40, 40, 10}
	if fmt.Sprint(limits) != fmt.Sprint(want) {
		t.Errorf("Expected page limits %v, got %v", want, limits)
	}
	if reqs[3].States[0] != "GA" || reqs[3].Start != 0 {
		t.Errorf("Expected second partition to start at offset 0, got %+v", reqs[3])
	}
	if reqs[0].SellerTypes[0] != "Bank" {
		t.Errorf("Expected requested seller types to be searched, got %v", reqs[0].SellerTypes)
	}
}

func TestIngestionJob_CapParallel(t *testing.T) {
	source := &mockAuctionSource{searchFunc: inventorySearch(100)}
	store := repositories.NewListingMemoryRepository()
	cfg := testIngestionConfig()
	cfg.PageSize = 30
	cfg.MaxRecords = 200
	cfg.PartitionConcurrency = 4
	job, _, _ := newTestJob(source, store, cfg)

	report, err := job.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	count, _ := store.Count(context.Background())
	if report.Totals.Inserted != 200 || count != 200 {
		t.Errorf("Expected exactly 200 inserted, got %d (count %d)", report.Totals.Inserted, count)
	}
	for _, r := range source.searchRequests() {
		if r.Limit > 30 || r.Limit <= 0 {
			t.Errorf("Unexpected page limit %d", r.Limit)
		}
	}
}

func TestIngestionJob_AuthFailureWritesNothing(t *testing.T) {
	store := repositories.NewListingMemoryRepository()
	if _, err := store.InsertBatch(context.Background(), []gormModels.Listing{{ID: "KEEP", VIN: "KEEP"}}); err != nil {
		t.Fatalf("Failed to seed store: %v", err)
	}

	source := &mockAuctionSource{
		authFunc: func(ctx context.Context) (*oauth2.Token, error) {
			return nil, &providers.ProviderError{Code: constants.ErrCodeAuthenticationFailed, Message: "bad secret"}
		},
		searchFunc: inventorySearch(10),
	}
	job, runs, facets := newTestJob(source, store, testIngestionConfig())

	report, err := job.Run(context.Background(), nil)
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !providers.IsAuthError(err) {
		t.Errorf("Expected auth error, got %v", err)
	}
	if report == nil || report.Success || report.State != constants.RunStateFailed {
		t.Fatalf("Expected failed report, got %+v", report)
	}

	if count, _ := store.Count(context.Background()); count != 1 {
		t.Errorf("Expected store untouched, got %d listings", count)
	}
	if len(source.searchRequests()) != 0 {
		t.Error("Expected no search after auth failure")
	}
	if facets.calls != 0 {
		t.Error("Expected facets left alone")
	}
	if len(runs.recorded) != 1 || runs.recorded[0].Status != constants.RunStatusFailed {
		t.Errorf("Expected failed run recorded, got %+v", runs.recorded)
	}
}

func TestIngestionJob_FetchErrorSkipsPartition(t *testing.T) {
	serve := inventorySearch(5)
	source := &mockAuctionSource{
		searchFunc: func(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error) {
			if req.States[0] == "CA" {
				return nil, &providers.ProviderError{Code: constants.ErrCodeRateLimited, Message: "slow down"}
			}
			return serve(ctx, token, req)
		},
	}
	store := repositories.NewListingMemoryRepository()
	job, _, _ := newTestJob(source, store, testIngestionConfig())

	report, err := job.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if report.Partitions[0].Error == "" || report.Partitions[0].Inserted != 0 {
		t.Errorf("Expected first partition to fail, got %+v", report.Partitions[0])
	}
	if report.Totals.Inserted != 45 || !report.Success {
		t.Errorf("Expected the other 9 partitions to be ingested, got %d", report.Totals.Inserted)
	}
}

func TestIngestionJob_CountsDuplicatesAndRejects(t *testing.T) {
	source := &mockAuctionSource{
		searchFunc: func(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error) {
			return []json.RawMessage{
				rawRecord("SAMEVIN0000000001"),
				rawRecord("SAMEVIN0000000002"),
				json.RawMessage(`{"vin":"SALVAGE0000000003","salvageVehicle":true}`),
				json.RawMessage(`[1,2,3]`),
			}, nil
		},
	}
	store := repositories.NewListingMemoryRepository()
	job, _, _ := newTestJob(source, store, testIngestionConfig())

	report, err := job.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	totals := report.Totals
	if totals.RawFetched != 40 || totals.Rejected != 20 || totals.Normalized != 20 {
		t.Errorf("Unexpected stage counts: %+v", totals)
	}
	if totals.Inserted != 2 || totals.Duplicates != 18 {
		t.Errorf("Expected 2 inserted / 18 duplicates, got %d / %d", totals.Inserted, totals.Duplicates)
	}
}

func TestIngestionJob_RejectsConcurrentRun(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once

	source := &mockAuctionSource{
		searchFunc: func(ctx context.Context, token *oauth2.Token, req providers.SearchRequest) ([]json.RawMessage, error) {
			once.Do(func() { close(started) })
			<-release
			return nil, nil
		},
	}
	job, _, _ := newTestJob(source, repositories.NewListingMemoryRepository(), testIngestionConfig())

	done := make(chan error, 1)
	go func() {
		_, err := job.Run(context.Background(), nil)
		done <- err
	}()

	<-started
	if !job.Running() {
		t.Error("Expected job to report running")
	}
	if _, err := job.Run(context.Background(), nil); !errors.Is(err, ErrRunInProgress) {
		t.Errorf("Expected ErrRunInProgress, got %v", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("Expected first run to succeed, got %v", err)
	}
	if job.Running() {
		t.Error("Expected job to be idle after the run")
	}
}

func TestIngestionJob_UnknownSellerTypes(t *testing.T) {
	authCalled := false
	source := &mockAuctionSource{
		authFunc: func(ctx context.Context) (*oauth2.Token, error) {
			authCalled = true
			return &oauth2.Token{AccessToken: "x"}, nil
		},
	}
	job, _, _ := newTestJob(source, repositories.NewListingMemoryRepository(), testIngestionConfig())

	_, err := job.Run(context.Background(), []string{"Bank", "Pirate"})
	var unknown *services.UnknownSellerTypesError
	if !errors.As(err, &unknown) {
		t.Fatalf("Expected UnknownSellerTypesError, got %v", err)
	}
	if authCalled {
		t.Error("Expected no authentication for an invalid request")
	}
}

func TestIngestionJob_CancelledContext(t *testing.T) {
	source := &mockAuctionSource{searchFunc: inventorySearch(10)}
	job, runs, _ := newTestJob(source, repositories.NewListingMemoryRepository(), testIngestionConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := job.Run(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if report.State != constants.RunStateFailed || len(source.searchRequests()) != 0 {
		t.Errorf("Expected failed run with no fetches, got %s and %d requests", report.State, len(source.searchRequests()))
	}
	if len(runs.recorded) != 1 {
		t.Error("Expected cancelled run to be recorded")
	}
}

func TestCapTracker_ReserveAndCommit(t *testing.T) {
	c := newCapTracker(25)

	if n := c.reserve(10); n != 10 {
		t.Errorf("Expected 10, got %d", n)
	}
	if n := c.reserve(20); n != 15 {
		t.Errorf("Expected remaining 15, got %d", n)
	}

	c.commit(15, 3)
	c.commit(10, 10)
	if c.reached() {
		t.Error("Expected room after short inserts")
	}
	if n := c.reserve(100); n != 12 {
		t.Errorf("Expected 12, got %d", n)
	}
	c.commit(12, 12)
	if !c.reached() || c.reserve(1) != 0 {
		t.Error("Expected cap to be reached")
	}
}

func TestIngestionJob_ShouldRunInitialIngestion(t *testing.T) {
	job, runs, _ := newTestJob(&mockAuctionSource{}, repositories.NewListingMemoryRepository(), testIngestionConfig())
	ctx := context.Background()

	if !job.shouldRunInitialIngestion(ctx, time.Hour) {
		t.Error("Expected a run when there is no history")
	}

	runs.last = &gormModels.IngestionRun{FinishedAt: time.Now().Add(-10 * time.Minute)}
	if job.shouldRunInitialIngestion(ctx, time.Hour) {
		t.Error("Expected no run after a recent success")
	}

	runs.last = &gormModels.IngestionRun{FinishedAt: time.Now().Add(-2 * time.Hour)}
	if !job.shouldRunInitialIngestion(ctx, time.Hour) {
		t.Error("Expected a run after a stale success")
	}
}
