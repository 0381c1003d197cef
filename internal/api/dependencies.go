package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vehicle-auction/inventory/internal/common"
	"vehicle-auction/inventory/internal/config"
	"vehicle-auction/inventory/internal/db"
	"vehicle-auction/inventory/internal/db/repositories"
	"vehicle-auction/inventory/internal/jobs"
	"vehicle-auction/inventory/internal/logging"
	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/providers"
	"vehicle-auction/inventory/internal/services"
)

const (
	redisKeyPrefix     = "inventory:"
	memoryCacheTTL     = 10 * time.Minute
	memoryCacheCleanup = 20 * time.Minute
)

type Repositories struct {
	Listings repositories.ListingStore
	// Runs is nil when the store has no SQL dialect (mongo, fixtures)
	Runs *repositories.IngestionRunRepository
}

type Services struct {
	Cache    common.CacheInterface
	Facets   *services.FacetsService
	Listings *services.ListingQueryService
	Market   *services.MarketAnalysisService
	Auctions *services.AuctionSiteService
	Actions  *services.ActionService
	Pipeline *services.ListingPipeline
	Source   providers.AuctionSource
}

type Dependencies struct {
	Config    *config.Config
	Metrics   *metrics.MetricsRegistry
	Repo      *Repositories
	Services  *Services
	Ingestion *jobs.IngestionJob

	closers []func() error
}

// InitDependencies opens the configured store and cache and wires services
func InitDependencies(ctx context.Context, cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	deps := &Dependencies{Config: cfg, Metrics: metricsReg}

	repos, err := deps.openStore(ctx)
	if err != nil {
		deps.Close()
		return nil, err
	}
	deps.Repo = repos

	cache := deps.openCache(ctx)
	normalizer := services.NewNormalizer()
	pipeline := services.NewListingPipeline(normalizer)
	facets := services.NewFacetsService(repos.Listings, cache, cfg.Cache.FacetTTL, metricsReg)
	source := providers.NewManheimProvider(cfg.Source, metricsReg)

	deps.Services = &Services{
		Cache:    cache,
		Facets:   facets,
		Listings: services.NewListingQueryService(repos.Listings, facets),
		Market:   services.NewMarketAnalysisService(repos.Listings),
		Auctions: services.NewAuctionSiteService(repos.Listings),
		Actions:  services.NewActionService(repos.Listings),
		Pipeline: pipeline,
		Source:   source,
	}

	var runs jobs.RunHistory
	if repos.Runs != nil {
		runs = repos.Runs
	}
	deps.Ingestion = jobs.NewIngestionJob(source, repos.Listings, pipeline, runs, facets, metricsReg, cfg.Ingestion)

	if cfg.UseFixtures {
		logging.Warn("USE_FIXTURES is set: serving bundled fixture listings, not live auction data")
		counts, err := services.SeedFixtures(ctx, repos.Listings, pipeline)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to seed fixtures: %w", err)
		}
		logging.Info("Fixture listings loaded", "inserted", counts.Inserted, "rejected", counts.Rejected)
	}

	return deps, nil
}

func (d *Dependencies) openStore(ctx context.Context) (*Repositories, error) {
	cfg := d.Config

	if cfg.UseFixtures {
		return &Repositories{Listings: repositories.NewListingMemoryRepository()}, nil
	}

	switch cfg.Store.Driver {
	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		gormDB, err := db.OpenORM(cfg.Store)
		if err != nil {
			return nil, err
		}
		if sqlDB, err := gormDB.DB(); err == nil {
			d.closers = append(d.closers, sqlDB.Close)
		}

		listings := repositories.NewListingGormRepository(gormDB, cfg.Store.Collection, d.Metrics)
		if err := listings.Migrate(ctx); err != nil {
			return nil, err
		}
		if err := gormDB.WithContext(ctx).AutoMigrate(&gormModels.IngestionRun{}); err != nil {
			return nil, fmt.Errorf("failed to migrate ingestion runs: %w", err)
		}

		sqlxDB, err := db.OpenSQLX(cfg.Store, gormDB)
		if err != nil {
			return nil, err
		}
		if cfg.Store.Driver == config.StoreDriverPostgres {
			d.closers = append(d.closers, sqlxDB.Close)
		}

		logging.Info("Listing store ready", "driver", cfg.Store.Driver, "table", cfg.Store.Collection)
		return &Repositories{
			Listings: listings,
			Runs:     repositories.NewIngestionRunRepository(sqlxDB),
		}, nil

	case config.StoreDriverMongo:
		client, err := db.ConnectMongo(ctx, cfg.Store.MongoURI)
		if err != nil {
			return nil, err
		}
		d.closers = append(d.closers, func() error { return client.Disconnect(context.Background()) })

		listings := repositories.NewListingMongoRepository(client, cfg.Store.Database, cfg.Store.Collection, d.Metrics)
		if err := listings.EnsureIndexes(ctx); err != nil {
			return nil, err
		}

		logging.Info("Listing store ready", "driver", cfg.Store.Driver, "database", cfg.Store.Database, "collection", cfg.Store.Collection)
		return &Repositories{Listings: listings}, nil
	}

	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// openCache returns the configured facet cache. An unreachable redis falls
// back to the in-process cache with a warning.
func (d *Dependencies) openCache(ctx context.Context) common.CacheInterface {
	if d.Config.Cache.Driver == config.CacheDriverRedis {
		client := common.NewRedisClient(d.Config.Redis)
		cache, err := common.NewRedisCacheService(ctx, client, redisKeyPrefix)
		if err == nil {
			d.closers = append(d.closers, cache.Close)
			return cache
		}
		_ = client.Close()
		logging.Warn("Redis unavailable, using in-memory facet cache", "error", err)
	}
	return common.NewCacheService(memoryCacheTTL, memoryCacheCleanup)
}

// Close releases every connection opened by InitDependencies
func (d *Dependencies) Close() error {
	var errs []error
	for i := len(d.closers) - 1; i >= 0; i-- {
		if err := d.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	d.closers = nil
	return errors.Join(errs...)
}
