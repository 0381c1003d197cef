package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	gormlib "gorm.io/gorm"
	"gorm.io/gorm/clause"

	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

const insertBatchSize = 200

// ListingGormRepository stores listings in a SQL table (postgres or sqlite)
type ListingGormRepository struct {
	db    *gormlib.DB
	table string
	storeObserver
}

// NewListingGormRepository creates a gorm-backed listing store on table
func NewListingGormRepository(db *gormlib.DB, table string, reg *metrics.MetricsRegistry) *ListingGormRepository {
	if table == "" {
		table = gormModels.Listing{}.TableName()
	}
	return &ListingGormRepository{
		db:            db,
		table:         table,
		storeObserver: storeObserver{metrics: reg},
	}
}

func (r *ListingGormRepository) Name() string {
	return r.db.Dialector.Name()
}

func (r *ListingGormRepository) tx(ctx context.Context) *gormlib.DB {
	return r.db.WithContext(ctx).Table(r.table)
}

// Migrate creates the listing table and its unique indexes
func (r *ListingGormRepository) Migrate(ctx context.Context) error {
	if err := r.tx(ctx).AutoMigrate(&gormModels.Listing{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", r.table, err)
	}
	return nil
}

// Reset deletes all listings and re-establishes the schema
func (r *ListingGormRepository) Reset(ctx context.Context) (err error) {
	defer func(start time.Time) { r.observe("reset", start, err) }(time.Now())

	if err = r.Migrate(ctx); err != nil {
		return unavailable("reset", err)
	}
	if err = r.tx(ctx).Where("1 = 1").Delete(&gormModels.Listing{}).Error; err != nil {
		return unavailable("reset", err)
	}
	return nil
}

// InsertBatch inserts with ON CONFLICT DO NOTHING; skipped rows are duplicates
func (r *ListingGormRepository) InsertBatch(ctx context.Context, listings []gormModels.Listing) (result InsertResult, err error) {
	defer func(start time.Time) { r.observe("insert", start, err) }(time.Now())

	unique, inBatchDups := dedupeBatch(listings)
	result.Duplicates = inBatchDups
	if len(unique) == 0 {
		return result, nil
	}

	res := r.tx(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&unique, insertBatchSize)
	if res.Error != nil {
		return result, unavailable("insert", res.Error)
	}

	result.Inserted = int(res.RowsAffected)
	result.Duplicates += len(unique) - result.Inserted
	return result, nil
}

func (r *ListingGormRepository) Find(ctx context.Context, preds []query.Predicate, key query.SortKey, offset, limit int) (listings []gormModels.Listing, total int64, err error) {
	defer func(start time.Time) { r.observe("find", start, err) }(time.Now())

	if err = query.ApplyGorm(r.tx(ctx), preds).Count(&total).Error; err != nil {
		return nil, 0, unavailable("count", err)
	}

	tx := query.OrderGorm(query.ApplyGorm(r.tx(ctx), preds), key).Offset(offset)
	if limit > 0 {
		tx = tx.Limit(limit)
	}
	if err = tx.Find(&listings).Error; err != nil {
		return nil, 0, unavailable("find", err)
	}
	return listings, total, nil
}

func (r *ListingGormRepository) Distinct(ctx context.Context, field query.Field) (values []string, err error) {
	defer func(start time.Time) { r.observe("distinct", start, err) }(time.Now())

	col := field.Column()
	if col == "" || field.IsList() {
		return nil, fmt.Errorf("field %q has no scalar column", field)
	}

	err = r.tx(ctx).
		Where(fmt.Sprintf("%s IS NOT NULL AND %s <> ''", col, col)).
		Distinct().
		Pluck(col, &values).Error
	if err != nil {
		return nil, unavailable("distinct", err)
	}
	sort.Strings(values)
	return values, nil
}

func (r *ListingGormRepository) GetByID(ctx context.Context, id string) (*gormModels.Listing, error) {
	var listing gormModels.Listing
	start := time.Now()

	err := r.tx(ctx).
		Where("id = ? OR vin = ?", id, id).
		First(&listing).Error
	if errors.Is(err, gormlib.ErrRecordNotFound) {
		r.observe("get", start, nil)
		return nil, ErrListingNotFound
	}
	r.observe("get", start, err)
	if err != nil {
		return nil, unavailable("get", err)
	}
	return &listing, nil
}

func (r *ListingGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := r.tx(ctx).Count(&total).Error; err != nil {
		return 0, unavailable("count", err)
	}
	return total, nil
}

func (r *ListingGormRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return unavailable("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}
