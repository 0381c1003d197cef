package repositories

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"vehicle-auction/inventory/internal/metrics"
	gormModels "vehicle-auction/inventory/internal/models/gorm"
	"vehicle-auction/inventory/internal/query"
)

const mongoDuplicateKeyCode = 11000

// ListingMongoRepository stores listings as documents in one collection
type ListingMongoRepository struct {
	client *mongo.Client
	coll   *mongo.Collection
	storeObserver
}

// NewListingMongoRepository creates a mongo-backed listing store
func NewListingMongoRepository(client *mongo.Client, database, collection string, reg *metrics.MetricsRegistry) *ListingMongoRepository {
	return &ListingMongoRepository{
		client:        client,
		coll:          client.Database(database).Collection(collection),
		storeObserver: storeObserver{metrics: reg},
	}
}

func (r *ListingMongoRepository) Name() string {
	return "mongo"
}

// EnsureIndexes creates the unique sparse indexes on vin and id
func (r *ListingMongoRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: string(query.FieldVIN), Value: 1}},
			Options: options.Index().SetName("vin_unique").SetUnique(true).SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetName("id_unique").SetUnique(true).SetSparse(true),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create listing indexes: %w", err)
	}
	return nil
}

func (r *ListingMongoRepository) Reset(ctx context.Context) (err error) {
	defer func(start time.Time) { r.observe("reset", start, err) }(time.Now())

	if _, err = r.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return unavailable("reset", err)
	}
	if err = r.EnsureIndexes(ctx); err != nil {
		return unavailable("reset", err)
	}
	return nil
}

// InsertBatch uses an unordered InsertMany; duplicate-key write errors are
// counted and every other record is still inserted
func (r *ListingMongoRepository) InsertBatch(ctx context.Context, listings []gormModels.Listing) (result InsertResult, err error) {
	defer func(start time.Time) { r.observe("insert", start, err) }(time.Now())

	unique, inBatchDups := dedupeBatch(listings)
	result.Duplicates = inBatchDups
	if len(unique) == 0 {
		return result, nil
	}

	docs := make([]interface{}, len(unique))
	for i := range unique {
		docs[i] = unique[i]
	}

	_, err = r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		result.Inserted = len(unique)
		return result, nil
	}

	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return result, unavailable("insert", err)
	}

	failed := 0
	for _, we := range bulkErr.WriteErrors {
		if we.Code != mongoDuplicateKeyCode {
			return result, unavailable("insert", err)
		}
		failed++
	}
	result.Inserted = len(unique) - failed
	result.Duplicates += failed
	return result, nil
}

func (r *ListingMongoRepository) Find(ctx context.Context, preds []query.Predicate, key query.SortKey, offset, limit int) (listings []gormModels.Listing, total int64, err error) {
	defer func(start time.Time) { r.observe("find", start, err) }(time.Now())

	filter := query.ToBSON(preds)
	if total, err = r.coll.CountDocuments(ctx, filter); err != nil {
		return nil, 0, unavailable("count", err)
	}

	opts := options.Find().
		SetSort(query.SortBSON(key)).
		SetSkip(int64(offset))
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, unavailable("find", err)
	}
	defer cursor.Close(ctx)

	listings = []gormModels.Listing{}
	if err = cursor.All(ctx, &listings); err != nil {
		return nil, 0, unavailable("find", err)
	}
	return listings, total, nil
}

func (r *ListingMongoRepository) Distinct(ctx context.Context, field query.Field) (values []string, err error) {
	defer func(start time.Time) { r.observe("distinct", start, err) }(time.Now())

	raw, err := r.coll.Distinct(ctx, string(field), bson.D{})
	if err != nil {
		return nil, unavailable("distinct", err)
	}

	values = make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok && s != "" {
			values = append(values, s)
		}
	}
	sort.Strings(values)
	return values, nil
}

func (r *ListingMongoRepository) GetByID(ctx context.Context, id string) (*gormModels.Listing, error) {
	start := time.Now()
	filter := bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "id", Value: id}},
		bson.D{{Key: string(query.FieldVIN), Value: id}},
	}}}

	var listing gormModels.Listing
	err := r.coll.FindOne(ctx, filter).Decode(&listing)
	if errors.Is(err, mongo.ErrNoDocuments) {
		r.observe("get", start, nil)
		return nil, ErrListingNotFound
	}
	r.observe("get", start, err)
	if err != nil {
		return nil, unavailable("get", err)
	}
	return &listing, nil
}

func (r *ListingMongoRepository) Count(ctx context.Context) (int64, error) {
	total, err := r.coll.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, unavailable("count", err)
	}
	return total, nil
}

func (r *ListingMongoRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx, readpref.Primary()); err != nil {
		return unavailable("ping", err)
	}
	return nil
}
