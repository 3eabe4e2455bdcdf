// Package entry persists accounts filing entries in MongoDB.
package entry

import (
	"context"
	"errors"
	"time"

	"github.com/LerianStudio/accounts-filing-api/internal/filing"
	"github.com/LerianStudio/accounts-filing-api/pkg"
	"github.com/LerianStudio/accounts-filing-api/pkg/constant"
	"github.com/LerianStudio/accounts-filing-api/pkg/log"
	libMongo "github.com/LerianStudio/accounts-filing-api/pkg/mongo"
	"github.com/LerianStudio/accounts-filing-api/pkg/opentelemetry"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/otel/attribute"
)

// CollectionName is the collection holding filing entries.
const CollectionName = "accounts_filing"

// Repository provides an interface for operations related to filing entries.
type Repository interface {
	// FindByID returns nil and no error when the entry does not exist.
	FindByID(ctx context.Context, id string) (*filing.Entry, error)
	// Save inserts or fully replaces the entry. Concurrent saves of one id
	// are last-writer-wins.
	Save(ctx context.Context, e *filing.Entry) (*filing.Entry, error)
}

// MongoDBRepository is a MongoDB implementation of Repository.
type MongoDBRepository struct {
	connection *libMongo.Client
	now        func() time.Time
}

// NewMongoDBRepository returns a repository over connection.
func NewMongoDBRepository(connection *libMongo.Client) *MongoDBRepository {
	return &MongoDBRepository{connection: connection, now: time.Now}
}

// Indexes are created at startup by EnsureIndexes.
func Indexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "transaction_id", Value: 1}},
			Options: options.Index().SetName("transaction_id_idx"),
		},
	}
}

// EnsureIndexes creates the indexes of the entry collection.
func (r *MongoDBRepository) EnsureIndexes(ctx context.Context) error {
	return r.connection.EnsureIndexes(ctx, CollectionName, Indexes()...)
}

func (r *MongoDBRepository) collection(ctx context.Context) (*mongo.Collection, error) {
	db, err := r.connection.Database(ctx)
	if err != nil {
		return nil, err
	}

	return db.Collection(CollectionName), nil
}

// FindByID retrieves an entry by id.
func (r *MongoDBRepository) FindByID(ctx context.Context, id string) (*filing.Entry, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.find_entry_by_id")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrDBSystem, constant.DBSystemMongoDB),
		attribute.String(constant.AttrDBMongoDBCollection, CollectionName),
		attribute.String(constant.AttrEntryID, id),
	)

	coll, err := r.collection(ctx)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to get database", err)

		return nil, err
	}

	var record MongoDBModel

	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to find entry", err)
		logger.Log(ctx, log.LevelError, "failed to find entry", log.String("id", id), log.Err(err))

		return nil, err
	}

	return record.ToEntity(), nil
}

// Save replaces the stored entry with e, inserting it when absent. CreatedAt
// is set on first save and UpdatedAt on every save.
func (r *MongoDBRepository) Save(ctx context.Context, e *filing.Entry) (*filing.Entry, error) {
	logger, tracer, _ := pkg.NewTrackingFromContext(ctx)

	ctx, span := tracer.Start(ctx, "mongodb.save_entry")
	defer span.End()

	span.SetAttributes(
		attribute.String(constant.AttrDBSystem, constant.DBSystemMongoDB),
		attribute.String(constant.AttrDBMongoDBCollection, CollectionName),
		attribute.String(constant.AttrEntryID, e.ID),
	)

	coll, err := r.collection(ctx)
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to get database", err)

		return nil, err
	}

	saved := *e

	now := r.now().UTC().Truncate(time.Millisecond)
	if saved.CreatedAt.IsZero() {
		saved.CreatedAt = now
	}

	saved.UpdatedAt = now

	var record MongoDBModel
	record.FromEntity(&saved)

	_, err = coll.ReplaceOne(ctx, bson.M{"_id": saved.ID}, record, options.Replace().SetUpsert(true))
	if err != nil {
		opentelemetry.HandleSpanError(span, "Failed to save entry", err)
		logger.Log(ctx, log.LevelError, "failed to save entry", log.String("id", saved.ID), log.Err(err))

		return nil, err
	}

	return &saved, nil
}
