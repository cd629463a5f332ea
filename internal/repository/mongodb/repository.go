package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
)

const (
	customersColl  = "customers"
	deliveriesColl = "deliveries"
	stockColl      = "stock_entries"
	sourcesColl    = "sources"
	paymentsColl   = "payments"
	settingsColl   = "settings"
	summariesColl  = "daily_summaries"
)

// MongoDBRepository implements repository.Store for MongoDB. Transactions
// need a replica set deployment.
type MongoDBRepository struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.Logger
}

var _ repository.Store = (*MongoDBRepository)(nil)

// NewMongoDBRepository creates a new MongoDB repository and ensures its indexes.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string, logger *zap.Logger) (*MongoDBRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	repo := &MongoDBRepository{
		client: client,
		db:     client.Database(dbName),
		logger: logger,
	}
	if err := repo.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return repo, nil
}

func (r *MongoDBRepository) ensureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		deliveriesColl: {
			{
				Keys:    bson.D{{Key: "customerId", Value: 1}, {Key: "date", Value: 1}, {Key: "shift", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("delivery_key"),
			},
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "delivered", Value: 1}}},
		},
		customersColl: {{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "name", Value: 1}}}},
		sourcesColl: {{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetCollation(&options.Collation{Locale: "en", Strength: 2}),
		}},
		stockColl:    {{Keys: bson.D{{Key: "date", Value: -1}}}},
		paymentsColl: {{Keys: bson.D{{Key: "customerId", Value: 1}, {Key: "year", Value: 1}, {Key: "month", Value: 1}}}},
	}

	for coll, specs := range indexes {
		if _, err := r.db.Collection(coll).Indexes().CreateMany(ctx, specs); err != nil {
			return fmt.Errorf("failed to create %s indexes: %w", coll, err)
		}
	}
	r.logger.Debug("mongodb indexes ensured", zap.Int("collections", len(indexes)))
	return nil
}

// WithTransaction runs fn inside a session transaction. Repository calls made
// with the session context join the transaction.
func (r *MongoDBRepository) WithTransaction(ctx context.Context, fn repository.TxFunc) error {
	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start mongodb session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc, r)
	})
	return err
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func (r *MongoDBRepository) findOne(ctx context.Context, coll string, filter any, out any, resource, id string) error {
	err := r.db.Collection(coll).FindOne(ctx, filter).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.NewNotFoundError(resource, id)
	}
	if err != nil {
		return fmt.Errorf("find %s: %w", resource, err)
	}
	return nil
}

func (r *MongoDBRepository) findMany(ctx context.Context, coll string, filter any, out any, opts *options.FindOptions) error {
	cursor, err := r.db.Collection(coll).Find(ctx, filter, opts)
	if err != nil {
		return fmt.Errorf("find in %s: %w", coll, err)
	}
	if err := cursor.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", coll, err)
	}
	return nil
}

func (r *MongoDBRepository) replaceExisting(ctx context.Context, coll string, id string, doc any, resource string) error {
	res, err := r.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return fmt.Errorf("update %s: %w", resource, err)
	}
	if res.MatchedCount == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}

func (r *MongoDBRepository) upsertByID(ctx context.Context, coll string, id string, doc any) error {
	_, err := r.db.Collection(coll).ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save into %s: %w", coll, err)
	}
	return nil
}

func (r *MongoDBRepository) deleteByID(ctx context.Context, coll string, id string, resource string) error {
	res, err := r.db.Collection(coll).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete %s: %w", resource, err)
	}
	if res.DeletedCount == 0 {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}

// sum totals one numeric field over the documents matching filter.
func (r *MongoDBRepository) sum(ctx context.Context, coll string, filter bson.M, field string) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$" + field}}},
		}}},
	}
	cursor, err := r.db.Collection(coll).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, fmt.Errorf("sum %s.%s: %w", coll, field, err)
	}
	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("decode %s sum: %w", coll, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
