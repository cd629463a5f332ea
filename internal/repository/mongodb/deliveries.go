package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// FindDelivery loads the row for a (customer, date, shift) key.
func (r *MongoDBRepository) FindDelivery(ctx context.Context, key models.DeliveryKey) (*models.Delivery, error) {
	var delivery models.Delivery
	id := key.CustomerID + "/" + key.Date + "/" + string(key.Shift)
	if err := r.findOne(ctx, deliveriesColl, deliveryKeyFilter(key), &delivery, "delivery", id); err != nil {
		return nil, err
	}
	return &delivery, nil
}

// FindDeliveries lists deliveries by date, morning first.
func (r *MongoDBRepository) FindDeliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "shift", Value: -1}})
	deliveries := []models.Delivery{}
	if err := r.findMany(ctx, deliveriesColl, deliveryFilter(filter), &deliveries, opts); err != nil {
		return nil, err
	}
	return deliveries, nil
}

// SumDelivered totals actualAmount over the matching deliveries.
func (r *MongoDBRepository) SumDelivered(ctx context.Context, filter models.DeliveryFilter) (float64, error) {
	return r.sum(ctx, deliveriesColl, deliveryFilter(filter), "actualAmount")
}

// UpsertDelivery writes through the unique delivery_key index. A duplicate key
// error means a concurrent writer inserted first; the retry then updates it.
func (r *MongoDBRepository) UpsertDelivery(ctx context.Context, upsert models.DeliveryUpsert) (*models.Delivery, error) {
	now := time.Now().UTC()
	set := bson.M{
		"actualAmount": upsert.ActualAmount,
		"delivered":    upsert.Delivered,
		"updatedAt":    now,
	}
	if upsert.Notes != nil {
		set["notes"] = *upsert.Notes
	}
	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":       uuid.NewString(),
			"quota":     upsert.Quota,
			"createdAt": now,
		},
	}

	coll := r.db.Collection(deliveriesColl)
	opts := options.Update().SetUpsert(true)
	_, err := coll.UpdateOne(ctx, deliveryKeyFilter(upsert.Key), update, opts)
	if mongo.IsDuplicateKeyError(err) {
		_, err = coll.UpdateOne(ctx, deliveryKeyFilter(upsert.Key), update, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert delivery: %w", err)
	}

	return r.FindDelivery(ctx, upsert.Key)
}

// ClearDeliveries zeroes amounts and delivered flags for one date and shift.
func (r *MongoDBRepository) ClearDeliveries(ctx context.Context, date string, shift models.Shift) (int64, error) {
	res, err := r.db.Collection(deliveriesColl).UpdateMany(ctx,
		bson.M{"date": date, "shift": shift},
		bson.M{"$set": bson.M{"actualAmount": 0.0, "delivered": false, "updatedAt": time.Now().UTC()}},
	)
	if err != nil {
		return 0, fmt.Errorf("clear deliveries: %w", err)
	}
	return res.MatchedCount, nil
}
