package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// FindPayments lists payments matching the filter, oldest first.
func (r *MongoDBRepository) FindPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "createdAt", Value: 1}})
	payments := []models.Payment{}
	if err := r.findMany(ctx, paymentsColl, paymentFilter(filter), &payments, opts); err != nil {
		return nil, err
	}
	return payments, nil
}

// CreatePayment records a payment.
func (r *MongoDBRepository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now
	if _, err := r.db.Collection(paymentsColl).InsertOne(ctx, payment); err != nil {
		return fmt.Errorf("failed to insert payment: %w", err)
	}
	return nil
}

// DeletePayment removes a payment.
func (r *MongoDBRepository) DeletePayment(ctx context.Context, id string) error {
	return r.deleteByID(ctx, paymentsColl, id, "payment")
}

// LoadSettings reads the settings document.
func (r *MongoDBRepository) LoadSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.findOne(ctx, settingsColl, bson.M{"_id": models.SettingsID}, &settings, "settings", models.SettingsID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// SaveSettings writes the settings document, creating it if needed.
func (r *MongoDBRepository) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now().UTC()
	return r.upsertByID(ctx, settingsColl, settings.ID, settings)
}

// SaveDailySummary saves a daily summary, replacing any earlier one for the date.
func (r *MongoDBRepository) SaveDailySummary(ctx context.Context, summary *models.DailySummary) error {
	summary.CreatedAt = time.Now().UTC()
	return r.upsertByID(ctx, summariesColl, summary.Date, summary)
}

// FindDailySummaries lists snapshots in a date range, oldest first.
func (r *MongoDBRepository) FindDailySummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	filter := bson.M{}
	if dates := dateRange(startDate, endDate); dates != nil {
		filter["_id"] = dates
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	summaries := []models.DailySummary{}
	if err := r.findMany(ctx, summariesColl, filter, &summaries, opts); err != nil {
		return nil, err
	}
	return summaries, nil
}
