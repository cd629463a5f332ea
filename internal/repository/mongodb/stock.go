package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// FindStockEntries lists stock entries newest first.
func (r *MongoDBRepository) FindStockEntries(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error) {
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit))
	}
	entries := []models.StockEntry{}
	if err := r.findMany(ctx, stockColl, stockFilter(filter), &entries, opts); err != nil {
		return nil, err
	}
	return entries, nil
}

// SumStock totals the quantity received over the filter's date range.
func (r *MongoDBRepository) SumStock(ctx context.Context, filter models.StockFilter) (float64, error) {
	return r.sum(ctx, stockColl, stockFilter(filter), "quantity")
}

// FindStockEntry loads one stock entry.
func (r *MongoDBRepository) FindStockEntry(ctx context.Context, id string) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := r.findOne(ctx, stockColl, bson.M{"_id": id}, &entry, "stock entry", id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateStockEntry appends a stock entry.
func (r *MongoDBRepository) CreateStockEntry(ctx context.Context, entry *models.StockEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	if _, err := r.db.Collection(stockColl).InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to insert stock entry: %w", err)
	}
	return nil
}

// DeleteStockEntry removes one stock entry.
func (r *MongoDBRepository) DeleteStockEntry(ctx context.Context, id string) error {
	return r.deleteByID(ctx, stockColl, id, "stock entry")
}

// FindSources lists sources by name.
func (r *MongoDBRepository) FindSources(ctx context.Context, activeOnly bool) ([]models.Source, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(nameCollation)
	sources := []models.Source{}
	if err := r.findMany(ctx, sourcesColl, filter, &sources, opts); err != nil {
		return nil, err
	}
	return sources, nil
}

// FindSource loads one source.
func (r *MongoDBRepository) FindSource(ctx context.Context, id string) (*models.Source, error) {
	var source models.Source
	if err := r.findOne(ctx, sourcesColl, bson.M{"_id": id}, &source, "source", id); err != nil {
		return nil, err
	}
	return &source, nil
}

// FindSourceByName looks a source up case-insensitively.
func (r *MongoDBRepository) FindSourceByName(ctx context.Context, name string) (*models.Source, error) {
	pattern := primitive.Regex{Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(name)) + "$", Options: "i"}
	var source models.Source
	if err := r.findOne(ctx, sourcesColl, bson.M{"name": pattern}, &source, "source", name); err != nil {
		return nil, err
	}
	return &source, nil
}

// CreateSource inserts a source.
func (r *MongoDBRepository) CreateSource(ctx context.Context, source *models.Source) error {
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	source.CreatedAt, source.UpdatedAt = now, now
	if _, err := r.db.Collection(sourcesColl).InsertOne(ctx, source); err != nil {
		return fmt.Errorf("failed to insert source: %w", err)
	}
	return nil
}

// UpdateSource replaces an existing source document.
func (r *MongoDBRepository) UpdateSource(ctx context.Context, source *models.Source) error {
	source.UpdatedAt = time.Now().UTC()
	return r.replaceExisting(ctx, sourcesColl, source.ID, source, "source")
}
