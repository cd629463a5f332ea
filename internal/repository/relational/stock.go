package relational

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

func (r *Repository) stockQuery(ctx context.Context, filter models.StockFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.StockEntry{})
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	return q
}

// FindStockEntries lists stock entries newest first.
func (r *Repository) FindStockEntries(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error) {
	q := r.stockQuery(ctx, filter)
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var entries []models.StockEntry
	if err := q.Order("date DESC").Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list stock entries: %w", err)
	}
	return entries, nil
}

// SumStock totals the quantity received over the filter's date range.
func (r *Repository) SumStock(ctx context.Context, filter models.StockFilter) (float64, error) {
	var total float64
	if err := r.stockQuery(ctx, filter).Select("COALESCE(SUM(quantity), 0)").Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("sum stock entries: %w", err)
	}
	return total, nil
}

// FindStockEntry loads one stock entry.
func (r *Repository) FindStockEntry(ctx context.Context, id string) (*models.StockEntry, error) {
	var entry models.StockEntry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "stock entry", id)
	}
	return &entry, nil
}

// CreateStockEntry appends a stock entry.
func (r *Repository) CreateStockEntry(ctx context.Context, entry *models.StockEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	entry.CreatedAt = time.Now().UTC()
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create stock entry: %w", err)
	}
	return nil
}

// DeleteStockEntry removes one stock entry.
func (r *Repository) DeleteStockEntry(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.StockEntry{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete stock entry: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("stock entry", id)
	}
	return nil
}

// FindSources lists sources by name.
func (r *Repository) FindSources(ctx context.Context, activeOnly bool) ([]models.Source, error) {
	q := r.db.WithContext(ctx).Model(&models.Source{})
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var sources []models.Source
	if err := q.Order("name ASC").Find(&sources).Error; err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	return sources, nil
}

// FindSource loads one source.
func (r *Repository) FindSource(ctx context.Context, id string) (*models.Source, error) {
	var source models.Source
	if err := r.db.WithContext(ctx).First(&source, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "source", id)
	}
	return &source, nil
}

// FindSourceByName looks a source up case-insensitively.
func (r *Repository) FindSourceByName(ctx context.Context, name string) (*models.Source, error) {
	var source models.Source
	err := r.db.WithContext(ctx).
		Where("name_key = ?", sourceNameKey(name)).
		First(&source).Error
	if err != nil {
		return nil, notFound(err, "source", name)
	}
	return &source, nil
}

// CreateSource inserts a source.
func (r *Repository) CreateSource(ctx context.Context, source *models.Source) error {
	if source.ID == "" {
		source.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	source.CreatedAt, source.UpdatedAt = now, now
	source.NameKey = sourceNameKey(source.Name)
	if err := r.db.WithContext(ctx).Create(source).Error; err != nil {
		return fmt.Errorf("create source: %w", err)
	}
	return nil
}

// UpdateSource overwrites an existing source.
func (r *Repository) UpdateSource(ctx context.Context, source *models.Source) error {
	source.UpdatedAt = time.Now().UTC()
	source.NameKey = sourceNameKey(source.Name)
	res := r.db.WithContext(ctx).Model(&models.Source{}).
		Where("id = ?", source.ID).
		Select("name", "name_key", "type", "is_active", "updated_at").
		Updates(source)
	if res.Error != nil {
		return fmt.Errorf("update source: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("source", source.ID)
	}
	return nil
}

// sourceNameKey is the case-folded name the unique index is built on.
func sourceNameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
