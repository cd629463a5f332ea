package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

var deliveryKeyColumns = []clause.Column{{Name: "customer_id"}, {Name: "date"}, {Name: "shift"}}

// FindDelivery loads the row for a (customer, date, shift) key.
func (r *Repository) FindDelivery(ctx context.Context, key models.DeliveryKey) (*models.Delivery, error) {
	var delivery models.Delivery
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND date = ? AND shift = ?", key.CustomerID, key.Date, key.Shift).
		First(&delivery).Error
	if err != nil {
		return nil, notFound(err, "delivery", key.CustomerID+"/"+key.Date+"/"+string(key.Shift))
	}
	return &delivery, nil
}

func (r *Repository) deliveryQuery(ctx context.Context, filter models.DeliveryFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Delivery{})
	if len(filter.CustomerIDs) > 0 {
		q = q.Where("customer_id IN ?", filter.CustomerIDs)
	}
	if filter.Date != "" {
		q = q.Where("date = ?", filter.Date)
	}
	if filter.StartDate != "" {
		q = q.Where("date >= ?", filter.StartDate)
	}
	if filter.EndDate != "" {
		q = q.Where("date <= ?", filter.EndDate)
	}
	if filter.Shift != "" {
		q = q.Where("shift = ?", filter.Shift)
	}
	if filter.Delivered != nil {
		q = q.Where("delivered = ?", *filter.Delivered)
	}
	return q
}

// FindDeliveries lists deliveries matching the filter.
func (r *Repository) FindDeliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := r.deliveryQuery(ctx, filter).Order("date ASC").Order("shift DESC").Find(&deliveries).Error; err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	return deliveries, nil
}

// SumDelivered totals actualAmount over the rows matching the filter.
func (r *Repository) SumDelivered(ctx context.Context, filter models.DeliveryFilter) (float64, error) {
	var total float64
	err := r.deliveryQuery(ctx, filter).
		Select("COALESCE(SUM(actual_amount), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("sum deliveries: %w", err)
	}
	return total, nil
}

// UpsertDelivery relies on the unique key index so concurrent writers merge
// into one row instead of racing between lookup and insert.
func (r *Repository) UpsertDelivery(ctx context.Context, upsert models.DeliveryUpsert) (*models.Delivery, error) {
	now := time.Now().UTC()
	row := models.Delivery{
		ID:           uuid.NewString(),
		CustomerID:   upsert.Key.CustomerID,
		Date:         upsert.Key.Date,
		Shift:        upsert.Key.Shift,
		Quota:        upsert.Quota,
		ActualAmount: upsert.ActualAmount,
		Delivered:    upsert.Delivered,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	updates := []string{"actual_amount", "delivered", "updated_at"}
	if upsert.Notes != nil {
		row.Notes = *upsert.Notes
		updates = append(updates, "notes")
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   deliveryKeyColumns,
		DoUpdates: clause.AssignmentColumns(updates),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert delivery: %w", err)
	}

	return r.FindDelivery(ctx, upsert.Key)
}

// ClearDeliveries zeroes amounts and delivered flags for one date and shift.
func (r *Repository) ClearDeliveries(ctx context.Context, date string, shift models.Shift) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Delivery{}).
		Where("date = ? AND shift = ?", date, shift).
		Updates(map[string]any{
			"actual_amount": 0,
			"delivered":     false,
			"updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return 0, fmt.Errorf("clear deliveries: %w", res.Error)
	}
	return res.RowsAffected, nil
}
