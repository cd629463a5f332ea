package relational

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// FindPayments lists payments matching the filter, oldest first.
func (r *Repository) FindPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	q := r.db.WithContext(ctx).Model(&models.Payment{})
	if filter.CustomerID != "" {
		q = q.Where("customer_id = ?", filter.CustomerID)
	}
	if filter.Month != 0 {
		q = q.Where("month = ?", filter.Month)
	}
	if filter.Year != 0 {
		q = q.Where("year = ?", filter.Year)
	}
	var payments []models.Payment
	if err := q.Order("date ASC").Order("created_at ASC").Find(&payments).Error; err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return payments, nil
}

// CreatePayment records a payment.
func (r *Repository) CreatePayment(ctx context.Context, payment *models.Payment) error {
	if payment.ID == "" {
		payment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	payment.CreatedAt, payment.UpdatedAt = now, now
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// DeletePayment removes a payment.
func (r *Repository) DeletePayment(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Payment{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete payment: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("payment", id)
	}
	return nil
}

// LoadSettings reads the settings record.
func (r *Repository) LoadSettings(ctx context.Context) (*models.Settings, error) {
	var settings models.Settings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.SettingsID).Error; err != nil {
		return nil, notFound(err, "settings", models.SettingsID)
	}
	return &settings, nil
}

// SaveSettings writes the settings record, creating it if needed.
func (r *Repository) SaveSettings(ctx context.Context, settings *models.Settings) error {
	settings.ID = models.SettingsID
	settings.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, UpdateAll: true}).
		Create(settings).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

// SaveDailySummary writes the snapshot for a date, replacing any earlier one.
func (r *Repository) SaveDailySummary(ctx context.Context, summary *models.DailySummary) error {
	summary.CreatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "date"}}, UpdateAll: true}).
		Create(summary).Error
	if err != nil {
		return fmt.Errorf("save daily summary: %w", err)
	}
	return nil
}

// FindDailySummaries lists snapshots in a date range, oldest first.
func (r *Repository) FindDailySummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	q := r.db.WithContext(ctx).Model(&models.DailySummary{})
	if startDate != "" {
		q = q.Where("date >= ?", startDate)
	}
	if endDate != "" {
		q = q.Where("date <= ?", endDate)
	}
	var summaries []models.DailySummary
	if err := q.Order("date ASC").Find(&summaries).Error; err != nil {
		return nil, fmt.Errorf("list daily summaries: %w", err)
	}
	return summaries, nil
}
