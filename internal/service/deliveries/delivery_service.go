package deliveries

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/tally"
)

// Service maintains the per-shift delivery ledger.
type Service struct {
	store  repository.Store
	cal    calendar.Calendar
	logger *zap.Logger
}

// NewService wires a delivery ledger service.
func NewService(store repository.Store, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, cal: cal, logger: logger}
}

// ListForDateShift returns one row per active customer, by name. Customers
// without a stored delivery get a placeholder carrying their current quota.
func (s *Service) ListForDateShift(ctx context.Context, date string, shift models.Shift) ([]models.LedgerRow, error) {
	if err := checkShift(date, shift); err != nil {
		return nil, err
	}

	active := true
	customers, err := s.store.FindCustomers(ctx, models.CustomerFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("load active customers: %w", err)
	}

	deliveries, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{Date: date, Shift: shift})
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}
	byCustomer := make(map[string]models.Delivery, len(deliveries))
	for _, d := range deliveries {
		byCustomer[d.CustomerID] = d
	}

	rows := make([]models.LedgerRow, 0, len(customers))
	for _, c := range customers {
		row := models.LedgerRow{
			CustomerID:   c.ID,
			CustomerName: c.Name,
			Address:      c.Address,
			Phone:        c.Phone,
			Category:     c.Category,
			Date:         date,
			Shift:        shift,
			Quota:        c.QuotaFor(shift),
		}
		if d, ok := byCustomer[c.ID]; ok {
			row.ID = d.ID
			row.Quota = d.Quota
			row.ActualAmount = d.ActualAmount
			row.Delivered = d.Delivered
			row.Notes = d.Notes
			row.Exists = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Upsert records one customer's delivery for a date and shift.
func (s *Service) Upsert(ctx context.Context, in models.DeliveryInput) (*models.Delivery, error) {
	shift, ok := models.ParseShift(in.Shift)
	if !ok {
		return nil, models.NewValidationError("shift must be MORNING or EVENING")
	}
	if err := checkShift(in.Date, shift); err != nil {
		return nil, err
	}
	if in.ActualAmount < 0 {
		return nil, models.NewValidationError("actualAmount must not be negative")
	}

	customer, err := s.store.FindCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	return upsertFor(ctx, s.store, customer, in.Date, shift, in.ActualAmount, in.Delivered, in.Notes)
}

// BulkUpdate applies every entry in one transaction. Entries naming a
// customer that does not exist are skipped and reported.
func (s *Service) BulkUpdate(ctx context.Context, date string, shift models.Shift, entries []models.DeliveryEntry) (models.BulkResult, error) {
	result := models.BulkResult{Skipped: []string{}}
	if err := checkShift(date, shift); err != nil {
		return result, err
	}
	for _, e := range entries {
		if e.ActualAmount < 0 {
			return result, models.NewValidationError("actualAmount must not be negative for customer %s", e.CustomerID)
		}
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		result = models.BulkResult{Skipped: []string{}}
		for _, e := range entries {
			customer, err := tx.FindCustomer(ctx, e.CustomerID)
			if errors.Is(err, models.ErrNotFound) {
				result.Skipped = append(result.Skipped, e.CustomerID)
				continue
			}
			if err != nil {
				return err
			}
			if _, err := upsertFor(ctx, tx, customer, date, shift, e.ActualAmount, e.Delivered, e.Notes); err != nil {
				return err
			}
			result.Updated++
		}
		return nil
	})
	if err != nil {
		return models.BulkResult{Skipped: []string{}}, fmt.Errorf("bulk update: %w", err)
	}

	if len(result.Skipped) > 0 {
		s.logger.Warn("bulk update skipped unknown customers",
			zap.String("date", date),
			zap.String("shift", string(shift)),
			zap.Strings("customer_ids", result.Skipped))
	}
	return result, nil
}

// Autofill marks every active customer with a quota for the shift as
// delivered at their quota. It returns the number of rows written.
func (s *Service) Autofill(ctx context.Context, date string, shift models.Shift) (int, error) {
	if err := checkShift(date, shift); err != nil {
		return 0, err
	}

	var count int
	err := s.store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		count = 0
		active := true
		customers, err := tx.FindCustomers(ctx, models.CustomerFilter{Active: &active})
		if err != nil {
			return err
		}
		for i := range customers {
			quota := customers[i].QuotaFor(shift)
			if quota <= 0 {
				continue
			}
			if _, err := upsertFor(ctx, tx, &customers[i], date, shift, quota, true, nil); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("autofill: %w", err)
	}

	s.logger.Info("deliveries autofilled", zap.String("date", date), zap.String("shift", string(shift)), zap.Int("count", count))
	return count, nil
}

// Clear zeroes every delivery of a date and shift without deleting rows.
func (s *Service) Clear(ctx context.Context, date string, shift models.Shift) (int64, error) {
	if err := checkShift(date, shift); err != nil {
		return 0, err
	}
	cleared, err := s.store.ClearDeliveries(ctx, date, shift)
	if err != nil {
		return 0, fmt.Errorf("clear: %w", err)
	}
	s.logger.Info("deliveries cleared", zap.String("date", date), zap.String("shift", string(shift)), zap.Int64("count", cleared))
	return cleared, nil
}

// TodayTotal sums the liters delivered today.
func (s *Service) TodayTotal(ctx context.Context) (models.DayTotal, error) {
	today := s.cal.Now()
	date := models.FormatDay(today)

	liters, err := DeliveredOn(ctx, s.store, date)
	if err != nil {
		return models.DayTotal{}, err
	}
	return models.DayTotal{Date: date, Day: today.Weekday().String()[:3], Liters: liters}, nil
}

// DeliveredOn sums actualAmount over the delivered rows of one date.
func DeliveredOn(ctx context.Context, repo repository.DeliveryRepository, date string) (float64, error) {
	delivered := true
	rows, err := repo.FindDeliveries(ctx, models.DeliveryFilter{Date: date, Delivered: &delivered})
	if err != nil {
		return 0, fmt.Errorf("load deliveries for %s: %w", date, err)
	}
	var sum tally.Sum
	for _, d := range rows {
		sum.Add(d.ActualAmount)
	}
	return sum.Float(), nil
}

func upsertFor(ctx context.Context, repo repository.DeliveryRepository, customer *models.Customer, date string, shift models.Shift, amount float64, delivered bool, notes *string) (*models.Delivery, error) {
	return repo.UpsertDelivery(ctx, models.DeliveryUpsert{
		Key:          models.DeliveryKey{CustomerID: customer.ID, Date: date, Shift: shift},
		Quota:        customer.QuotaFor(shift),
		ActualAmount: amount,
		Delivered:    delivered,
		Notes:        notes,
	})
}

func checkShift(date string, shift models.Shift) error {
	if _, err := models.ParseDay(date); err != nil {
		return err
	}
	if shift != models.ShiftMorning && shift != models.ShiftEvening {
		return models.NewValidationError("shift must be MORNING or EVENING")
	}
	return nil
}
