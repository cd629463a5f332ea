package reporting

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/repository/sheets"
	"github.com/mamadbah2/milkbook/internal/service/billing"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/tally"
)

// Store is the slice of repository.Store a snapshot reads and writes.
type Store interface {
	FindCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error)
	FindDeliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error)
	FindStockEntries(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error)
	repository.SummaryRepository
}

// RevenueSource prices the deliveries of one day.
type RevenueSource interface {
	RevenueOn(ctx context.Context, date string) (models.Revenue, error)
}

// BillingSource produces the monthly bill run.
type BillingSource interface {
	Monthly(ctx context.Context, month, year int) (*models.MonthlyBilling, error)
}

// InventorySource reports the running milk balance.
type InventorySource interface {
	Current(ctx context.Context) (models.InventoryStatus, error)
}

// Service snapshots daily figures and mirrors them to Google Sheets.
type Service struct {
	store     Store
	revenue   RevenueSource
	billing   BillingSource
	inventory InventorySource
	sheets    sheets.Repository
	cal       calendar.Calendar
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. sheetsRepo may be nil,
// in which case nothing is exported.
func NewService(store Store, revenue RevenueSource, billingSrc BillingSource, inventory InventorySource, sheetsRepo sheets.Repository, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:     store,
		revenue:   revenue,
		billing:   billingSrc,
		inventory: inventory,
		sheets:    sheetsRepo,
		cal:       cal,
		logger:    logger,
	}
}

// ExportsEnabled reports whether a spreadsheet is configured.
func (s *Service) ExportsEnabled() bool {
	return s.sheets != nil
}

// Snapshot stores the figures of date (today when empty) and appends them to
// the Summary tab. An export failure is logged and does not fail the snapshot.
func (s *Service) Snapshot(ctx context.Context, date string) (*models.DailySummary, error) {
	if date == "" {
		date = s.cal.Today()
	}
	if _, err := models.ParseDay(date); err != nil {
		return nil, err
	}

	delivered := true
	rows, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{Date: date, Delivered: &delivered})
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}
	var morning, evening, total tally.Sum
	for _, d := range rows {
		total.Add(d.ActualAmount)
		if d.Shift == models.ShiftMorning {
			morning.Add(d.ActualAmount)
		} else {
			evening.Add(d.ActualAmount)
		}
	}

	entries, err := s.store.FindStockEntries(ctx, models.StockFilter{StartDate: date, EndDate: date})
	if err != nil {
		return nil, fmt.Errorf("load stock entries: %w", err)
	}
	var stockIn tally.Sum
	for _, e := range entries {
		stockIn.Add(e.Quantity)
	}

	revenue, err := s.revenue.RevenueOn(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("revenue: %w", err)
	}

	inventory, err := s.inventory.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	active := true
	customers, err := s.store.FindCustomers(ctx, models.CustomerFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("load active customers: %w", err)
	}

	summary := &models.DailySummary{
		Date:             date,
		LitersDelivered:  total.Float(),
		MorningLiters:    morning.Float(),
		EveningLiters:    evening.Float(),
		Revenue:          revenue.Amount,
		StockIn:          stockIn.Float(),
		CurrentInventory: inventory.CurrentInventory,
		ActiveCustomers:  len(customers),
	}
	if err := s.store.SaveDailySummary(ctx, summary); err != nil {
		return nil, fmt.Errorf("save daily summary: %w", err)
	}

	s.logger.Info("daily summary stored",
		zap.String("date", date),
		zap.Float64("liters", summary.LitersDelivered),
		zap.Float64("revenue", summary.Revenue))

	if s.sheets != nil {
		if err := s.sheets.WriteRow(ctx, sheets.SummaryRange, summaryRow(summary)); err != nil {
			s.logger.Error("failed to export daily summary", zap.String("date", date), zap.Error(err))
		}
	}
	return summary, nil
}

// ListSummaries returns stored snapshots between two dates, inclusive.
func (s *Service) ListSummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error) {
	for _, d := range []string{startDate, endDate} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDay(d); err != nil {
			return nil, err
		}
	}
	if startDate != "" && endDate != "" && startDate > endDate {
		return nil, models.NewValidationError("startDate must not be after endDate")
	}

	summaries, err := s.store.FindDailySummaries(ctx, startDate, endDate)
	if err != nil {
		return nil, fmt.Errorf("list daily summaries: %w", err)
	}
	if summaries == nil {
		summaries = []models.DailySummary{}
	}
	return summaries, nil
}

// ExportMonthlyBilling appends one Billing tab row per customer of the month.
// It returns the number of rows written.
func (s *Service) ExportMonthlyBilling(ctx context.Context, month, year int) (int, error) {
	if s.sheets == nil {
		return 0, models.NewValidationError("sheets export disabled")
	}

	report, err := s.billing.Monthly(ctx, month, year)
	if err != nil {
		return 0, fmt.Errorf("monthly billing: %w", err)
	}

	rows := billing.BillingRows(report)
	if err := s.sheets.AppendRows(ctx, sheets.BillingRange, rows); err != nil {
		return 0, fmt.Errorf("export billing: %w", err)
	}

	s.logger.Info("monthly billing exported",
		zap.Int("month", report.Month),
		zap.Int("year", report.Year),
		zap.Int("rows", len(rows)))
	return len(rows), nil
}

func summaryRow(summary *models.DailySummary) []interface{} {
	return []interface{}{
		summary.Date,
		summary.LitersDelivered,
		summary.MorningLiters,
		summary.EveningLiters,
		summary.Revenue,
		summary.StockIn,
		summary.CurrentInventory,
		summary.ActiveCustomers,
	}
}
