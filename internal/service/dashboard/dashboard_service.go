package dashboard

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/deliveries"
	"github.com/mamadbah2/milkbook/internal/service/tally"
)

// Store is the slice of repository.Store the dashboard reads from.
type Store interface {
	FindCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error)
	repository.DeliveryRepository
}

// RevenueSource estimates today's income.
type RevenueSource interface {
	TodayRevenue(ctx context.Context) (models.Revenue, error)
}

// InventorySource reports the running milk balance.
type InventorySource interface {
	Current(ctx context.Context) (models.InventoryStatus, error)
}

// Service composes the landing-page figures.
type Service struct {
	store     Store
	revenue   RevenueSource
	inventory InventorySource
	cal       calendar.Calendar
	logger    *zap.Logger
}

// NewService wires a dashboard service.
func NewService(store Store, revenue RevenueSource, inventory InventorySource, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, revenue: revenue, inventory: inventory, cal: cal, logger: logger}
}

// Stats returns today's totals, the pending count for the current shift and
// the Monday to Sunday trend of the current week.
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	now := s.cal.Now()
	today := models.FormatDay(now)
	shift := models.ShiftAt(now)

	active := true
	customers, err := s.store.FindCustomers(ctx, models.CustomerFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("load active customers: %w", err)
	}

	todayLiters, err := deliveries.DeliveredOn(ctx, s.store, today)
	if err != nil {
		return nil, err
	}

	revenue, err := s.revenue.TodayRevenue(ctx)
	if err != nil {
		return nil, fmt.Errorf("today revenue: %w", err)
	}

	inventory, err := s.inventory.Current(ctx)
	if err != nil {
		return nil, fmt.Errorf("inventory: %w", err)
	}

	pending, err := s.pending(ctx, customers, today, shift)
	if err != nil {
		return nil, err
	}

	trend, err := s.weeklyTrend(ctx)
	if err != nil {
		return nil, err
	}

	return &models.DashboardStats{
		Date:              today,
		CurrentShift:      shift,
		TodayLiters:       todayLiters,
		TodayRevenue:      revenue.Amount,
		ActiveCustomers:   len(customers),
		Inventory:         inventory,
		PendingDeliveries: pending,
		WeeklyTrend:       trend,
	}, nil
}

// Comparison contrasts today's delivered liters with yesterday's. The
// percentage change is 0 when nothing was delivered yesterday.
func (s *Service) Comparison(ctx context.Context) (*models.Comparison, error) {
	today, err := deliveries.DeliveredOn(ctx, s.store, s.cal.Today())
	if err != nil {
		return nil, err
	}
	yesterday, err := deliveries.DeliveredOn(ctx, s.store, s.cal.Yesterday())
	if err != nil {
		return nil, err
	}

	diff := today - yesterday
	return &models.Comparison{
		Today:            today,
		Yesterday:        yesterday,
		Difference:       diff,
		PercentageChange: tally.Percent(diff, yesterday),
	}, nil
}

// pending counts active customers with a quota for the shift and no
// delivered row yet.
func (s *Service) pending(ctx context.Context, customers []models.Customer, date string, shift models.Shift) (int, error) {
	delivered := true
	rows, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{Date: date, Shift: shift, Delivered: &delivered})
	if err != nil {
		return 0, fmt.Errorf("load shift deliveries: %w", err)
	}
	done := make(map[string]bool, len(rows))
	for _, d := range rows {
		done[d.CustomerID] = true
	}

	var count int
	for _, c := range customers {
		if c.QuotaFor(shift) > 0 && !done[c.ID] {
			count++
		}
	}
	return count, nil
}

func (s *Service) weeklyTrend(ctx context.Context) ([]models.DayTotal, error) {
	monday := models.MondayStart(s.cal.Now())
	start := models.FormatDay(monday)
	end := models.FormatDay(monday.AddDate(0, 0, 6))

	delivered := true
	rows, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{StartDate: start, EndDate: end, Delivered: &delivered})
	if err != nil {
		return nil, fmt.Errorf("load weekly deliveries: %w", err)
	}
	perDay := make(map[string]*tally.Sum, 7)
	for _, d := range rows {
		if perDay[d.Date] == nil {
			perDay[d.Date] = &tally.Sum{}
		}
		perDay[d.Date].Add(d.ActualAmount)
	}

	trend := make([]models.DayTotal, 0, 7)
	for i := 0; i < 7; i++ {
		day := monday.AddDate(0, 0, i)
		date := models.FormatDay(day)
		total := models.DayTotal{Date: date, Day: day.Weekday().String()[:3]}
		if sum := perDay[date]; sum != nil {
			total.Liters = sum.Float()
		}
		trend = append(trend, total)
	}
	return trend, nil
}
