package billing

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/tally"
)

// Store is the slice of repository.Store billing reads from.
type Store interface {
	repository.CustomerRepository
	repository.PaymentRepository
	FindDeliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error)
}

// SettingsSource exposes the cached business settings.
type SettingsSource interface {
	Current() models.Settings
}

// Messenger delivers a text message to a phone number.
type Messenger interface {
	SendText(ctx context.Context, to, body string) error
}

// Service computes bills from delivered liters and the customer's current price.
type Service struct {
	store     Store
	settings  SettingsSource
	messenger Messenger
	cal       calendar.Calendar
	logger    *zap.Logger
}

// NewService wires a billing service. messenger may be nil when outbound
// messaging is not configured.
func NewService(store Store, settings SettingsSource, messenger Messenger, cal calendar.Calendar, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, settings: settings, messenger: messenger, cal: cal, logger: logger}
}

// Monthly bills every active customer for the month. Zero month or year
// means the current one.
func (s *Service) Monthly(ctx context.Context, month, year int) (*models.MonthlyBilling, error) {
	month, year = s.cal.Period(month, year)
	start, end, err := models.MonthRange(month, year)
	if err != nil {
		return nil, err
	}

	active := true
	customers, err := s.store.FindCustomers(ctx, models.CustomerFilter{Active: &active})
	if err != nil {
		return nil, fmt.Errorf("load customers: %w", err)
	}

	delivered := true
	deliveries, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{StartDate: start, EndDate: end, Delivered: &delivered})
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}
	byCustomer := make(map[string][]models.Delivery)
	for _, d := range deliveries {
		byCustomer[d.CustomerID] = append(byCustomer[d.CustomerID], d)
	}

	payments, err := s.store.FindPayments(ctx, models.PaymentFilter{Month: month, Year: year})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	paid := make(map[string]*tally.Sum)
	for _, p := range payments {
		if paid[p.CustomerID] == nil {
			paid[p.CustomerID] = &tally.Sum{}
		}
		paid[p.CustomerID].Add(p.Amount)
	}

	report := &models.MonthlyBilling{
		Month:     month,
		Year:      year,
		StartDate: start,
		EndDate:   end,
		Customers: make([]models.CustomerBill, 0, len(customers)),
	}
	var liters, amount, received decimal.Decimal
	for _, c := range customers {
		var customerPaid tally.Sum
		if p := paid[c.ID]; p != nil {
			customerPaid = *p
		}
		bill, billLiters, billAmount := buildBill(c, byCustomer[c.ID], customerPaid.Decimal())
		report.Customers = append(report.Customers, bill)
		liters = liters.Add(billLiters)
		amount = amount.Add(billAmount)
		received = received.Add(customerPaid.Decimal())
	}
	report.TotalLiters = liters.InexactFloat64()
	report.TotalAmount = tally.Money(amount)
	report.TotalPaid = tally.Money(received)

	return report, nil
}

// Customer bills one customer for the month, whether active or not.
func (s *Service) Customer(ctx context.Context, customerID string, month, year int) (*models.CustomerBill, error) {
	month, year = s.cal.Period(month, year)
	customer, err := s.store.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.billFor(ctx, *customer, month, year)
}

func (s *Service) billFor(ctx context.Context, customer models.Customer, month, year int) (*models.CustomerBill, error) {
	start, end, err := models.MonthRange(month, year)
	if err != nil {
		return nil, err
	}

	delivered := true
	deliveries, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{
		CustomerIDs: []string{customer.ID},
		StartDate:   start,
		EndDate:     end,
		Delivered:   &delivered,
	})
	if err != nil {
		return nil, fmt.Errorf("load deliveries: %w", err)
	}

	payments, err := s.store.FindPayments(ctx, models.PaymentFilter{CustomerID: customer.ID, Month: month, Year: year})
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	var paid tally.Sum
	for _, p := range payments {
		paid.Add(p.Amount)
	}

	bill, _, _ := buildBill(customer, deliveries, paid.Decimal())
	return &bill, nil
}

// Invoice reshapes a customer's monthly bill for presentation.
func (s *Service) Invoice(ctx context.Context, customerID string, month, year int) (*models.Invoice, error) {
	month, year = s.cal.Period(month, year)
	customer, err := s.store.FindCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	bill, err := s.billFor(ctx, *customer, month, year)
	if err != nil {
		return nil, err
	}
	settings := s.settings.Current()

	lines := make([]models.InvoiceLine, 0, len(bill.DailyBreakdown))
	for _, day := range bill.DailyBreakdown {
		lines = append(lines, models.InvoiceLine{
			Date:    day.Date,
			Morning: day.MorningAmount,
			Evening: day.EveningAmount,
			Total:   day.TotalAmount,
		})
	}

	return &models.Invoice{
		InvoiceNumber: invoiceNumber(customer.ID, month, year),
		Customer: models.InvoiceCustomer{
			ID:      customer.ID,
			Name:    customer.Name,
			Address: customer.Address,
			Phone:   customer.Phone,
		},
		Month:          month,
		Year:           year,
		Period:         models.MonthLabel(month, year),
		Lines:          lines,
		TotalLiters:    bill.TotalLiters,
		PricePerLiter:  bill.PricePerLiter,
		TotalAmount:    bill.TotalAmount,
		PaidAmount:     bill.PaidAmount,
		BalanceDue:     bill.BalanceDue,
		BusinessName:   settings.BusinessName,
		BusinessPhone:  settings.Phone,
		CurrencySymbol: settings.CurrencySymbol,
		PaymentTerms:   settings.PaymentTerms,
	}, nil
}

// TodayRevenue estimates today's income at current prices.
func (s *Service) TodayRevenue(ctx context.Context) (models.Revenue, error) {
	return s.RevenueOn(ctx, s.cal.Today())
}

// RevenueOn sums delivered liters × current price for one date. Deliveries of
// customers that no longer exist contribute liters but no amount.
func (s *Service) RevenueOn(ctx context.Context, date string) (models.Revenue, error) {
	if _, err := models.ParseDay(date); err != nil {
		return models.Revenue{}, err
	}

	delivered := true
	deliveries, err := s.store.FindDeliveries(ctx, models.DeliveryFilter{Date: date, Delivered: &delivered})
	if err != nil {
		return models.Revenue{}, fmt.Errorf("load deliveries: %w", err)
	}
	if len(deliveries) == 0 {
		return models.Revenue{Date: date}, nil
	}

	perCustomer := make(map[string]*tally.Sum)
	var liters tally.Sum
	for _, d := range deliveries {
		if perCustomer[d.CustomerID] == nil {
			perCustomer[d.CustomerID] = &tally.Sum{}
		}
		perCustomer[d.CustomerID].Add(d.ActualAmount)
		liters.Add(d.ActualAmount)
	}

	ids := make([]string, 0, len(perCustomer))
	for id := range perCustomer {
		ids = append(ids, id)
	}
	customers, err := s.store.FindCustomers(ctx, models.CustomerFilter{IDs: ids})
	if err != nil {
		return models.Revenue{}, fmt.Errorf("load customers: %w", err)
	}

	var amount decimal.Decimal
	for _, c := range customers {
		amount = amount.Add(tally.Amount(perCustomer[c.ID].Decimal(), c.PricePerLiter))
	}

	return models.Revenue{Date: date, Liters: liters.Float(), Amount: tally.Money(amount)}, nil
}

// buildBill groups a customer's delivered rows per date and prices the total.
func buildBill(c models.Customer, deliveries []models.Delivery, paid decimal.Decimal) (models.CustomerBill, decimal.Decimal, decimal.Decimal) {
	type bucket struct{ morning, evening tally.Sum }
	days := make(map[string]*bucket)
	var liters tally.Sum
	for _, d := range deliveries {
		b := days[d.Date]
		if b == nil {
			b = &bucket{}
			days[d.Date] = b
		}
		if d.Shift == models.ShiftEvening {
			b.evening.Add(d.ActualAmount)
		} else {
			b.morning.Add(d.ActualAmount)
		}
		liters.Add(d.ActualAmount)
	}

	dates := make([]string, 0, len(days))
	for date := range days {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	breakdown := make([]models.DailyBreakdown, 0, len(dates))
	for _, date := range dates {
		b := days[date]
		breakdown = append(breakdown, models.DailyBreakdown{
			Date:          date,
			MorningAmount: b.morning.Float(),
			EveningAmount: b.evening.Float(),
			TotalAmount:   b.morning.Decimal().Add(b.evening.Decimal()).InexactFloat64(),
		})
	}

	amount := tally.Amount(liters.Decimal(), c.PricePerLiter)
	return models.CustomerBill{
		CustomerID:     c.ID,
		CustomerName:   c.Name,
		Phone:          c.Phone,
		Category:       c.Category,
		PricePerLiter:  c.PricePerLiter,
		TotalLiters:    liters.Float(),
		TotalAmount:    tally.Money(amount),
		PaidAmount:     tally.Money(paid),
		BalanceDue:     tally.Money(amount.Sub(paid)),
		DeliveryDays:   len(dates),
		DailyBreakdown: breakdown,
	}, liters.Decimal(), amount
}

func invoiceNumber(customerID string, month, year int) string {
	short := strings.ReplaceAll(customerID, "-", "")
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("INV-%d%02d-%s", year, month, strings.ToUpper(short))
}
