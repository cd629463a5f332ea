package billing

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository/relational"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/deliveries"
	"github.com/mamadbah2/milkbook/internal/testutil"
)

type staticSettings struct{}

func (staticSettings) Current() models.Settings {
	s := models.DefaultSettings()
	s.BusinessName = "Gokul Dairy"
	s.Phone = "9888800000"
	return s
}

type recordingMessenger struct {
	to, body string
	err      error
}

func (m *recordingMessenger) SendText(_ context.Context, to, body string) error {
	m.to, m.body = to, body
	return m.err
}

var cal = calendar.New(time.UTC, testutil.Clock(time.RFC3339, "2025-03-20T18:00:00Z", time.UTC))

func newService(t *testing.T, messenger Messenger) (*Service, *relational.Repository, *deliveries.Service) {
	t.Helper()
	store := testutil.NewStore(t)
	return NewService(store, staticSettings{}, messenger, cal, nil), store, deliveries.NewService(store, cal, nil)
}

func TestMonthlyBillingExample(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	customer := testutil.SeedCustomer(t, store, "Asha", 2, 0, 50)

	for _, date := range []string{"2025-03-01", "2025-03-02", "2025-03-03"} {
		_, err := ledger.Autofill(ctx, date, models.ShiftMorning)
		require.NoError(t, err)
	}
	// Outside the month and undelivered rows are ignored.
	_, err := ledger.Autofill(ctx, "2025-04-01", models.ShiftMorning)
	require.NoError(t, err)
	_, err = ledger.Upsert(ctx, models.DeliveryInput{CustomerID: customer.ID, Date: "2025-03-04", Shift: "MORNING", ActualAmount: 2})
	require.NoError(t, err)

	report, err := svc.Monthly(ctx, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", report.StartDate)
	assert.Equal(t, "2025-03-31", report.EndDate)
	require.Len(t, report.Customers, 1)

	bill := report.Customers[0]
	assert.Equal(t, 6.0, bill.TotalLiters)
	assert.Equal(t, 300.0, bill.TotalAmount)
	assert.Equal(t, 3, bill.DeliveryDays)
	require.Len(t, bill.DailyBreakdown, 3)
	for i, day := range bill.DailyBreakdown {
		assert.Equal(t, []string{"2025-03-01", "2025-03-02", "2025-03-03"}[i], day.Date)
		assert.Equal(t, 2.0, day.MorningAmount)
		assert.Zero(t, day.EveningAmount)
		assert.Equal(t, 2.0, day.TotalAmount)
	}
	assert.Equal(t, 6.0, report.TotalLiters)
	assert.Equal(t, 300.0, report.TotalAmount)
}

func TestMonthlyBreakdownReconcilesWithTotal(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	a := testutil.SeedCustomer(t, store, "A", 0.7, 0.35, 57.5)
	testutil.SeedCustomer(t, store, "B", 0, 0, 50)

	for _, date := range []string{"2025-02-01", "2025-02-14", "2025-02-28"} {
		for _, shift := range []models.Shift{models.ShiftMorning, models.ShiftEvening} {
			_, err := ledger.Autofill(ctx, date, shift)
			require.NoError(t, err)
		}
	}
	_, err := ledger.Upsert(ctx, models.DeliveryInput{CustomerID: a.ID, Date: "2025-02-14", Shift: "EVENING", ActualAmount: 0.1, Delivered: true})
	require.NoError(t, err)

	report, err := svc.Monthly(ctx, 2, 2025)
	require.NoError(t, err)
	assert.Equal(t, "2025-02-28", report.EndDate)
	require.Len(t, report.Customers, 2)

	bill := report.Customers[0]
	var sum float64
	for _, day := range bill.DailyBreakdown {
		sum += day.TotalAmount
	}
	assert.InDelta(t, bill.TotalLiters, sum, 1e-9)
	assert.Equal(t, 2.9, bill.TotalLiters)
	assert.Equal(t, 166.75, bill.TotalAmount)

	empty := report.Customers[1]
	assert.Zero(t, empty.TotalLiters)
	assert.Empty(t, empty.DailyBreakdown)
}

func TestMonthlyUsesCurrentPeriodWhenOmitted(t *testing.T) {
	svc, _, _ := newService(t, nil)

	report, err := svc.Monthly(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Month)
	assert.Equal(t, 2025, report.Year)

	_, err = svc.Monthly(context.Background(), 13, 2025)
	assert.True(t, models.IsValidation(err))
}

func TestCustomerBillWithPayments(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	customer := testutil.SeedCustomer(t, store, "Ravi", 1, 1, 60)

	_, err := ledger.Autofill(ctx, "2025-03-05", models.ShiftMorning)
	require.NoError(t, err)
	_, err = ledger.Autofill(ctx, "2025-03-05", models.ShiftEvening)
	require.NoError(t, err)

	_, err = svc.RecordPayment(ctx, models.PaymentInput{CustomerID: customer.ID, Amount: 50, Month: 3, Year: 2025})
	require.NoError(t, err)
	_, err = svc.RecordPayment(ctx, models.PaymentInput{CustomerID: customer.ID, Amount: 500, Month: 2, Year: 2025})
	require.NoError(t, err)

	bill, err := svc.Customer(ctx, customer.ID, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, 2.0, bill.TotalLiters)
	assert.Equal(t, 120.0, bill.TotalAmount)
	assert.Equal(t, 50.0, bill.PaidAmount)
	assert.Equal(t, 70.0, bill.BalanceDue)
	require.Len(t, bill.DailyBreakdown, 1)
	assert.Equal(t, 1.0, bill.DailyBreakdown[0].EveningAmount)

	_, err = svc.Customer(ctx, "missing", 3, 2025)
	assert.True(t, errors.Is(err, models.ErrNotFound))
}

func TestInvoice(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	customer := testutil.SeedCustomer(t, store, "Meena", 1.5, 0.5, 48)

	_, err := ledger.Autofill(ctx, "2025-03-02", models.ShiftMorning)
	require.NoError(t, err)
	_, err = ledger.Autofill(ctx, "2025-03-01", models.ShiftEvening)
	require.NoError(t, err)

	invoice, err := svc.Invoice(ctx, customer.ID, 3, 2025)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(invoice.InvoiceNumber, "INV-202503-"))
	assert.Equal(t, "March 2025", invoice.Period)
	assert.Equal(t, "Meena street", invoice.Customer.Address)
	assert.Equal(t, "Gokul Dairy", invoice.BusinessName)
	assert.Equal(t, "₹", invoice.CurrencySymbol)
	require.Len(t, invoice.Lines, 2)
	assert.Equal(t, models.InvoiceLine{Date: "2025-03-01", Morning: 0, Evening: 0.5, Total: 0.5}, invoice.Lines[0])
	assert.Equal(t, models.InvoiceLine{Date: "2025-03-02", Morning: 1.5, Evening: 0, Total: 1.5}, invoice.Lines[1])
	assert.Equal(t, 96.0, invoice.TotalAmount)
}

func TestRevenueUsesCurrentPrice(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	a := testutil.SeedCustomer(t, store, "A", 2, 0, 50)
	testutil.SeedCustomer(t, store, "B", 1.5, 0, 60)

	_, err := ledger.Autofill(ctx, "2025-03-20", models.ShiftMorning)
	require.NoError(t, err)

	revenue, err := svc.TodayRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-20", revenue.Date)
	assert.Equal(t, 3.5, revenue.Liters)
	assert.Equal(t, 190.0, revenue.Amount)

	a.PricePerLiter = 55
	require.NoError(t, store.UpdateCustomer(ctx, &a))
	revenue, err = svc.TodayRevenue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 200.0, revenue.Amount)

	empty, err := svc.RevenueOn(ctx, "2025-03-01")
	require.NoError(t, err)
	assert.Zero(t, empty.Amount)
}

func TestPayments(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t, nil)
	customer := testutil.SeedCustomer(t, store, "A", 1, 1, 50)

	payment, err := svc.RecordPayment(ctx, models.PaymentInput{CustomerID: customer.ID, Amount: 120, Month: 3, Year: 2025, Remarks: " cash "})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-20", payment.Date)
	assert.Equal(t, "cash", payment.Remarks)

	_, err = svc.RecordPayment(ctx, models.PaymentInput{CustomerID: "missing", Amount: 10, Month: 3, Year: 2025})
	assert.True(t, errors.Is(err, models.ErrNotFound))
	_, err = svc.RecordPayment(ctx, models.PaymentInput{CustomerID: customer.ID, Amount: 0, Month: 3, Year: 2025})
	assert.True(t, models.IsValidation(err))
	_, err = svc.RecordPayment(ctx, models.PaymentInput{CustomerID: customer.ID, Amount: 10, Month: 3, Year: 2025, Date: "20-03-2025"})
	assert.True(t, models.IsValidation(err))

	listed, err := svc.ListPayments(ctx, models.PaymentFilter{CustomerID: customer.ID})
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, svc.DeletePayment(ctx, payment.ID))
	assert.True(t, errors.Is(svc.DeletePayment(ctx, payment.ID), models.ErrNotFound))
}

func TestExportMonthlyWorkbook(t *testing.T) {
	ctx := context.Background()
	svc, store, ledger := newService(t, nil)
	testutil.SeedCustomer(t, store, "Asha", 2, 1, 50)
	_, err := ledger.Autofill(ctx, "2025-03-03", models.ShiftMorning)
	require.NoError(t, err)

	data, name, err := svc.ExportMonthly(ctx, 3, 2025)
	require.NoError(t, err)
	assert.Equal(t, "billing-2025-03.xlsx", name)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Billing", "Daily"}, f.GetSheetList())

	rows, err := f.GetRows("Billing")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Customer", rows[0][0])
	assert.Equal(t, "Asha", rows[1][0])
	assert.Equal(t, "100", rows[1][6])
	assert.Equal(t, "Total", rows[2][0])

	daily, err := f.GetRows("Daily")
	require.NoError(t, err)
	require.Len(t, daily, 2)
	assert.Equal(t, "2025-03-03", daily[1][1])
}

func TestSendInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		svc, store, _ := newService(t, nil)
		customer := testutil.SeedCustomer(t, store, "A", 1, 0, 50)
		_, err := svc.SendInvoice(ctx, customer.ID, 3, 2025)
		assert.ErrorIs(t, err, models.ErrMessagingDisabled)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("sends formatted text", func(t *testing.T) {
		messenger := &recordingMessenger{}
		svc, store, ledger := newService(t, messenger)
		customer := testutil.SeedCustomer(t, store, "Asha", 2, 0, 50)
		_, err := ledger.Autofill(ctx, "2025-03-03", models.ShiftMorning)
		require.NoError(t, err)

		invoice, err := svc.SendInvoice(ctx, customer.ID, 3, 2025)
		require.NoError(t, err)
		assert.Equal(t, "9000000000", messenger.to)
		assert.Contains(t, messenger.body, invoice.InvoiceNumber)
		assert.Contains(t, messenger.body, "Balance due: ₹100.00")
		assert.Contains(t, messenger.body, "2025-03-03")
	})

	t.Run("customer without phone", func(t *testing.T) {
		svc, store, _ := newService(t, &recordingMessenger{})
		customer := testutil.SeedCustomer(t, store, "A", 1, 0, 50)
		customer.Phone = ""
		require.NoError(t, store.UpdateCustomer(ctx, &customer))

		_, err := svc.SendInvoice(ctx, customer.ID, 3, 2025)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("transport failure", func(t *testing.T) {
		svc, store, _ := newService(t, &recordingMessenger{err: errors.New("boom")})
		customer := testutil.SeedCustomer(t, store, "A", 1, 0, 50)

		_, err := svc.SendInvoice(ctx, customer.ID, 3, 2025)
		require.Error(t, err)
		assert.False(t, models.IsValidation(err))
	})
}
