package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository/relational"
	"github.com/mamadbah2/milkbook/internal/repository/sheets"
	"github.com/mamadbah2/milkbook/internal/service/billing"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/service/deliveries"
	"github.com/mamadbah2/milkbook/internal/service/inventory"
	"github.com/mamadbah2/milkbook/internal/testutil"
)

type defaultSettings struct{}

func (defaultSettings) Current() models.Settings { return models.DefaultSettings() }

type fakeSheets struct {
	writes map[string][][]interface{}
	err    error
}

func (f *fakeSheets) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	return f.AppendRows(ctx, sheetRange, [][]interface{}{values})
}

func (f *fakeSheets) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if f.err != nil {
		return f.err
	}
	if f.writes == nil {
		f.writes = make(map[string][][]interface{})
	}
	f.writes[sheetRange] = append(f.writes[sheetRange], rows...)
	return nil
}

var cal = calendar.New(time.UTC, testutil.Clock(time.RFC3339, "2025-03-12T23:55:00Z", time.UTC))

type fixture struct {
	svc    *Service
	store  *relational.Repository
	ledger *deliveries.Service
}

func newFixture(t *testing.T, exporter sheets.Repository) fixture {
	t.Helper()
	store := testutil.NewStore(t)
	bills := billing.NewService(store, defaultSettings{}, nil, cal, nil)
	stock := inventory.NewService(store, defaultSettings{}, nil)
	return fixture{
		svc:    NewService(store, bills, bills, stock, exporter, cal, nil),
		store:  store,
		ledger: deliveries.NewService(store, cal, nil),
	}
}

func (f fixture) seedDay(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	testutil.SeedCustomer(t, f.store, "A", 2, 1, 50)
	testutil.SeedCustomer(t, f.store, "B", 1, 0, 60)

	require.NoError(t, f.store.CreateStockEntry(ctx, &models.StockEntry{
		Date: "2025-03-12", Shift: models.ShiftMorning, Source: "Farm", SourceName: "Farm", Quantity: 10,
	}))
	require.NoError(t, f.store.CreateStockEntry(ctx, &models.StockEntry{
		Date: "2025-03-11", Shift: models.ShiftMorning, Source: "Farm", SourceName: "Farm", Quantity: 5,
	}))
	_, err := f.ledger.Autofill(ctx, "2025-03-12", models.ShiftMorning)
	require.NoError(t, err)
	_, err = f.ledger.Autofill(ctx, "2025-03-12", models.ShiftEvening)
	require.NoError(t, err)
}

func TestSnapshot(t *testing.T) {
	ctx := context.Background()
	exporter := &fakeSheets{}
	f := newFixture(t, exporter)
	f.seedDay(t)

	summary, err := f.svc.Snapshot(ctx, "")
	require.NoError(t, err)

	assert.Equal(t, "2025-03-12", summary.Date)
	assert.Equal(t, 4.0, summary.LitersDelivered)
	assert.Equal(t, 3.0, summary.MorningLiters)
	assert.Equal(t, 1.0, summary.EveningLiters)
	// A: 3 L at 50, B: 1 L at 60.
	assert.Equal(t, 210.0, summary.Revenue)
	assert.Equal(t, 10.0, summary.StockIn)
	assert.Equal(t, 11.0, summary.CurrentInventory)
	assert.Equal(t, 2, summary.ActiveCustomers)

	rows := exporter.writes[sheets.SummaryRange]
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-03-12", rows[0][0])
	assert.Len(t, rows[0], 8)

	stored, err := f.svc.ListSummaries(ctx, "2025-03-01", "2025-03-31")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 210.0, stored[0].Revenue)
}

func TestSnapshotReplacesEarlierRun(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.seedDay(t)

	_, err := f.svc.Snapshot(ctx, "2025-03-12")
	require.NoError(t, err)
	_, err = f.ledger.Clear(ctx, "2025-03-12", models.ShiftEvening)
	require.NoError(t, err)
	_, err = f.svc.Snapshot(ctx, "2025-03-12")
	require.NoError(t, err)

	stored, err := f.svc.ListSummaries(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 3.0, stored[0].LitersDelivered)
	assert.False(t, f.svc.ExportsEnabled())
}

func TestSnapshotSurvivesExportFailure(t *testing.T) {
	f := newFixture(t, &fakeSheets{err: errors.New("quota exceeded")})
	f.seedDay(t)

	summary, err := f.svc.Snapshot(context.Background(), "2025-03-12")
	require.NoError(t, err)
	assert.Equal(t, 4.0, summary.LitersDelivered)
}

func TestSnapshotRejectsBadDate(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.svc.Snapshot(context.Background(), "12/03/2025")
	assert.True(t, models.IsValidation(err))
}

func TestListSummariesValidation(t *testing.T) {
	f := newFixture(t, nil)

	out, err := f.svc.ListSummaries(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, out)

	_, err = f.svc.ListSummaries(context.Background(), "2025-03-10", "2025-03-01")
	assert.True(t, models.IsValidation(err))
}

func TestExportMonthlyBilling(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled without sheets", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.svc.ExportMonthlyBilling(ctx, 3, 2025)
		assert.True(t, models.IsValidation(err))
	})

	t.Run("one row per active customer", func(t *testing.T) {
		exporter := &fakeSheets{}
		f := newFixture(t, exporter)
		f.seedDay(t)

		n, err := f.svc.ExportMonthlyBilling(ctx, 3, 2025)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		rows := exporter.writes[sheets.BillingRange]
		require.Len(t, rows, 2)
		assert.Len(t, rows[0], 10)
	})

	t.Run("sheet failure is returned", func(t *testing.T) {
		f := newFixture(t, &fakeSheets{err: errors.New("denied")})
		_, err := f.svc.ExportMonthlyBilling(ctx, 3, 2025)
		require.Error(t, err)
		assert.False(t, models.IsValidation(err))
	})
}
