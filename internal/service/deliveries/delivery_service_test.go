package deliveries

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/milkbook/internal/config"
	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository/relational"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	"github.com/mamadbah2/milkbook/internal/testutil"
)

const day = "2025-03-10"

func newService(t *testing.T) (*Service, *relational.Repository) {
	t.Helper()
	store := testutil.NewStore(t)
	cal := calendar.New(time.UTC, testutil.Clock(time.RFC3339, "2025-03-10T08:30:00Z", time.UTC))
	return NewService(store, cal, nil), store
}

func TestListForDateShiftSynthesizesPlaceholders(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)

	bala := testutil.SeedCustomer(t, store, "Bala", 2, 1, 50)
	asha := testutil.SeedCustomer(t, store, "asha", 1, 0, 55)
	gone := testutil.SeedCustomer(t, store, "Gone", 3, 3, 50)
	gone.IsActive = false
	require.NoError(t, store.UpdateCustomer(ctx, &gone))

	_, err := svc.Upsert(ctx, models.DeliveryInput{CustomerID: bala.ID, Date: day, Shift: "MORNING", ActualAmount: 2.5, Delivered: true})
	require.NoError(t, err)

	rows, err := svc.ListForDateShift(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, asha.ID, rows[0].CustomerID)
	assert.False(t, rows[0].Exists)
	assert.Equal(t, 1.0, rows[0].Quota)
	assert.Zero(t, rows[0].ActualAmount)
	assert.False(t, rows[0].Delivered)

	assert.Equal(t, bala.ID, rows[1].CustomerID)
	assert.True(t, rows[1].Exists)
	assert.NotEmpty(t, rows[1].ID)
	assert.Equal(t, 2.0, rows[1].Quota)
	assert.Equal(t, 2.5, rows[1].ActualAmount)
	assert.True(t, rows[1].Delivered)
}

func TestListForDateShiftValidates(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ListForDateShift(context.Background(), "10/03/2025", models.ShiftMorning)
	assert.True(t, models.IsValidation(err))

	_, err = svc.ListForDateShift(context.Background(), day, "NIGHT")
	assert.True(t, models.IsValidation(err))
}

func TestUpsertKeepsOneRowPerKey(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	customer := testutil.SeedCustomer(t, store, "Ravi", 2, 1, 50)

	first, err := svc.Upsert(ctx, models.DeliveryInput{CustomerID: customer.ID, Date: day, Shift: "evening", ActualAmount: 1, Delivered: true})
	require.NoError(t, err)
	assert.Equal(t, models.ShiftEvening, first.Shift)
	assert.Equal(t, 1.0, first.Quota)

	customer.EveningQuota = 4
	require.NoError(t, store.UpdateCustomer(ctx, &customer))

	second, err := svc.Upsert(ctx, models.DeliveryInput{CustomerID: customer.ID, Date: day, Shift: "EVENING", ActualAmount: 3, Delivered: true})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3.0, second.ActualAmount)
	assert.Equal(t, 1.0, second.Quota, "quota is a snapshot taken at creation")

	rows, err := store.FindDeliveries(ctx, models.DeliveryFilter{CustomerIDs: []string{customer.ID}})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestUpsertErrors(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	customer := testutil.SeedCustomer(t, store, "Ravi", 2, 1, 50)

	_, err := svc.Upsert(ctx, models.DeliveryInput{CustomerID: "missing", Date: day, Shift: "MORNING"})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	_, err = svc.Upsert(ctx, models.DeliveryInput{CustomerID: customer.ID, Date: day, Shift: "NOON"})
	assert.True(t, models.IsValidation(err))

	_, err = svc.Upsert(ctx, models.DeliveryInput{CustomerID: customer.ID, Date: day, Shift: "MORNING", ActualAmount: -1})
	assert.True(t, models.IsValidation(err))
}

func TestBulkUpdateSkipsMissingCustomers(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	a := testutil.SeedCustomer(t, store, "A", 1, 1, 50)
	b := testutil.SeedCustomer(t, store, "B", 2, 2, 50)
	deleted := testutil.SeedCustomer(t, store, "C", 1, 1, 50)
	require.NoError(t, store.DeleteCustomer(ctx, deleted.ID))

	result, err := svc.BulkUpdate(ctx, day, models.ShiftMorning, []models.DeliveryEntry{
		{CustomerID: a.ID, ActualAmount: 1, Delivered: true},
		{CustomerID: deleted.ID, ActualAmount: 5, Delivered: true},
		{CustomerID: b.ID, ActualAmount: 1.5, Delivered: true, Notes: testutil.Ptr("half")},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, []string{deleted.ID}, result.Skipped)

	rows, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestBulkUpdateRejectsNegativeAmounts(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	a := testutil.SeedCustomer(t, store, "A", 1, 1, 50)

	_, err := svc.BulkUpdate(ctx, day, models.ShiftMorning, []models.DeliveryEntry{
		{CustomerID: a.ID, ActualAmount: 1, Delivered: true},
		{CustomerID: a.ID, ActualAmount: -2},
	})
	assert.True(t, models.IsValidation(err))

	rows, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestAutofillIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	testutil.SeedCustomer(t, store, "A", 2, 0, 50)
	testutil.SeedCustomer(t, store, "B", 1.5, 1, 50)
	testutil.SeedCustomer(t, store, "C", 0, 3, 50)

	count, err := svc.Autofill(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	first, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day, Shift: models.ShiftMorning})
	require.NoError(t, err)

	count, err = svc.Autofill(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	second, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day, Shift: models.ShiftMorning})
	require.NoError(t, err)
	require.Len(t, second, 2)
	again := indexByCustomer(second)
	for _, d := range first {
		assert.Equal(t, d.ID, again[d.CustomerID].ID)
		assert.Equal(t, d.ActualAmount, again[d.CustomerID].ActualAmount)
		assert.True(t, again[d.CustomerID].Delivered)
	}
}

func TestClearThenAutofillMatchesAutofill(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	testutil.SeedCustomer(t, store, "A", 2, 0, 50)
	testutil.SeedCustomer(t, store, "B", 1, 1, 50)

	_, err := svc.Autofill(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	want, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day})
	require.NoError(t, err)

	cleared, err := svc.Clear(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	assert.EqualValues(t, 2, cleared)

	zeroed, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day})
	require.NoError(t, err)
	require.Len(t, zeroed, 2)
	for _, d := range zeroed {
		assert.Zero(t, d.ActualAmount)
		assert.False(t, d.Delivered)
	}

	_, err = svc.Autofill(ctx, day, models.ShiftMorning)
	require.NoError(t, err)
	got, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: day})
	require.NoError(t, err)
	require.Len(t, got, len(want))
	after := indexByCustomer(got)
	for _, d := range want {
		assert.Equal(t, d.ActualAmount, after[d.CustomerID].ActualAmount)
		assert.Equal(t, d.Delivered, after[d.CustomerID].Delivered)
	}
}

func indexByCustomer(rows []models.Delivery) map[string]models.Delivery {
	out := make(map[string]models.Delivery, len(rows))
	for _, d := range rows {
		out[d.CustomerID] = d
	}
	return out
}

func TestTodayTotalCountsDeliveredOnly(t *testing.T) {
	ctx := context.Background()
	svc, store := newService(t)
	a := testutil.SeedCustomer(t, store, "A", 2, 1, 50)
	b := testutil.SeedCustomer(t, store, "B", 1, 1, 50)

	_, err := svc.Upsert(ctx, models.DeliveryInput{CustomerID: a.ID, Date: day, Shift: "MORNING", ActualAmount: 2, Delivered: true})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, models.DeliveryInput{CustomerID: a.ID, Date: day, Shift: "EVENING", ActualAmount: 0.5, Delivered: true})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, models.DeliveryInput{CustomerID: b.ID, Date: day, Shift: "MORNING", ActualAmount: 7})
	require.NoError(t, err)
	_, err = svc.Upsert(ctx, models.DeliveryInput{CustomerID: b.ID, Date: "2025-03-09", Shift: "MORNING", ActualAmount: 1, Delivered: true})
	require.NoError(t, err)

	total, err := svc.TodayTotal(ctx)
	require.NoError(t, err)
	assert.Equal(t, day, total.Date)
	assert.Equal(t, "Mon", total.Day)
	assert.Equal(t, 2.5, total.Liters)
}

func TestConcurrentWritesOnFileDatabase(t *testing.T) {
	ctx := context.Background()
	store, err := relational.Open(ctx, config.StoreConfig{
		Driver:     config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "milkbook.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(ctx) })

	cal := calendar.New(time.UTC, testutil.Clock(time.RFC3339, "2025-03-10T08:30:00Z", time.UTC))
	svc := NewService(store, cal, nil)

	customers := make([]models.Customer, 5)
	for i := range customers {
		customers[i] = testutil.SeedCustomer(t, store, string(rune('A'+i)), 2, 1, 50)
	}

	const workers = 20
	var wg sync.WaitGroup
	errs := make(chan error, workers*2)
	for i := 0; i < workers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, err := svc.Autofill(ctx, "2025-03-01", models.ShiftMorning)
			errs <- err
		}()
		go func(c models.Customer) {
			defer wg.Done()
			_, err := svc.BulkUpdate(ctx, "2025-03-02", models.ShiftEvening, []models.DeliveryEntry{
				{CustomerID: c.ID, ActualAmount: 1.5, Delivered: true},
			})
			errs <- err
		}(customers[i%len(customers)])
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	morning, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: "2025-03-01", Shift: models.ShiftMorning})
	require.NoError(t, err)
	assert.Len(t, morning, len(customers))

	evening, err := store.FindDeliveries(ctx, models.DeliveryFilter{Date: "2025-03-02", Shift: models.ShiftEvening})
	require.NoError(t, err)
	assert.Len(t, evening, len(customers))
}
