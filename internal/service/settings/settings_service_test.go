package settings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/testutil"
)

func TestLoadCreatesDefaults(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewService(store, nil)

	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, 60.0, svc.Current().DefaultPricePerLiter)

	stored, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Milk Delivery", stored.BusinessName)
	assert.Equal(t, 2000.0, stored.MaxCapacity)
}

func TestLoadKeepsStoredSettings(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)

	custom := models.DefaultSettings()
	custom.BusinessName = "Gokul Dairy"
	require.NoError(t, store.SaveSettings(ctx, &custom))

	svc := NewService(store, nil)
	require.NoError(t, svc.Load(ctx))
	assert.Equal(t, "Gokul Dairy", svc.Current().BusinessName)
}

func TestUpdateAndReset(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t)
	svc := NewService(store, nil)
	require.NoError(t, svc.Load(ctx))

	updated, err := svc.Update(ctx, models.SettingsInput{
		DefaultPricePerLiter: testutil.Ptr(72.5),
		MaxCapacity:          testutil.Ptr(500.0),
	})
	require.NoError(t, err)
	assert.Equal(t, 72.5, updated.DefaultPricePerLiter)
	assert.Equal(t, "Milk Delivery", updated.BusinessName)
	assert.Equal(t, 500.0, svc.Current().MaxCapacity)

	stored, err := store.LoadSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, 72.5, stored.DefaultPricePerLiter)

	reset, err := svc.Reset(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings().MaxCapacity, reset.MaxCapacity)
	assert.Equal(t, 60.0, svc.Current().DefaultPricePerLiter)
}

func TestUpdateRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	svc := NewService(testutil.NewStore(t), nil)
	require.NoError(t, svc.Load(ctx))

	tests := []struct {
		name string
		in   models.SettingsInput
	}{
		{name: "negative price", in: models.SettingsInput{DefaultPricePerLiter: testutil.Ptr(-1.0)}},
		{name: "zero capacity", in: models.SettingsInput{MaxCapacity: testutil.Ptr(0.0)}},
		{name: "blank business", in: models.SettingsInput{BusinessName: testutil.Ptr("  ")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Update(ctx, tt.in)
			assert.True(t, models.IsValidation(err))
		})
	}
	assert.Equal(t, 60.0, svc.Current().DefaultPricePerLiter)
}

func TestCurrentBeforeLoad(t *testing.T) {
	svc := NewService(testutil.NewStore(t), nil)
	assert.Equal(t, models.DefaultSettings(), svc.Current())
}
