// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository/relational"
)

// NewStore returns a migrated relational store on a private in-memory SQLite
// database. The single connection keeps the database alive for the test.
func NewStore(t *testing.T) *relational.Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := relational.New(context.Background(), db, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	return store
}

// Clock returns a now function pinned to the given local time.
func Clock(layout, value string, loc *time.Location) func() time.Time {
	t, err := time.ParseInLocation(layout, value, loc)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return t }
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// SeedCustomer inserts an active customer with the given quotas and price.
func SeedCustomer(t *testing.T, store interface {
	CreateCustomer(context.Context, *models.Customer) error
}, name string, morning, evening, price float64) models.Customer {
	t.Helper()

	customer := models.Customer{
		Name:          name,
		Address:       name + " street",
		Phone:         "9000000000",
		Category:      models.CategoryRegular,
		MorningQuota:  morning,
		EveningQuota:  evening,
		PricePerLiter: price,
		IsActive:      true,
	}
	require.NoError(t, store.CreateCustomer(context.Background(), &customer))
	return customer
}
