// Package repository declares the storage contract shared by the relational
// and document adapters. Services depend only on Store.
package repository

import (
	"context"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// CustomerRepository persists the customer roster.
type CustomerRepository interface {
	FindCustomer(ctx context.Context, id string) (*models.Customer, error)
	// FindCustomers returns customers ordered by name ascending.
	FindCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	UpdateCustomer(ctx context.Context, customer *models.Customer) error
	DeleteCustomer(ctx context.Context, id string) error
}

// DeliveryRepository persists per-shift delivery rows, unique per DeliveryKey.
type DeliveryRepository interface {
	FindDelivery(ctx context.Context, key models.DeliveryKey) (*models.Delivery, error)
	// FindDeliveries returns deliveries ordered by date then shift.
	FindDeliveries(ctx context.Context, filter models.DeliveryFilter) ([]models.Delivery, error)
	// SumDelivered totals actualAmount over the matching rows.
	SumDelivered(ctx context.Context, filter models.DeliveryFilter) (float64, error)
	// UpsertDelivery inserts a row carrying the quota snapshot, or updates
	// actualAmount/delivered/notes of the existing row, in one statement.
	UpsertDelivery(ctx context.Context, upsert models.DeliveryUpsert) (*models.Delivery, error)
	// ClearDeliveries zeroes every row of the given date and shift.
	ClearDeliveries(ctx context.Context, date string, shift models.Shift) (int64, error)
}

// StockRepository persists the stock-in ledger.
type StockRepository interface {
	// FindStockEntries returns entries newest first.
	FindStockEntries(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error)
	SumStock(ctx context.Context, filter models.StockFilter) (float64, error)
	FindStockEntry(ctx context.Context, id string) (*models.StockEntry, error)
	CreateStockEntry(ctx context.Context, entry *models.StockEntry) error
	DeleteStockEntry(ctx context.Context, id string) error
}

// SourceRepository persists stock origins.
type SourceRepository interface {
	FindSources(ctx context.Context, activeOnly bool) ([]models.Source, error)
	FindSource(ctx context.Context, id string) (*models.Source, error)
	FindSourceByName(ctx context.Context, name string) (*models.Source, error)
	CreateSource(ctx context.Context, source *models.Source) error
	UpdateSource(ctx context.Context, source *models.Source) error
}

// PaymentRepository persists payments received.
type PaymentRepository interface {
	FindPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	CreatePayment(ctx context.Context, payment *models.Payment) error
	DeletePayment(ctx context.Context, id string) error
}

// SettingsRepository persists the single settings record.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) (*models.Settings, error)
	SaveSettings(ctx context.Context, settings *models.Settings) error
}

// SummaryRepository persists end-of-day snapshots.
type SummaryRepository interface {
	SaveDailySummary(ctx context.Context, summary *models.DailySummary) error
	FindDailySummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error)
}

// TxFunc runs inside a unit of work against the transaction-bound store.
type TxFunc func(ctx context.Context, tx Store) error

// Store is the full capability set of a backing store.
type Store interface {
	CustomerRepository
	DeliveryRepository
	StockRepository
	SourceRepository
	PaymentRepository
	SettingsRepository
	SummaryRepository

	// WithTransaction commits fn's writes together or not at all.
	WithTransaction(ctx context.Context, fn TxFunc) error
	Close(ctx context.Context) error
}
