// Package relational implements repository.Store on GORM, backed by
// PostgreSQL in production or SQLite for single-machine installs and tests.
package relational

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mamadbah2/milkbook/internal/config"
	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
)

// Models lists every table managed by the adapter.
var Models = []any{
	&models.Customer{},
	&models.Delivery{},
	&models.StockEntry{},
	&models.Source{},
	&models.Payment{},
	&models.Settings{},
	&models.DailySummary{},
}

// Repository implements repository.Store with GORM.
type Repository struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ repository.Store = (*Repository)(nil)

// Open connects to the configured SQL database and migrates the schema.
func Open(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (*Repository, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DatabaseURL)
	case config.DriverSQLite:
		dialector = sqlite.Open(sqliteDSN(cfg.SQLitePath))
	default:
		return nil, fmt.Errorf("relational store does not support driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	if cfg.Driver == config.DriverSQLite {
		// SQLite allows a single writer; queue transactions on one connection.
		sqlDB.SetMaxOpenConns(1)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return New(ctx, db, logger)
}

// sqliteDSN adds busy-timeout and WAL pragmas and takes the write lock at BEGIN.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_txlock=immediate"
}

// New wraps an open GORM handle and migrates the schema.
func New(ctx context.Context, db *gorm.DB, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.WithContext(ctx).AutoMigrate(Models...); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	logger.Debug("schema migrated", zap.Int("tables", len(Models)))
	return &Repository{db: db, logger: logger}, nil
}

// WithTransaction runs fn inside a database transaction.
func (r *Repository) WithTransaction(ctx context.Context, fn repository.TxFunc) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &Repository{db: tx, logger: r.logger})
	})
}

// Close closes the database connection.
func (r *Repository) Close(_ context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	return sqlDB.Close()
}

func notFound(err error, resource, id string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
