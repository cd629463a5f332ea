package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/config"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/repository/mongodb"
	"github.com/mamadbah2/milkbook/internal/repository/relational"
	"github.com/mamadbah2/milkbook/internal/repository/sheets"
	"github.com/mamadbah2/milkbook/internal/scheduler"
	"github.com/mamadbah2/milkbook/internal/server/handlers"
	"github.com/mamadbah2/milkbook/internal/server/router"
	billingsvc "github.com/mamadbah2/milkbook/internal/service/billing"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
	customersvc "github.com/mamadbah2/milkbook/internal/service/customers"
	dashboardsvc "github.com/mamadbah2/milkbook/internal/service/dashboard"
	deliverysvc "github.com/mamadbah2/milkbook/internal/service/deliveries"
	inventorysvc "github.com/mamadbah2/milkbook/internal/service/inventory"
	reportingsvc "github.com/mamadbah2/milkbook/internal/service/reporting"
	settingssvc "github.com/mamadbah2/milkbook/internal/service/settings"
	whatsappsvc "github.com/mamadbah2/milkbook/internal/service/whatsapp"
	whatsappclient "github.com/mamadbah2/milkbook/pkg/clients/whatsapp"
	"github.com/mamadbah2/milkbook/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level, cfg.Log.Format))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("invalid timezone", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
	}
	cal := calendar.New(loc, nil)

	store, err := openStore(context.Background(), cfg.Store, baseLogger)
	if err != nil {
		baseLogger.Fatal("failed to init store", zap.String("driver", cfg.Store.Driver), zap.Error(err))
	}
	defer func() {
		if err := store.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close store", zap.Error(err))
		}
	}()

	settingsSvc := settingssvc.NewService(store, logger.Named(baseLogger, "svc.settings"))
	if err := settingsSvc.Load(context.Background()); err != nil {
		baseLogger.Fatal("failed to load settings", zap.Error(err))
	}

	var messenger billingsvc.Messenger
	if cfg.WhatsApp.Enabled() {
		client := whatsappclient.NewClient(cfg.WhatsApp)
		messenger = whatsappsvc.NewMessenger(client, cfg.WhatsApp.CountryCode, logger.Named(baseLogger, "svc.whatsapp"))
		baseLogger.Info("whatsapp invoices enabled")
	} else {
		baseLogger.Warn("whatsapp credentials missing, invoice sending disabled")
	}

	var sheetsRepo sheets.Repository
	if cfg.Sheets.Enabled() {
		repo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		sheetsRepo = repo
	} else {
		baseLogger.Warn("google sheets not configured, exports disabled")
	}

	customerSvc := customersvc.NewService(store, settingsSvc, logger.Named(baseLogger, "svc.customers"))
	deliverySvc := deliverysvc.NewService(store, cal, logger.Named(baseLogger, "svc.deliveries"))
	inventorySvc := inventorysvc.NewService(store, settingsSvc, logger.Named(baseLogger, "svc.inventory"))
	billingSvc := billingsvc.NewService(store, settingsSvc, messenger, cal, logger.Named(baseLogger, "svc.billing"))
	dashboardSvc := dashboardsvc.NewService(store, billingSvc, inventorySvc, cal, logger.Named(baseLogger, "svc.dashboard"))
	reportingSvc := reportingsvc.NewService(store, billingSvc, billingSvc, inventorySvc, sheetsRepo, cal, logger.Named(baseLogger, "svc.reporting"))

	resp := handlers.NewResponder(cfg.Server.IsProduction(), logger.Named(baseLogger, "handlers"))
	engine := router.New(router.Handlers{
		Customers:  handlers.NewCustomerHandler(customerSvc, resp),
		Deliveries: handlers.NewDeliveryHandler(deliverySvc, resp),
		Stock:      handlers.NewStockHandler(inventorySvc, resp),
		Billing:    handlers.NewBillingHandler(billingSvc, resp),
		Dashboard:  handlers.NewDashboardHandler(dashboardSvc, resp),
		Settings:   handlers.NewSettingsHandler(settingsSvc, resp),
		Reports:    handlers.NewReportHandler(reportingSvc, resp),
	}, cfg.Server.CORSAllowOrigin, logger.Named(baseLogger, "router"))

	sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, cal, logger.Named(baseLogger, "scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
	sched.Stop(shutdownCtx)
}

func openStore(ctx context.Context, cfg config.StoreConfig, base *zap.Logger) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverMongoDB:
		return mongodb.NewMongoDBRepository(ctx, cfg.MongoURI, cfg.MongoDBName, logger.Named(base, "repo.mongodb"))
	case config.DriverPostgres, config.DriverSQLite:
		return relational.Open(ctx, cfg, logger.Named(base, "repo."+cfg.Driver))
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Driver)
	}
}
