package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/config"
	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/service/calendar"
)

const jobTimeout = 2 * time.Minute

// Reporter runs the reporting jobs.
type Reporter interface {
	Snapshot(ctx context.Context, date string) (*models.DailySummary, error)
	ExportMonthlyBilling(ctx context.Context, month, year int) (int, error)
	ExportsEnabled() bool
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	reporter Reporter
	cfg      config.ReportingConfig
	cal      calendar.Calendar
	logger   *zap.Logger
}

// NewScheduler creates a scheduler whose cron expressions are evaluated in
// the business time zone.
func NewScheduler(cfg config.ReportingConfig, reporter Reporter, cal calendar.Calendar, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Standard 5-field cron expressions (min, hour, dom, month, dow).
	c := cron.New(cron.WithLocation(cal.Location()))

	return &Scheduler{
		cron:     c,
		reporter: reporter,
		cfg:      cfg,
		cal:      cal,
		logger:   logger,
	}
}

// Start registers the jobs and starts the cron loop. The billing export is
// only scheduled when a spreadsheet is configured.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.snapshotDay); err != nil {
		return fmt.Errorf("schedule daily summary %q: %w", s.cfg.CronSchedule, err)
	}

	if s.reporter.ExportsEnabled() && s.cfg.BillingExportSchedule != "" {
		if _, err := s.cron.AddFunc(s.cfg.BillingExportSchedule, s.exportPreviousMonth); err != nil {
			return fmt.Errorf("schedule billing export %q: %w", s.cfg.BillingExportSchedule, err)
		}
	}

	s.logger.Info("starting scheduler",
		zap.String("daily_summary", s.cfg.CronSchedule),
		zap.Int("jobs", len(s.cron.Entries())),
		zap.String("timezone", s.cal.Location().String()))
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for running jobs up to ctx's deadline.
func (s *Scheduler) Stop(ctx context.Context) {
	s.logger.Info("stopping scheduler")
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler jobs still running at shutdown")
	}
}

func (s *Scheduler) snapshotDay() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	date := s.cal.Today()
	if _, err := s.reporter.Snapshot(ctx, date); err != nil {
		s.logger.Error("failed to store daily summary", zap.String("date", date), zap.Error(err))
	}
}

func (s *Scheduler) exportPreviousMonth() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	month, year := s.cal.PreviousMonth()
	if _, err := s.reporter.ExportMonthlyBilling(ctx, month, year); err != nil {
		s.logger.Error("failed to export monthly billing", zap.Int("month", month), zap.Int("year", year), zap.Error(err))
	}
}
