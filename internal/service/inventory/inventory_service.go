package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
	"github.com/mamadbah2/milkbook/internal/service/tally"
)

const (
	lowStockPercent    = 20
	defaultMaxCapacity = 2000
	defaultSourceType  = "FARM"
)

// Store is the slice of repository.Store the inventory needs.
type Store interface {
	repository.StockRepository
	repository.SourceRepository
	SumDelivered(ctx context.Context, filter models.DeliveryFilter) (float64, error)
}

// SettingsSource exposes the cached business settings.
type SettingsSource interface {
	Current() models.Settings
}

// Service tracks milk received and the running balance left to deliver.
type Service struct {
	store    Store
	settings SettingsSource
	logger   *zap.Logger
}

// NewService wires an inventory service.
func NewService(store Store, settings SettingsSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, settings: settings, logger: logger}
}

// Current computes the all-time balance: stock received minus liters
// delivered, never below zero.
func (s *Service) Current(ctx context.Context) (models.InventoryStatus, error) {
	stockTotal, err := s.store.SumStock(ctx, models.StockFilter{})
	if err != nil {
		return models.InventoryStatus{}, fmt.Errorf("sum stock: %w", err)
	}
	stock := tally.Liters(stockTotal)

	delivered := true
	deliveredTotal, err := s.store.SumDelivered(ctx, models.DeliveryFilter{Delivered: &delivered})
	if err != nil {
		return models.InventoryStatus{}, fmt.Errorf("sum deliveries: %w", err)
	}
	out := tally.Liters(deliveredTotal)

	maxCapacity := s.settings.Current().MaxCapacity
	if maxCapacity <= 0 {
		maxCapacity = defaultMaxCapacity
	}

	balance := stock.Sub(out)
	current := balance.InexactFloat64()
	if balance.IsNegative() {
		current = 0
	}

	percentage := tally.Percent(current, maxCapacity)
	percentage = max(0, min(100, percentage))

	return models.InventoryStatus{
		TotalStock:       stock.InexactFloat64(),
		TotalDelivered:   out.InexactFloat64(),
		CurrentInventory: current,
		MaxCapacity:      maxCapacity,
		Percentage:       percentage,
		LowStock:         percentage < lowStockPercent,
	}, nil
}

// ListStock returns stock entries, newest first.
func (s *Service) ListStock(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error) {
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := models.ParseDay(d); err != nil {
			return nil, err
		}
	}
	if filter.Limit < 0 {
		return nil, models.NewValidationError("limit must not be negative")
	}

	entries, err := s.store.FindStockEntries(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	if entries == nil {
		entries = []models.StockEntry{}
	}
	return entries, nil
}

// AddStock records milk received. A sourceId must name an existing source;
// otherwise the free-text source is used as the display name.
func (s *Service) AddStock(ctx context.Context, in models.StockInput) (*models.StockEntry, error) {
	if _, err := models.ParseDay(in.Date); err != nil {
		return nil, err
	}
	shift, ok := models.ParseShift(in.Shift)
	if !ok {
		return nil, models.NewValidationError("shift must be MORNING or EVENING")
	}
	if in.Quantity <= 0 {
		return nil, models.NewValidationError("quantity must be greater than 0")
	}

	entry := models.StockEntry{
		Date:     in.Date,
		Shift:    shift,
		Quantity: in.Quantity,
		Notes:    strings.TrimSpace(in.Notes),
	}

	switch {
	case in.SourceID != "":
		source, err := s.store.FindSource(ctx, in.SourceID)
		if err != nil {
			return nil, err
		}
		entry.Source = source.ID
		entry.SourceName = source.Name
	case strings.TrimSpace(in.Source) != "":
		entry.Source = strings.TrimSpace(in.Source)
		entry.SourceName = entry.Source
	default:
		return nil, models.NewValidationError("source or sourceId is required")
	}

	if err := s.store.CreateStockEntry(ctx, &entry); err != nil {
		return nil, err
	}

	s.logger.Info("stock recorded",
		zap.String("date", entry.Date),
		zap.String("shift", string(entry.Shift)),
		zap.String("source", entry.SourceName),
		zap.Float64("quantity", entry.Quantity))
	return &entry, nil
}

// DeleteStock removes one stock entry.
func (s *Service) DeleteStock(ctx context.Context, id string) error {
	return s.store.DeleteStockEntry(ctx, id)
}

// ListSources returns active sources, or every source when all is set.
func (s *Service) ListSources(ctx context.Context, all bool) ([]models.Source, error) {
	sources, err := s.store.FindSources(ctx, !all)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	if sources == nil {
		sources = []models.Source{}
	}
	return sources, nil
}

// CreateSource registers a stock origin with a unique name.
func (s *Service) CreateSource(ctx context.Context, in models.SourceInput) (*models.Source, error) {
	source := models.Source{Type: defaultSourceType, IsActive: true}
	applySource(in, &source)
	if source.Name == "" {
		return nil, models.NewValidationError("name is required")
	}
	if err := s.ensureUniqueName(ctx, source.Name, ""); err != nil {
		return nil, err
	}

	if err := s.store.CreateSource(ctx, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// UpdateSource edits a source.
func (s *Service) UpdateSource(ctx context.Context, id string, in models.SourceInput) (*models.Source, error) {
	source, err := s.store.FindSource(ctx, id)
	if err != nil {
		return nil, err
	}
	applySource(in, source)
	if source.Name == "" {
		return nil, models.NewValidationError("name must not be empty")
	}
	if err := s.ensureUniqueName(ctx, source.Name, source.ID); err != nil {
		return nil, err
	}

	if err := s.store.UpdateSource(ctx, source); err != nil {
		return nil, err
	}
	return source, nil
}

// DeactivateSource hides a source from the default listing. Stock entries
// keep their denormalized source name.
func (s *Service) DeactivateSource(ctx context.Context, id string) error {
	source, err := s.store.FindSource(ctx, id)
	if err != nil {
		return err
	}
	source.IsActive = false
	return s.store.UpdateSource(ctx, source)
}

func (s *Service) ensureUniqueName(ctx context.Context, name, selfID string) error {
	existing, err := s.store.FindSourceByName(ctx, name)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("check source name: %w", err)
	case existing.ID != selfID:
		return models.NewValidationError("source %q already exists", name)
	}
	return nil
}

func applySource(in models.SourceInput, source *models.Source) {
	if in.Name != nil {
		source.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil && strings.TrimSpace(*in.Type) != "" {
		source.Type = strings.ToUpper(strings.TrimSpace(*in.Type))
	}
	if in.IsActive != nil {
		source.IsActive = *in.IsActive
	}
}
