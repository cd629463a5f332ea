package settings

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
)

// Service keeps the settings record in memory. Load must run once at
// startup; every write replaces the cached copy after it is persisted.
type Service struct {
	repo    repository.SettingsRepository
	current atomic.Pointer[models.Settings]
	logger  *zap.Logger
}

// NewService wires a settings service.
func NewService(repo repository.SettingsRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

// Load reads the stored settings, saving the defaults when none exist yet.
func (s *Service) Load(ctx context.Context) error {
	stored, err := s.repo.LoadSettings(ctx)
	if errors.Is(err, models.ErrNotFound) {
		defaults := models.DefaultSettings()
		if err := s.repo.SaveSettings(ctx, &defaults); err != nil {
			return fmt.Errorf("save default settings: %w", err)
		}
		s.logger.Info("default settings created")
		s.current.Store(&defaults)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	s.current.Store(stored)
	return nil
}

// Current returns a copy of the cached settings.
func (s *Service) Current() models.Settings {
	if cached := s.current.Load(); cached != nil {
		return *cached
	}
	return models.DefaultSettings()
}

// Update applies a partial update and persists it.
func (s *Service) Update(ctx context.Context, in models.SettingsInput) (models.Settings, error) {
	next := s.Current()
	in.Apply(&next)
	if err := validate(next); err != nil {
		return models.Settings{}, err
	}
	return s.save(ctx, next)
}

// Reset restores the defaults.
func (s *Service) Reset(ctx context.Context) (models.Settings, error) {
	s.logger.Info("settings reset to defaults")
	return s.save(ctx, models.DefaultSettings())
}

func (s *Service) save(ctx context.Context, next models.Settings) (models.Settings, error) {
	if err := s.repo.SaveSettings(ctx, &next); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.current.Store(&next)
	return next, nil
}

func validate(s models.Settings) error {
	switch {
	case strings.TrimSpace(s.BusinessName) == "":
		return models.NewValidationError("businessName must not be empty")
	case s.DefaultPricePerLiter < 0:
		return models.NewValidationError("defaultPricePerLiter must not be negative")
	case s.MaxCapacity <= 0:
		return models.NewValidationError("maxCapacity must be greater than 0")
	}
	return nil
}
