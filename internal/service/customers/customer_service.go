package customers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
	"github.com/mamadbah2/milkbook/internal/repository"
)

// SettingsSource exposes the cached business settings.
type SettingsSource interface {
	Current() models.Settings
}

// Service manages the customer roster.
type Service struct {
	repo     repository.CustomerRepository
	settings SettingsSource
	logger   *zap.Logger
}

// NewService wires a customer service.
func NewService(repo repository.CustomerRepository, settings SettingsSource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, settings: settings, logger: logger}
}

// List returns customers matching the filter, by name.
func (s *Service) List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	customers, err := s.repo.FindCustomers(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	if customers == nil {
		customers = []models.Customer{}
	}
	return customers, nil
}

// Get returns one customer.
func (s *Service) Get(ctx context.Context, id string) (*models.Customer, error) {
	return s.repo.FindCustomer(ctx, id)
}

// Create registers a customer. Category defaults to REGULAR and the price to
// the configured default price per liter.
func (s *Service) Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error) {
	customer := models.Customer{
		Category:      models.CategoryRegular,
		PricePerLiter: s.settings.Current().DefaultPricePerLiter,
		IsActive:      true,
	}
	in.Apply(&customer)
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.CreateCustomer(ctx, &customer); err != nil {
		return nil, err
	}

	s.logger.Info("customer created", zap.String("customer_id", customer.ID), zap.String("category", string(customer.Category)))
	return &customer, nil
}

// Update changes only the provided fields.
func (s *Service) Update(ctx context.Context, id string, in models.CustomerInput) (*models.Customer, error) {
	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	in.Apply(customer)
	if err := customer.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// Delete deactivates a customer, or removes the record when permanent is
// set. Delivery history is kept either way.
func (s *Service) Delete(ctx context.Context, id string, permanent bool) error {
	if permanent {
		if err := s.repo.DeleteCustomer(ctx, id); err != nil {
			return err
		}
		s.logger.Info("customer deleted", zap.String("customer_id", id))
		return nil
	}

	customer, err := s.repo.FindCustomer(ctx, id)
	if err != nil {
		return err
	}
	customer.IsActive = false
	if err := s.repo.UpdateCustomer(ctx, customer); err != nil {
		return err
	}

	s.logger.Info("customer deactivated", zap.String("customer_id", id))
	return nil
}
