package relational

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// FindCustomer loads one customer by id.
func (r *Repository) FindCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).First(&customer, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "customer", id)
	}
	return &customer, nil
}

// FindCustomers lists customers matching the filter, ordered by name.
func (r *Repository) FindCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{})
	if filter.Category != nil {
		q = q.Where("category = ?", *filter.Category)
	}
	if filter.Active != nil {
		q = q.Where("is_active = ?", *filter.Active)
	}
	if len(filter.IDs) > 0 {
		q = q.Where("id IN ?", filter.IDs)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(phone) LIKE ?", like, like)
	}

	var customers []models.Customer
	if err := q.Order("LOWER(name) ASC").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// CreateCustomer inserts a customer, minting an id when missing.
func (r *Repository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	customer.CreatedAt, customer.UpdatedAt = now, now
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

// UpdateCustomer overwrites every column of an existing customer.
func (r *Repository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("id = ?", customer.ID).
		Select("name", "address", "phone", "category", "morning_quota", "evening_quota", "price_per_liter", "is_active", "updated_at").
		Updates(customer)
	if res.Error != nil {
		return fmt.Errorf("update customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("customer", customer.ID)
	}
	return nil
}

// DeleteCustomer removes the customer row. Deliveries are left in place.
func (r *Repository) DeleteCustomer(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("customer", id)
	}
	return nil
}
