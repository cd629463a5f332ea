package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

var nameCollation = &options.Collation{Locale: "en", Strength: 2}

// FindCustomer loads one customer by id.
func (r *MongoDBRepository) FindCustomer(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.findOne(ctx, customersColl, bson.M{"_id": id}, &customer, "customer", id); err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindCustomers lists customers by name, case-insensitively.
func (r *MongoDBRepository) FindCustomers(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetCollation(nameCollation)
	customers := []models.Customer{}
	if err := r.findMany(ctx, customersColl, customerFilter(filter), &customers, opts); err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer inserts a customer, minting an id when missing.
func (r *MongoDBRepository) CreateCustomer(ctx context.Context, customer *models.Customer) error {
	if customer.ID == "" {
		customer.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	customer.CreatedAt, customer.UpdatedAt = now, now
	if _, err := r.db.Collection(customersColl).InsertOne(ctx, customer); err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// UpdateCustomer replaces an existing customer document.
func (r *MongoDBRepository) UpdateCustomer(ctx context.Context, customer *models.Customer) error {
	customer.UpdatedAt = time.Now().UTC()
	return r.replaceExisting(ctx, customersColl, customer.ID, customer, "customer")
}

// DeleteCustomer removes the customer document. Deliveries are left in place.
func (r *MongoDBRepository) DeleteCustomer(ctx context.Context, id string) error {
	return r.deleteByID(ctx, customersColl, id, "customer")
}
