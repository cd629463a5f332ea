package billing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// ListPayments returns payments matching the filter.
func (s *Service) ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error) {
	if filter.Month < 0 || filter.Month > 12 {
		return nil, models.NewValidationError("month must be between 1 and 12")
	}
	payments, err := s.store.FindPayments(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	return payments, nil
}

// RecordPayment stores a payment against a customer's monthly bill. The
// date defaults to today.
func (s *Service) RecordPayment(ctx context.Context, in models.PaymentInput) (*models.Payment, error) {
	switch {
	case in.Amount <= 0:
		return nil, models.NewValidationError("amount must be greater than 0")
	case in.Month < 1 || in.Month > 12:
		return nil, models.NewValidationError("month must be between 1 and 12")
	case in.Year < 2000:
		return nil, models.NewValidationError("invalid year %d", in.Year)
	}

	date := in.Date
	if date == "" {
		date = s.cal.Today()
	}
	if _, err := models.ParseDay(date); err != nil {
		return nil, err
	}

	customer, err := s.store.FindCustomer(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		CustomerID: customer.ID,
		Amount:     in.Amount,
		Date:       date,
		Month:      in.Month,
		Year:       in.Year,
		Remarks:    strings.TrimSpace(in.Remarks),
	}
	if err := s.store.CreatePayment(ctx, &payment); err != nil {
		return nil, err
	}

	s.logger.Info("payment recorded",
		zap.String("customer_id", customer.ID),
		zap.Float64("amount", payment.Amount),
		zap.Int("month", payment.Month),
		zap.Int("year", payment.Year))
	return &payment, nil
}

// DeletePayment removes a payment.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	return s.store.DeletePayment(ctx, id)
}
