package billing

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// SendInvoice formats the customer's invoice as text and sends it to their phone.
func (s *Service) SendInvoice(ctx context.Context, customerID string, month, year int) (*models.Invoice, error) {
	if s.messenger == nil {
		return nil, models.ErrMessagingDisabled
	}

	invoice, err := s.Invoice(ctx, customerID, month, year)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(invoice.Customer.Phone) == "" {
		return nil, models.NewValidationError("customer %s has no phone number", invoice.Customer.Name)
	}

	if err := s.messenger.SendText(ctx, invoice.Customer.Phone, FormatInvoice(invoice)); err != nil {
		return nil, fmt.Errorf("send invoice %s: %w", invoice.InvoiceNumber, err)
	}

	s.logger.Info("invoice sent",
		zap.String("invoice", invoice.InvoiceNumber),
		zap.String("customer_id", invoice.Customer.ID))
	return invoice, nil
}

// FormatInvoice renders an invoice as a plain-text chat message.
func FormatInvoice(inv *models.Invoice) string {
	sym := inv.CurrencySymbol
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*\n", inv.BusinessName)
	fmt.Fprintf(&b, "Invoice %s - %s\n", inv.InvoiceNumber, inv.Period)
	fmt.Fprintf(&b, "%s, %s\n\n", inv.Customer.Name, inv.Customer.Address)

	if len(inv.Lines) == 0 {
		b.WriteString("No deliveries this month.\n")
	}
	for _, line := range inv.Lines {
		fmt.Fprintf(&b, "%s  M %.2f  E %.2f  = %.2f L\n", line.Date, line.Morning, line.Evening, line.Total)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f L x %s%.2f = %s%.2f\n", inv.TotalLiters, sym, inv.PricePerLiter, sym, inv.TotalAmount)
	if inv.PaidAmount > 0 {
		fmt.Fprintf(&b, "Paid: %s%.2f\n", sym, inv.PaidAmount)
	}
	fmt.Fprintf(&b, "Balance due: %s%.2f\n", sym, inv.BalanceDue)
	if inv.PaymentTerms != "" {
		fmt.Fprintf(&b, "\n%s", inv.PaymentTerms)
	}
	if inv.BusinessPhone != "" {
		fmt.Fprintf(&b, "\nContact: %s", inv.BusinessPhone)
	}
	return b.String()
}
