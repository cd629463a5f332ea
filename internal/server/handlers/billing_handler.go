package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// BillingService computes bills and records payments.
type BillingService interface {
	Monthly(ctx context.Context, month, year int) (*models.MonthlyBilling, error)
	Customer(ctx context.Context, customerID string, month, year int) (*models.CustomerBill, error)
	Invoice(ctx context.Context, customerID string, month, year int) (*models.Invoice, error)
	SendInvoice(ctx context.Context, customerID string, month, year int) (*models.Invoice, error)
	TodayRevenue(ctx context.Context) (models.Revenue, error)
	ExportMonthly(ctx context.Context, month, year int) ([]byte, string, error)
	ListPayments(ctx context.Context, filter models.PaymentFilter) ([]models.Payment, error)
	RecordPayment(ctx context.Context, in models.PaymentInput) (*models.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

// periodQuery is a billing month; zero values mean the current one.
type periodQuery struct {
	Month int `form:"month" binding:"omitempty,min=1,max=12"`
	Year  int `form:"year" binding:"omitempty,min=2000"`
}

type paymentQuery struct {
	CustomerID string `form:"customerId"`
	periodQuery
}

// BillingHandler serves /billing and /payments.
type BillingHandler struct {
	svc  BillingService
	resp *Responder
}

// NewBillingHandler constructs the HTTP handler adapter.
func NewBillingHandler(svc BillingService, resp *Responder) *BillingHandler {
	return &BillingHandler{svc: svc, resp: resp}
}

// Monthly handles GET /billing/monthly?month=&year=.
func (h *BillingHandler) Monthly(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	report, err := h.svc.Monthly(c.Request.Context(), q.Month, q.Year)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, report)
}

// Customer handles GET /billing/customer/:id?month=&year=.
func (h *BillingHandler) Customer(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	bill, err := h.svc.Customer(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, bill)
}

// Invoice handles GET /billing/customer/:id/invoice?month=&year=.
func (h *BillingHandler) Invoice(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	invoice, err := h.svc.Invoice(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, invoice)
}

// SendInvoice handles POST /billing/customer/:id/invoice/send?month=&year=.
func (h *BillingHandler) SendInvoice(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	invoice, err := h.svc.SendInvoice(c.Request.Context(), c.Param("id"), q.Month, q.Year)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    invoice,
		Message: fmt.Sprintf("Invoice %s sent", invoice.InvoiceNumber),
	})
}

// TodayRevenue handles GET /billing/today-revenue.
func (h *BillingHandler) TodayRevenue(c *gin.Context) {
	revenue, err := h.svc.TodayRevenue(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, revenue)
}

// Export handles GET /billing/monthly/export?month=&year= with an xlsx download.
func (h *BillingHandler) Export(c *gin.Context) {
	var q periodQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	data, filename, err := h.svc.ExportMonthly(c.Request.Context(), q.Month, q.Year)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// ListPayments handles GET /payments?customerId=&month=&year=.
func (h *BillingHandler) ListPayments(c *gin.Context) {
	var q paymentQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	payments, err := h.svc.ListPayments(c.Request.Context(), models.PaymentFilter{CustomerID: q.CustomerID, Month: q.Month, Year: q.Year})
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, payments)
}

// RecordPayment handles POST /payments.
func (h *BillingHandler) RecordPayment(c *gin.Context) {
	var in models.PaymentInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	payment, err := h.svc.RecordPayment(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.created(c, payment)
}

// DeletePayment handles DELETE /payments/:id.
func (h *BillingHandler) DeletePayment(c *gin.Context) {
	if err := h.svc.DeletePayment(c.Request.Context(), c.Param("id")); err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.done(c, "Payment deleted")
}
