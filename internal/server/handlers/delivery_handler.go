package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// DeliveryService maintains the per-shift delivery ledger.
type DeliveryService interface {
	ListForDateShift(ctx context.Context, date string, shift models.Shift) ([]models.LedgerRow, error)
	Upsert(ctx context.Context, in models.DeliveryInput) (*models.Delivery, error)
	BulkUpdate(ctx context.Context, date string, shift models.Shift, entries []models.DeliveryEntry) (models.BulkResult, error)
	Autofill(ctx context.Context, date string, shift models.Shift) (int, error)
	Clear(ctx context.Context, date string, shift models.Shift) (int64, error)
	TodayTotal(ctx context.Context) (models.DayTotal, error)
}

// DeliveryHandler serves /deliveries.
type DeliveryHandler struct {
	svc  DeliveryService
	resp *Responder
}

// NewDeliveryHandler constructs the HTTP handler adapter.
func NewDeliveryHandler(svc DeliveryService, resp *Responder) *DeliveryHandler {
	return &DeliveryHandler{svc: svc, resp: resp}
}

// List handles GET /deliveries?date=&shift=.
func (h *DeliveryHandler) List(c *gin.Context) {
	var req models.ShiftRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.resp.invalid(c, err)
		return
	}

	rows, err := h.svc.ListForDateShift(c.Request.Context(), req.Date, shiftOf(req))
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, rows)
}

// Upsert handles POST /deliveries.
func (h *DeliveryHandler) Upsert(c *gin.Context) {
	var in models.DeliveryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	delivery, err := h.svc.Upsert(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, delivery)
}

// Bulk handles POST /deliveries/bulk. Entries naming unknown customers are
// skipped and listed in the result.
func (h *DeliveryHandler) Bulk(c *gin.Context) {
	var in models.BulkDeliveryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	result, err := h.svc.BulkUpdate(c.Request.Context(), in.Date, shiftOf(in.ShiftRequest), in.Entries)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, result)
}

// Autofill handles POST /deliveries/autofill.
func (h *DeliveryHandler) Autofill(c *gin.Context) {
	var req models.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.invalid(c, err)
		return
	}

	count, err := h.svc.Autofill(c.Request.Context(), req.Date, shiftOf(req))
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, gin.H{"count": count})
}

// Clear handles POST /deliveries/clear.
func (h *DeliveryHandler) Clear(c *gin.Context) {
	var req models.ShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.resp.invalid(c, err)
		return
	}

	count, err := h.svc.Clear(c.Request.Context(), req.Date, shiftOf(req))
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, gin.H{"count": count})
}

// TodayTotal handles GET /deliveries/today-total.
func (h *DeliveryHandler) TodayTotal(c *gin.Context) {
	total, err := h.svc.TodayTotal(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, total)
}

// shiftOf normalizes a bound shift; the binding tag already rejected
// anything that does not parse.
func shiftOf(req models.ShiftRequest) models.Shift {
	shift, _ := models.ParseShift(req.Shift)
	return shift
}
