package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// InventoryService tracks stock received and the running balance.
type InventoryService interface {
	Current(ctx context.Context) (models.InventoryStatus, error)
	ListStock(ctx context.Context, filter models.StockFilter) ([]models.StockEntry, error)
	AddStock(ctx context.Context, in models.StockInput) (*models.StockEntry, error)
	DeleteStock(ctx context.Context, id string) error
	ListSources(ctx context.Context, all bool) ([]models.Source, error)
	CreateSource(ctx context.Context, in models.SourceInput) (*models.Source, error)
	UpdateSource(ctx context.Context, id string, in models.SourceInput) (*models.Source, error)
	DeactivateSource(ctx context.Context, id string) error
}

type stockQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,day"`
	EndDate   string `form:"endDate" binding:"omitempty,day"`
	Limit     int    `form:"limit" binding:"omitempty,min=0"`
}

// StockHandler serves /stock and /stock/sources.
type StockHandler struct {
	svc  InventoryService
	resp *Responder
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(svc InventoryService, resp *Responder) *StockHandler {
	return &StockHandler{svc: svc, resp: resp}
}

// List handles GET /stock?startDate=&endDate=&limit=.
func (h *StockHandler) List(c *gin.Context) {
	var q stockQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	entries, err := h.svc.ListStock(c.Request.Context(), models.StockFilter{StartDate: q.StartDate, EndDate: q.EndDate, Limit: q.Limit})
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, entries)
}

// Create handles POST /stock.
func (h *StockHandler) Create(c *gin.Context) {
	var in models.StockInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	entry, err := h.svc.AddStock(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.created(c, entry)
}

// Delete handles DELETE /stock/:id.
func (h *StockHandler) Delete(c *gin.Context) {
	if err := h.svc.DeleteStock(c.Request.Context(), c.Param("id")); err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.done(c, "Stock entry deleted")
}

// Inventory handles GET /stock/inventory.
func (h *StockHandler) Inventory(c *gin.Context) {
	status, err := h.svc.Current(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, status)
}

// ListSources handles GET /stock/sources?all=.
func (h *StockHandler) ListSources(c *gin.Context) {
	all := false
	if raw := c.Query("all"); raw != "" {
		var err error
		if all, err = strconv.ParseBool(raw); err != nil {
			h.resp.fail(c, models.NewValidationError("all must be true or false"))
			return
		}
	}

	sources, err := h.svc.ListSources(c.Request.Context(), all)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, sources)
}

// CreateSource handles POST /stock/sources.
func (h *StockHandler) CreateSource(c *gin.Context) {
	var in models.SourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	source, err := h.svc.CreateSource(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.created(c, source)
}

// UpdateSource handles PUT /stock/sources/:id.
func (h *StockHandler) UpdateSource(c *gin.Context) {
	var in models.SourceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	source, err := h.svc.UpdateSource(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, source)
}

// DeactivateSource handles DELETE /stock/sources/:id.
func (h *StockHandler) DeactivateSource(c *gin.Context) {
	if err := h.svc.DeactivateSource(c.Request.Context(), c.Param("id")); err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.done(c, "Source deactivated")
}
