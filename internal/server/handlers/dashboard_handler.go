package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// DashboardService composes the landing-page figures.
type DashboardService interface {
	Stats(ctx context.Context) (*models.DashboardStats, error)
	Comparison(ctx context.Context) (*models.Comparison, error)
}

// DashboardHandler serves /dashboard.
type DashboardHandler struct {
	svc  DashboardService
	resp *Responder
}

// NewDashboardHandler constructs the HTTP handler adapter.
func NewDashboardHandler(svc DashboardService, resp *Responder) *DashboardHandler {
	return &DashboardHandler{svc: svc, resp: resp}
}

// Stats handles GET /dashboard/stats.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, stats)
}

// Comparison handles GET /dashboard/comparison.
func (h *DashboardHandler) Comparison(c *gin.Context) {
	cmp, err := h.svc.Comparison(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, cmp)
}
