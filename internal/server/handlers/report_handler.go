package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// ReportService stores and lists daily summaries.
type ReportService interface {
	Snapshot(ctx context.Context, date string) (*models.DailySummary, error)
	ListSummaries(ctx context.Context, startDate, endDate string) ([]models.DailySummary, error)
}

type rangeQuery struct {
	StartDate string `form:"startDate" binding:"omitempty,day"`
	EndDate   string `form:"endDate" binding:"omitempty,day"`
}

// ReportHandler serves /reports.
type ReportHandler struct {
	svc  ReportService
	resp *Responder
}

// NewReportHandler constructs the HTTP handler adapter.
func NewReportHandler(svc ReportService, resp *Responder) *ReportHandler {
	return &ReportHandler{svc: svc, resp: resp}
}

// Daily handles GET /reports/daily?startDate=&endDate=.
func (h *ReportHandler) Daily(c *gin.Context) {
	var q rangeQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.resp.invalid(c, err)
		return
	}

	summaries, err := h.svc.ListSummaries(c.Request.Context(), q.StartDate, q.EndDate)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, summaries)
}

// Snapshot handles POST /reports/daily/snapshot for today.
func (h *ReportHandler) Snapshot(c *gin.Context) {
	summary, err := h.svc.Snapshot(c.Request.Context(), "")
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.created(c, summary)
}
