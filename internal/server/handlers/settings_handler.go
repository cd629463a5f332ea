package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// SettingsService owns the business settings record.
type SettingsService interface {
	Current() models.Settings
	Update(ctx context.Context, in models.SettingsInput) (models.Settings, error)
	Reset(ctx context.Context) (models.Settings, error)
}

// SettingsHandler serves /settings.
type SettingsHandler struct {
	svc  SettingsService
	resp *Responder
}

// NewSettingsHandler constructs the HTTP handler adapter.
func NewSettingsHandler(svc SettingsService, resp *Responder) *SettingsHandler {
	return &SettingsHandler{svc: svc, resp: resp}
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(c *gin.Context) {
	h.resp.ok(c, h.svc.Current())
}

// Update handles PUT /settings.
func (h *SettingsHandler) Update(c *gin.Context) {
	var in models.SettingsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	settings, err := h.svc.Update(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, settings)
}

// Reset handles POST /settings/reset.
func (h *SettingsHandler) Reset(c *gin.Context) {
	settings, err := h.svc.Reset(c.Request.Context())
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, settings)
}
