package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// CustomerService manages the customer roster.
type CustomerService interface {
	List(ctx context.Context, filter models.CustomerFilter) ([]models.Customer, error)
	Get(ctx context.Context, id string) (*models.Customer, error)
	Create(ctx context.Context, in models.CustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id string, in models.CustomerInput) (*models.Customer, error)
	Delete(ctx context.Context, id string, permanent bool) error
}

// CustomerHandler serves /customers.
type CustomerHandler struct {
	svc  CustomerService
	resp *Responder
}

// NewCustomerHandler constructs the HTTP handler adapter.
func NewCustomerHandler(svc CustomerService, resp *Responder) *CustomerHandler {
	return &CustomerHandler{svc: svc, resp: resp}
}

// List handles GET /customers?category=&active=&search=.
func (h *CustomerHandler) List(c *gin.Context) {
	filter := models.CustomerFilter{Search: c.Query("search")}

	if raw := c.Query("category"); raw != "" {
		category, ok := models.ParseCategory(raw)
		if !ok {
			h.resp.fail(c, models.NewValidationError("category must be REGULAR or VARIABLE"))
			return
		}
		filter.Category = &category
	}
	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			h.resp.fail(c, models.NewValidationError("active must be true or false"))
			return
		}
		filter.Active = &active
	}

	customers, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, customers)
}

// Get handles GET /customers/:id.
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, customer)
}

// Create handles POST /customers.
func (h *CustomerHandler) Create(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	customer, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.created(c, customer)
}

// Update handles PUT /customers/:id. Only the provided fields change.
func (h *CustomerHandler) Update(c *gin.Context) {
	var in models.CustomerInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.resp.invalid(c, err)
		return
	}

	customer, err := h.svc.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		h.resp.fail(c, err)
		return
	}
	h.resp.ok(c, customer)
}

// Delete handles DELETE /customers/:id?permanent=.
func (h *CustomerHandler) Delete(c *gin.Context) {
	permanent := false
	if raw := c.Query("permanent"); raw != "" {
		var err error
		if permanent, err = strconv.ParseBool(raw); err != nil {
			h.resp.fail(c, models.NewValidationError("permanent must be true or false"))
			return
		}
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), permanent); err != nil {
		h.resp.fail(c, err)
		return
	}
	if permanent {
		h.resp.done(c, "Customer deleted")
		return
	}
	h.resp.done(c, "Customer deactivated")
}
