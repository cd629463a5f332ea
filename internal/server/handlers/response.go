package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Message string      `json:"message,omitempty"`
}

const (
	errValidation = "Validation failed"
	errNotFound   = "Not found"
	errInternal   = "Internal server error"
)

// Responder writes envelopes and maps service errors to status codes.
type Responder struct {
	production bool
	logger     *zap.Logger
}

// NewResponder builds a Responder. In production the detail of internal
// errors is withheld from clients.
func NewResponder(production bool, logger *zap.Logger) *Responder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Responder{production: production, logger: logger}
}

func (r *Responder) ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

func (r *Responder) created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Success: true, Data: data})
}

func (r *Responder) done(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message})
}

// fail maps err onto the envelope: validation errors are 400, missing
// resources 404 and everything else 500.
func (r *Responder) fail(c *gin.Context, err error) {
	var validation *models.ValidationError
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, Response{Error: errValidation, Message: validation.Message})
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, Response{Error: errNotFound, Message: err.Error()})
	default:
		r.logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		_ = c.Error(err)
		resp := Response{Error: errInternal}
		if !r.production {
			resp.Message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// invalid answers a request whose body or query could not be bound.
func (r *Responder) invalid(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, Response{Error: errValidation, Message: bindingMessage(err)})
}

func bindingMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		parts := make([]string, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			parts = append(parts, fe.Field()+": "+fieldMessage(fe))
		}
		return strings.Join(parts, "; ")
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is required"
	case errors.As(err, &syntaxErr):
		return "request body is not valid JSON"
	case errors.As(err, &typeErr):
		return typeErr.Field + ": must be a " + typeErr.Type.String()
	}
	return err.Error()
}
