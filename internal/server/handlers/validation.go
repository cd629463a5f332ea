package handlers

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/mamadbah2/milkbook/internal/domain/models"
)

var registerOnce sync.Once

// RegisterValidators installs the domain tags (shift, category, day) on gin's
// validator and reports fields by their json or form name.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
			}
			return name
		})

		_ = v.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseShift(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			_, ok := models.ParseCategory(fl.Field().String())
			return ok
		})
		_ = v.RegisterValidation("day", func(fl validator.FieldLevel) bool {
			return models.IsDay(fl.Field().String())
		})
	})
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "shift":
		return "must be MORNING or EVENING"
	case "category":
		return "must be REGULAR or VARIABLE"
	case "day":
		return "must be a date in YYYY-MM-DD format"
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	default:
		return "is invalid"
	}
}
