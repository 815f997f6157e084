// Package validate holds the shared validator instance and the custom tags
// used by request bodies.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"cafesync/internal/domain"
)

var (
	once sync.Once
	v    *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		v = validator.New(validator.WithRequiredStructEnabled())
		_ = v.RegisterValidation("order_status", func(fl validator.FieldLevel) bool {
			return domain.OrderStatus(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("stock_operation", func(fl validator.FieldLevel) bool {
			switch domain.StockOperation(fl.Field().String()) {
			case domain.StockAdd, domain.StockSubtract, domain.StockSet:
				return true
			}
			return false
		})
		_ = v.RegisterValidation("employee_role", func(fl validator.FieldLevel) bool {
			return domain.Role(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("employee_status", func(fl validator.FieldLevel) bool {
			return domain.EmployeeStatus(fl.Field().String()).Valid()
		})
	})
	return v
}

// Struct validates s and turns failures into a domain validation error.
// A non-empty msg replaces the generated description.
func Struct(s any, msg string) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}
	if msg != "" {
		return domain.Invalid(msg)
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return domain.Invalid(err.Error())
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed on %s", fe.Namespace(), fe.Tag()))
	}
	return domain.Invalid(strings.Join(parts, "; "))
}

func Var(field any, tag string) error {
	return instance().Var(field, tag)
}
