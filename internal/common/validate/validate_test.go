package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cafesync/internal/domain"
)

type stockReq struct {
	Quantity  float64 `validate:"gt=0"`
	Operation string  `validate:"required,stock_operation"`
}

func TestStructCustomTags(t *testing.T) {
	assert.NoError(t, Struct(stockReq{Quantity: 1, Operation: "subtract"}, ""))

	err := Struct(stockReq{Quantity: 1, Operation: "multiply"}, "")
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "stock_operation")

	err = Struct(stockReq{}, "Quantity and operation are required")
	assert.EqualError(t, err, "Quantity and operation are required")
}

func TestVarOrderStatus(t *testing.T) {
	assert.NoError(t, Var("ready", "order_status"))
	assert.Error(t, Var("shipped", "order_status"))
	assert.NoError(t, Var("kitchen", "employee_role"))
	assert.Error(t, Var("chef", "employee_role"))
}
