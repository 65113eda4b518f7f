package validate_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/paws-pos/internal/application/validate"
	"github.com/jhoicas/paws-pos/internal/domain"
)

type line struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type order struct {
	Items  []line `json:"items" validate:"required,min=1,dive"`
	Method string `json:"payment_method" validate:"required,oneof=cash card"`
	Email  string `json:"customer_email" validate:"omitempty,email"`
}

func TestStruct_SinViolaciones(t *testing.T) {
	verr := validate.Struct(order{
		Items:  []line{{ProductID: "7d3c2a64-8f6e-4f57-9a43-5f2d7e0c1b11", Quantity: 1}},
		Method: "cash",
	})
	assert.True(t, verr.Empty())
	assert.NoError(t, verr.Err())
}

func TestStruct_ViolacionesConNombresJSON(t *testing.T) {
	verr := validate.Struct(order{
		Items:  []line{{ProductID: "no-uuid", Quantity: 0}},
		Method: "bitcoin",
		Email:  "no-es-email",
	})
	require.False(t, verr.Empty())

	assert.Contains(t, verr.Violations, "items[0].product_id")
	assert.Contains(t, verr.Violations, "items[0].quantity")
	assert.Equal(t, "debe ser uno de: cash, card", verr.Violations["payment_method"])
	assert.Equal(t, "debe ser un email válido", verr.Violations["customer_email"])

	err := verr.Err()
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestStruct_ListaVacia(t *testing.T) {
	verr := validate.Struct(order{Items: []line{}, Method: "cash"})
	assert.Contains(t, verr.Violations, "items")
}

func TestClean_NormalizaNFC(t *testing.T) {
	decomposed := "Cafe\u0301 "
	assert.Equal(t, "Café", validate.Clean(decomposed))
	assert.Nil(t, validate.CleanPtr(nil))
	assert.Equal(t, "x", *validate.CleanPtr(ptr("  x ")))
}

func ptr(s string) *string { return &s }
