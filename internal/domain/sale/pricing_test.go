package sale_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/paws-pos/internal/domain/sale"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// Ejemplo de referencia: 2 × 45000 → subtotal 90000, IVA 17100, total 107100.
func TestCalculateTotals_EjemploReferencia(t *testing.T) {
	totals := sale.CalculateTotals(
		[]sale.Line{{Quantity: 2, Price: dec("45000")}},
		sale.DefaultTaxRate,
		decimal.Zero,
	)

	assert.True(t, totals.Subtotal.Equal(dec("90000")), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(dec("17100")), "tax: %s", totals.Tax)
	assert.True(t, totals.Total.Equal(dec("107100")), "total: %s", totals.Total)
}

func TestCalculateTotals_VariasLineasConDescuento(t *testing.T) {
	totals := sale.CalculateTotals(
		[]sale.Line{
			{Quantity: 3, Price: dec("1500.50")},
			{Quantity: 1, Price: dec("10000")},
		},
		sale.DefaultTaxRate,
		dec("500"),
	)

	// 4501.50 + 10000 = 14501.50; IVA = 2755.285 → 2755.29
	assert.True(t, totals.Subtotal.Equal(dec("14501.50")))
	assert.True(t, totals.Tax.Equal(dec("2755.29")))
	assert.True(t, totals.Total.Equal(dec("16756.79")))
	assert.True(t, totals.Discount.Equal(dec("500")))
}

func TestCalculateTotals_DescuentoMayorQueTotalDaNegativo(t *testing.T) {
	totals := sale.CalculateTotals(
		[]sale.Line{{Quantity: 1, Price: dec("1000")}},
		sale.DefaultTaxRate,
		dec("5000"),
	)

	assert.True(t, totals.Total.Equal(dec("-3810")), "total: %s", totals.Total)
}

func TestCalculateTotals_TasaInyectada(t *testing.T) {
	totals := sale.CalculateTotals(
		[]sale.Line{{Quantity: 1, Price: dec("100")}},
		decimal.Zero,
		decimal.Zero,
	)

	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Total.Equal(dec("100")))
}

func TestFits_LimiteNumeric14_2(t *testing.T) {
	ok := []sale.Line{{Quantity: 1, Price: dec("100000000000")}}
	assert.True(t, sale.Fits(ok, sale.CalculateTotals(ok, sale.DefaultTaxRate, decimal.Zero)))

	// 2 × 999999999999.99 desborda el subtotal de la línea.
	big := []sale.Line{{Quantity: 2, Price: dec("999999999999.99")}}
	assert.False(t, sale.Fits(big, sale.CalculateTotals(big, sale.DefaultTaxRate, decimal.Zero)))

	// La línea cabe, pero el IVA lleva el total por encima del máximo.
	edge := []sale.Line{{Quantity: 1, Price: dec("900000000000")}}
	assert.False(t, sale.Fits(edge, sale.CalculateTotals(edge, sale.DefaultTaxRate, decimal.Zero)))
}
