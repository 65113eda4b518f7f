// Package sale contiene el cálculo de totales de una venta (servicio de dominio, sin IO).
package sale

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// DefaultTaxRate IVA Colombia aplicado a toda venta (19%).
var DefaultTaxRate = decimal.RequireFromString("0.19")

// moneyPlaces decimales con los que se persisten los montos (NUMERIC(14,2)).
const moneyPlaces = 2

// Line línea de venta ya resuelta: cantidad y precio unitario a cobrar.
type Line struct {
	Quantity int
	Price    decimal.Decimal
}

// Subtotal = Quantity * Price.
func (l Line) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Totals montos de cabecera de una venta.
type Totals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Discount decimal.Decimal
	Total    decimal.Decimal
}

// CalculateTotals aplica la fórmula de la venta:
//
//	Subtotal = Σ (precio × cantidad)
//	Tax      = round(Subtotal × taxRate, 2)
//	Total    = Subtotal + Tax - Discount
//
// El total no se limita a cero: un descuento mayor que Subtotal+Tax da un total negativo.
func CalculateTotals(lines []Line, taxRate, discount decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Subtotal())
	}
	tax := subtotal.Mul(taxRate).Round(moneyPlaces)
	return Totals{
		Subtotal: subtotal,
		Tax:      tax,
		Discount: discount,
		Total:    subtotal.Add(tax).Sub(discount),
	}
}

// Fits indica si todos los montos de la venta, líneas incluidas, caben en las columnas de la BD.
func Fits(lines []Line, t Totals) bool {
	for _, l := range lines {
		if !entity.AmountInRange(l.Subtotal()) {
			return false
		}
	}
	return entity.AmountInRange(t.Subtotal) && entity.AmountInRange(t.Tax) &&
		entity.AmountInRange(t.Discount) && entity.AmountInRange(t.Total)
}
