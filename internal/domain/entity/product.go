package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// LowStockThreshold unidades por debajo de las cuales un producto activo se considera en stock bajo.
const LowStockThreshold = 10

// MaxAmount mayor monto que admiten las columnas NUMERIC(14,2).
var MaxAmount = decimal.RequireFromString("999999999999.99")

// AmountInRange indica si d cabe en una columna de montos (en valor absoluto).
func AmountInRange(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// Product representa un producto del catálogo con su stock.
// Stock nunca es negativo; el motor de ventas lo verifica antes de descontar.
type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta, > 0
	Cost        decimal.Decimal // costo, >= 0
	Stock       int
	Barcode     *string // único globalmente (activos e inactivos), nil = sin código
	UnitMeasure string
	ImageBase64 string
	ImageURL    string
	IsActive    bool // false = borrado lógico
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsLowStock indica si el producto activo está por debajo del umbral.
func (p *Product) IsLowStock() bool {
	return p.IsActive && p.Stock < LowStockThreshold
}
