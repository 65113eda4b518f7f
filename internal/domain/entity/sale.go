package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados.
const (
	PaymentCash      = "cash"
	PaymentCard      = "card"
	PaymentNequi     = "nequi"
	PaymentDaviplata = "daviplata"
	PaymentTransfer  = "transfer"
)

// PaymentMethods lista los medios de pago en orden estable (para mensajes de validación).
var PaymentMethods = []string{PaymentCash, PaymentCard, PaymentNequi, PaymentDaviplata, PaymentTransfer}

// ValidPaymentMethod indica si m es un medio de pago aceptado.
func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

// Sale es la cabecera inmutable de una venta registrada por un cajero.
// Subtotal = Σ items.Subtotal; Total = Subtotal + Tax - Discount.
type Sale struct {
	ID            string
	UserID        string
	Subtotal      decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	PaymentMethod string
	CustomerName  string
	CustomerEmail string
	Notes         string
	CreatedAt     time.Time

	Items []SaleItem
	User  *User // hidratado en lecturas
}

// SaleItem línea de una venta. Price es el precio unitario capturado al vender,
// desacoplado del precio vivo del producto.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	ProductName string // hidratado en lecturas
	Quantity    int
	Price       decimal.Decimal
	Subtotal    decimal.Decimal
}
