package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea del pedido: producto, cantidad y precio unitario cobrado.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  int             `json:"quantity" validate:"gt=0"`
	Price     decimal.Decimal `json:"price"`
}

// CreateSaleRequest entrada de POST /api/sales.
type CreateSaleRequest struct {
	Items         []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
	PaymentMethod string            `json:"payment_method" validate:"required,oneof=cash card nequi daviplata transfer"`
	Discount      decimal.Decimal   `json:"discount"`
	CustomerName  string            `json:"customer_name" validate:"max=200"`
	CustomerEmail string            `json:"customer_email" validate:"omitempty,email"`
	Notes         string            `json:"notes"`
}

// ListSalesQuery filtros de GET /api/sales. Las fechas aceptan RFC 3339 o YYYY-MM-DD.
type ListSalesQuery struct {
	Skip      int    `query:"skip"`
	Limit     int    `query:"limit"`
	StartDate string `query:"start_date"`
	EndDate   string `query:"end_date"`
	Today     bool   `query:"today"`
	Summary   bool   `query:"summary"`
}

// SaleItemResponse línea de una venta con el nombre del producto.
type SaleItemResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// SaleResponse venta con cajero y líneas.
type SaleResponse struct {
	ID            string             `json:"id"`
	Subtotal      decimal.Decimal    `json:"subtotal"`
	Tax           decimal.Decimal    `json:"tax"`
	Discount      decimal.Decimal    `json:"discount"`
	Total         decimal.Decimal    `json:"total"`
	PaymentMethod string             `json:"payment_method"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerEmail string             `json:"customer_email,omitempty"`
	Notes         string             `json:"notes,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	User          *UserSimple        `json:"user"`
	Items         []SaleItemResponse `json:"items"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}

// SalesSummaryResponse agregado de ventas en la ventana consultada (summary=true).
type SalesSummaryResponse struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// Page devuelve la paginación normalizada.
func (q ListSalesQuery) Page() PageRequest {
	p := PageRequest{Skip: q.Skip, Limit: q.Limit}
	p.DefaultPage()
	return p
}
