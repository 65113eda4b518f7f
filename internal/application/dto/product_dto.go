package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
// Price > 0, Cost >= 0 y Stock >= 0 se verifican en el caso de uso.
type CreateProductRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock" validate:"gte=0"`
	Barcode     *string         `json:"barcode" validate:"omitempty,max=100"`
	CategoryID  string          `json:"category_id" validate:"required,uuid"`
	UnitMeasure string          `json:"unit_measure" validate:"max=50"`
	ImageBase64 string          `json:"image_base64"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest actualización parcial: solo se aplican los campos presentes (no nil).
type UpdateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=200"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	Cost        *decimal.Decimal `json:"cost"`
	Stock       *int             `json:"stock" validate:"omitempty,gte=0"`
	Barcode     *string          `json:"barcode" validate:"omitempty,max=100"`
	CategoryID  *string          `json:"category_id" validate:"omitempty,uuid"`
	UnitMeasure *string          `json:"unit_measure" validate:"omitempty,max=50"`
	ImageBase64 *string          `json:"image_base64"`
	ImageURL    *string          `json:"image_url" validate:"omitempty,url"`
	IsActive    *bool            `json:"is_active"`
}

// ProductListQuery filtros de GET /api/products. IsActive: "true" (defecto), "false" o "all".
type ProductListQuery struct {
	Skip       int    `query:"skip"`
	Limit      int    `query:"limit"`
	Search     string `query:"search"`
	CategoryID string `query:"category_id"`
	IsActive   string `query:"is_active"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string          `json:"id"`
	CategoryID  string          `json:"category_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Cost        decimal.Decimal `json:"cost"`
	Stock       int             `json:"stock"`
	Barcode     *string         `json:"barcode"`
	UnitMeasure string          `json:"unit_measure,omitempty"`
	ImageURL    string          `json:"image_url,omitempty"`
	ImageBase64 string          `json:"image_base64,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// Page devuelve la paginación normalizada.
func (q ProductListQuery) Page() PageRequest {
	p := PageRequest{Skip: q.Skip, Limit: q.Limit}
	p.DefaultPage()
	return p
}
