package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// ProductFilter filtros combinables (AND) para listar productos.
type ProductFilter struct {
	Offset     int
	Limit      int
	Search     string // subcadena del nombre, sin distinguir mayúsculas
	CategoryID string
	IsActive   *bool // nil = activos e inactivos
}

// ProductPatch cambios parciales sobre un producto. Un campo nil no se toca;
// en particular Stock solo se sobrescribe si viene informado.
type ProductPatch struct {
	CategoryID  *string
	Name        *string
	Description *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	Stock       *int
	SetBarcode  bool // escribe Barcode aunque sea nil (quitar el código)
	Barcode     *string
	UnitMeasure *string
	ImageBase64 *string
	ImageURL    *string
	IsActive    *bool
	UpdatedAt   time.Time
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// GetByID/GetByBarcode devuelven (nil, nil) si no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByBarcode(ctx context.Context, barcode string) (*entity.Product, error)
	// Update aplica el patch en una sola sentencia y devuelve la fila resultante.
	// ErrNotFound si el producto no existe.
	Update(ctx context.Context, id string, patch ProductPatch) (*entity.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*entity.Product, error)
	// Deactivate marca is_active = false con updated_at = at. Devuelve false si el producto no existe.
	Deactivate(ctx context.Context, id string, at time.Time) (bool, error)

	// LockForUpdate bloquea las filas indicadas (SELECT ... FOR UPDATE) en orden de id.
	// Solo tiene sentido dentro de una transacción. Los ids inexistentes se omiten.
	LockForUpdate(ctx context.Context, ids []string) ([]*entity.Product, error)
	// DecrementStock descuenta qty solo si el stock alcanza; false si no alcanzó.
	DecrementStock(ctx context.Context, id string, qty int) (bool, error)
}
