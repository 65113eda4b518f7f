package repository

import (
	"context"
	"time"

	"github.com/jhoicas/paws-pos/internal/domain/entity"
)

// SaleFilter ventana de fechas (inclusiva) y paginación para listar ventas.
type SaleFilter struct {
	From   *time.Time
	To     *time.Time
	Offset int
	Limit  int
}

// SaleRepository define el puerto de persistencia para Sale y sus SaleItem.
type SaleRepository interface {
	// Create inserta la cabecera y todas sus líneas.
	Create(ctx context.Context, sale *entity.Sale) error
	// GetByID devuelve la venta sin líneas, o (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	// List devuelve cabeceras ordenadas de la más reciente a la más antigua.
	List(ctx context.Context, filter SaleFilter) ([]*entity.Sale, error)
	// ListItems carga en lote las líneas de las ventas indicadas, con el nombre del producto.
	ListItems(ctx context.Context, saleIDs []string) ([]entity.SaleItem, error)
}
