package sales

import (
	"context"

	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios atados a esa tx.
// La implementación puede reintentar fn ante conflictos de serialización o deadlocks,
// así que fn debe reconstruir todo su estado en cada intento.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
	) error) error
}

// PricePolicy define qué precio unitario se cobra en cada línea.
type PricePolicy string

const (
	// PricePolicyTrustCaller cobra el precio enviado por la caja (promociones, ajustes manuales).
	PricePolicyTrustCaller PricePolicy = "caller"
	// PricePolicyCatalog ignora el precio enviado y cobra el precio vivo del producto.
	PricePolicyCatalog PricePolicy = "catalog"
)
