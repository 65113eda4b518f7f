package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesMetrics agregados de ventas en una ventana de fechas.
type SalesMetrics struct {
	Revenue decimal.Decimal // Σ total
	Count   int
}

// AnalyticsRepository consultas de solo lectura para reportes y dashboard.
type AnalyticsRepository interface {
	// GetSalesMetrics suma totales y cuenta ventas con created_at en [from, to]; nil = sin límite.
	GetSalesMetrics(ctx context.Context, from, to *time.Time) (SalesMetrics, error)
	CountActiveProducts(ctx context.Context) (int, error)
	// CountLowStockProducts cuenta productos activos con stock < threshold.
	CountLowStockProducts(ctx context.Context, threshold int) (int, error)
}
