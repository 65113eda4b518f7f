package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/paws-pos/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo agregaciones de solo lectura para el dashboard y el resumen de ventas.
type AnalyticsRepo struct {
	q Querier
}

func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics SUM(total) y COUNT(*) en la ventana; sin ventas devuelve 0 y 0.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, from, to *time.Time) (repository.SalesMetrics, error) {
	where, args := windowClause(from, to)
	var m repository.SalesMetrics
	err := r.q.QueryRow(ctx, `SELECT COALESCE(SUM(total), 0), COUNT(*) FROM sales`+where, args...).
		Scan(&m.Revenue, &m.Count)
	if err != nil {
		return repository.SalesMetrics{}, fmt.Errorf("sales metrics: %w", err)
	}
	return m, nil
}

func (r *AnalyticsRepo) CountActiveProducts(ctx context.Context) (int, error) {
	var n int
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active products: %w", err)
	}
	return n, nil
}

func (r *AnalyticsRepo) CountLowStockProducts(ctx context.Context, threshold int) (int, error) {
	var n int
	err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM products WHERE is_active AND stock < $1`, threshold).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count low stock products: %w", err)
	}
	return n, nil
}
