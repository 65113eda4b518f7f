// Package analytics contiene los casos de uso de reportes del punto de venta.
package analytics

import (
	"context"
	"fmt"

	"github.com/jhoicas/paws-pos/internal/application/dto"
	"github.com/jhoicas/paws-pos/internal/domain/entity"
	"github.com/jhoicas/paws-pos/internal/domain/repository"
	"github.com/jhoicas/paws-pos/pkg/clock"
)

// DashboardUseCase genera las métricas del tablero: ventas de hoy y estado del inventario.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
	clock         clock.Clock
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository, clk clock.Clock) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo, clock: clk}
}

// GetStats construye el DashboardStatsResponse.
//
// Tres llamadas en paralelo:
//  1. GetSalesMetrics(hoy)           → TodayRevenue + TodaySalesCount
//  2. CountActiveProducts            → TotalProducts
//  3. CountLowStockProducts(umbral)  → LowStockProducts
func (uc *DashboardUseCase) GetStats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	todayStart, todayEnd := clock.DayBounds(uc.clock.Now())

	type metricsResult struct {
		m   repository.SalesMetrics
		err error
	}
	type countResult struct {
		n   int
		err error
	}

	todayCh := make(chan metricsResult, 1)
	activeCh := make(chan countResult, 1)
	lowCh := make(chan countResult, 1)

	go func() {
		m, err := uc.analyticsRepo.GetSalesMetrics(ctx, &todayStart, &todayEnd)
		todayCh <- metricsResult{m, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountActiveProducts(ctx)
		activeCh <- countResult{n, err}
	}()
	go func() {
		n, err := uc.analyticsRepo.CountLowStockProducts(ctx, entity.LowStockThreshold)
		lowCh <- countResult{n, err}
	}()

	today := <-todayCh
	active := <-activeCh
	low := <-lowCh

	if today.err != nil {
		return nil, fmt.Errorf("dashboard: ventas de hoy: %w", today.err)
	}
	if active.err != nil {
		return nil, fmt.Errorf("dashboard: productos activos: %w", active.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}

	return &dto.DashboardStatsResponse{
		TodayRevenue:     today.m.Revenue,
		TodaySalesCount:  today.m.Count,
		TotalProducts:    active.n,
		LowStockProducts: low.n,
	}, nil
}
