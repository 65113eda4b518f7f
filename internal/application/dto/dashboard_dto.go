package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse respuesta de GET /api/dashboard/stats.
// "Hoy" es el día calendario en la zona horaria del negocio.
type DashboardStatsResponse struct {
	TodayRevenue     decimal.Decimal `json:"today_revenue"`
	TodaySalesCount  int             `json:"today_sales_count"`
	TotalProducts    int             `json:"total_products"`     // activos
	LowStockProducts int             `json:"low_stock_products"` // activos con stock < 10
}
