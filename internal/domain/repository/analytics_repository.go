package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TopProductResult resultado crudo de la consulta de productos más vendidos.
// Lo produce la DB; el use case lo convierte en DTO.
type TopProductResult struct {
	ProductID   string
	ProductCode string
	ProductName string
	UnitsSold   int
	Revenue     decimal.Decimal // suma de line_total de líneas de factura
}

// SalesByMonthResult punto de la serie mensual de ventas.
type SalesByMonthResult struct {
	Year  int
	Month int
	Total decimal.Decimal
	Count int
}

// PendingCounters contadores operativos del dashboard.
type PendingCounters struct {
	PendingQuotes    int // cotizaciones DRAFT o SENT vigentes
	PendingOrders    int // órdenes PENDING o CONFIRMED
	OverdueInvoices  int
	LowStockProducts int // current_stock < min_stock_level
	ActiveDeposits   int
}

// AnalyticsRepository define las consultas de lectura para el dashboard.
// Las implementaciones son read-only (no modifican datos).
type AnalyticsRepository interface {
	// GetSalesMetrics devuelve el total facturado y el total cobrado en el
	// rango de fechas dado. Usa COALESCE para devolver cero si no hay
	// facturas en el período.
	GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (invoiced, collected decimal.Decimal, err error)

	// GetTopProducts devuelve los `limit` productos con mayor ingreso
	// facturado en el período.
	GetTopProducts(ctx context.Context, startDate, endDate time.Time, limit int) ([]TopProductResult, error)

	// GetSalesByMonth devuelve la serie mensual de facturación de los
	// últimos `months` meses, incluyendo meses sin ventas en cero.
	GetSalesByMonth(ctx context.Context, months int) ([]SalesByMonthResult, error)

	// GetPendingCounters devuelve los contadores operativos del dashboard.
	GetPendingCounters(ctx context.Context, today time.Time) (*PendingCounters, error)

	// GetDepositTotals devuelve el saldo disponible total de depósitos
	// activos por moneda.
	GetDepositTotals(ctx context.Context) (availablePYG, availableUSD decimal.Decimal, err error)
}
