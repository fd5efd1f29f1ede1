package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de lectura para el dashboard. No modifica datos.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador de analítica.
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// GetSalesMetrics devuelve total facturado y total cobrado en el rango.
func (r *AnalyticsRepo) GetSalesMetrics(ctx context.Context, startDate, endDate time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT coalesce(sum(total_amount), 0), coalesce(sum(paid_amount), 0)
		FROM invoices
		WHERE invoice_date >= $1 AND invoice_date < $2`
	var invoiced, collected decimal.Decimal
	err := r.q.QueryRow(ctx, query, startDate, endDate).Scan(&invoiced, &collected)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("sales metrics: %w", err)
	}
	return invoiced, collected, nil
}

// GetTopProducts devuelve los productos con mayor ingreso facturado.
func (r *AnalyticsRepo) GetTopProducts(ctx context.Context, startDate, endDate time.Time, limit int) ([]repository.TopProductResult, error) {
	query := `
		SELECT p.id, p.product_code, p.name,
			coalesce(sum(il.quantity), 0), coalesce(sum(il.line_total), 0)
		FROM invoice_lines il
		JOIN invoices i ON i.id = il.invoice_id
		JOIN products p ON p.id = il.product_id
		WHERE i.invoice_date >= $1 AND i.invoice_date < $2
		GROUP BY p.id, p.product_code, p.name
		ORDER BY sum(il.line_total) DESC
		LIMIT $3`
	rows, err := r.q.Query(ctx, query, startDate, endDate, limit)
	if err != nil {
		return nil, fmt.Errorf("top products: %w", err)
	}
	defer rows.Close()
	var list []repository.TopProductResult
	for rows.Next() {
		var t repository.TopProductResult
		if err := rows.Scan(&t.ProductID, &t.ProductCode, &t.ProductName, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top product: %w", err)
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

// GetSalesByMonth devuelve la serie mensual de los últimos `months` meses.
// generate_series rellena con cero los meses sin facturación.
func (r *AnalyticsRepo) GetSalesByMonth(ctx context.Context, months int) ([]repository.SalesByMonthResult, error) {
	query := `
		WITH meses AS (
			SELECT date_trunc('month', now()) - (n || ' months')::interval AS mes
			FROM generate_series($1 - 1, 0, -1) AS n
		)
		SELECT
			extract(year FROM m.mes)::int,
			extract(month FROM m.mes)::int,
			coalesce(sum(i.total_amount), 0),
			count(i.id)
		FROM meses m
		LEFT JOIN invoices i
			ON date_trunc('month', i.invoice_date) = m.mes
		GROUP BY m.mes
		ORDER BY m.mes`
	rows, err := r.q.Query(ctx, query, months)
	if err != nil {
		return nil, fmt.Errorf("sales by month: %w", err)
	}
	defer rows.Close()
	var list []repository.SalesByMonthResult
	for rows.Next() {
		var s repository.SalesByMonthResult
		if err := rows.Scan(&s.Year, &s.Month, &s.Total, &s.Count); err != nil {
			return nil, fmt.Errorf("scan sales by month: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// GetPendingCounters devuelve los contadores operativos del dashboard.
// Una sola pasada con subconsultas escalares.
func (r *AnalyticsRepo) GetPendingCounters(ctx context.Context, today time.Time) (*repository.PendingCounters, error) {
	query := `
		SELECT
			(SELECT count(*) FROM quotes WHERE status IN ($1, $2) AND valid_until >= $7),
			(SELECT count(*) FROM sales_orders WHERE status IN ($3, $4)),
			(SELECT count(*) FROM invoices WHERE status = $5),
			(SELECT count(*) FROM products WHERE is_active AND is_trackable AND current_stock < min_stock_level),
			(SELECT count(*) FROM deposits WHERE status = $6)`
	var c repository.PendingCounters
	err := r.q.QueryRow(ctx, query,
		entity.QuoteStatusDraft, entity.QuoteStatusSent,
		entity.OrderStatusPending, entity.OrderStatusConfirmed,
		entity.InvoiceStatusOverdue, entity.DepositStatusActive, today,
	).Scan(&c.PendingQuotes, &c.PendingOrders, &c.OverdueInvoices, &c.LowStockProducts, &c.ActiveDeposits)
	if err != nil {
		return nil, fmt.Errorf("pending counters: %w", err)
	}
	return &c, nil
}

// GetDepositTotals devuelve el disponible total de depósitos activos por moneda.
func (r *AnalyticsRepo) GetDepositTotals(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			coalesce(sum(available_amount) FILTER (WHERE currency = 'PYG'), 0),
			coalesce(sum(available_amount) FILTER (WHERE currency = 'USD'), 0)
		FROM deposits WHERE status = $1`
	var pyg, usd decimal.Decimal
	err := r.q.QueryRow(ctx, query, entity.DepositStatusActive).Scan(&pyg, &usd)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("deposit totals: %w", err)
	}
	return pyg, usd, nil
}
