package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.SalesOrderRepository = (*SalesOrderRepo)(nil)

// SalesOrderRepo implementación de SalesOrderRepository (usable con pool o tx).
type SalesOrderRepo struct {
	q Querier
}

// NewSalesOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSalesOrderRepository(q Querier) *SalesOrderRepo {
	return &SalesOrderRepo{q: q}
}

const orderColumns = `id, order_number, quote_id, customer_id, order_date, delivery_date, status,
	subtotal, tax_amount, total_amount, shipping_cost, notes, created_by, created_at, updated_at`

// Create persiste cabecera y líneas de la orden.
func (r *SalesOrderRepo) Create(order *entity.SalesOrder, lines []*entity.SalesOrderLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO sales_orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		order.ID, order.OrderNumber, nullIfEmpty(order.QuoteID), order.CustomerID, order.OrderDate,
		order.DeliveryDate, order.Status, order.Subtotal, order.TaxAmount, order.TotalAmount,
		order.ShippingCost, order.Notes, order.CreatedByID, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert sales order: %w", err)
	}
	lineQuery := `
		INSERT INTO sales_order_lines (id, order_id, product_id, quantity, unit_price, discount_percent, line_total, description)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.OrderID, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountPercent, l.LineTotal, l.Description)
		if err != nil {
			return fmt.Errorf("insert sales order line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una orden por ID.
func (r *SalesOrderRepo) GetByID(id string) (*entity.SalesOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM sales_orders WHERE id = $1`
	return scanOrder(r.q.QueryRow(context.Background(), query, id))
}

// GetLines devuelve las líneas de la orden.
func (r *SalesOrderRepo) GetLines(orderID string) ([]*entity.SalesOrderLine, error) {
	query := `
		SELECT id, order_id, product_id, quantity, unit_price, discount_percent, line_total, description
		FROM sales_order_lines WHERE order_id = $1 ORDER BY description`
	rows, err := r.q.Query(context.Background(), query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrderLine
	for rows.Next() {
		var l entity.SalesOrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Quantity, &l.UnitPrice,
			&l.DiscountPercent, &l.LineTotal, &l.Description); err != nil {
			return nil, fmt.Errorf("scan order line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List lista órdenes filtradas, más recientes primero.
func (r *SalesOrderRepo) List(filter repository.OrderFilter) ([]*entity.SalesOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM sales_orders
		WHERE ($1 = '' OR customer_id = $1::uuid)
		  AND ($2 = '' OR status = $2)
		  AND ($3::timestamptz IS NULL OR order_date >= $3)
		  AND ($4::timestamptz IS NULL OR order_date <= $4)
		ORDER BY order_date DESC, order_number DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.CustomerID, filter.Status, filter.FromDate, filter.ToDate, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list sales orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.SalesOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la orden.
func (r *SalesOrderRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE sales_orders SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}

// LastNumberWithPrefix devuelve el mayor order_number con el prefijo dado.
func (r *SalesOrderRepo) LastNumberWithPrefix(prefix string) (string, error) {
	query := `
		SELECT order_number FROM sales_orders
		WHERE order_number LIKE $1 || '%'
		ORDER BY order_number DESC LIMIT 1`
	var number string
	err := r.q.QueryRow(context.Background(), query, prefix).Scan(&number)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}
		return "", fmt.Errorf("last order number: %w", err)
	}
	return number, nil
}

func scanOrder(row pgx.Row) (*entity.SalesOrder, error) {
	var o entity.SalesOrder
	var quoteID *string
	err := row.Scan(
		&o.ID, &o.OrderNumber, &quoteID, &o.CustomerID, &o.OrderDate, &o.DeliveryDate, &o.Status,
		&o.Subtotal, &o.TaxAmount, &o.TotalAmount, &o.ShippingCost, &o.Notes, &o.CreatedByID,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan sales order: %w", err)
	}
	if quoteID != nil {
		o.QuoteID = *quoteID
	}
	return &o, nil
}
