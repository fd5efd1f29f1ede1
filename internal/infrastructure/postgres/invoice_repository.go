package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, invoice_number, sales_order_id, customer_id, invoice_date, due_date, status,
	subtotal, tax_amount, total_amount, paid_amount, balance_due, currency, notes,
	punto_expedicion, condicion_venta, lugar_emision,
	subtotal_gravado_10, subtotal_gravado_5, subtotal_exento, iva_10, iva_5,
	tourism_regime_applied, tourism_regime_percentage, created_at, updated_at`

// Create persiste cabecera y líneas de la factura.
func (r *InvoiceRepo) Create(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	ctx := context.Background()
	query := `
		INSERT INTO invoices (` + invoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(ctx, query,
		inv.ID, inv.InvoiceNumber, nullIfEmpty(inv.SalesOrderID), inv.CustomerID, inv.InvoiceDate, inv.DueDate, inv.Status,
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount, inv.PaidAmount, inv.BalanceDue, inv.Currency, inv.Notes,
		inv.PuntoExpedicion, inv.CondicionVenta, inv.LugarEmision,
		inv.SubtotalGravado10, inv.SubtotalGravado5, inv.SubtotalExento, inv.IVA10, inv.IVA5,
		inv.TourismRegimeApplied, inv.TourismRegimePercentage, inv.CreatedAt, inv.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	lineQuery := `
		INSERT INTO invoice_lines (id, invoice_id, product_id, quantity, unit_price, discount_percent,
			line_total, description, iva_category, iva_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	for _, l := range lines {
		_, err := r.q.Exec(ctx, lineQuery,
			l.ID, l.InvoiceID, l.ProductID, l.Quantity, l.UnitPrice, l.DiscountPercent,
			l.LineTotal, l.Description, l.IVACategory, l.IVAAmount)
		if err != nil {
			return fmt.Errorf("insert invoice line: %w", err)
		}
	}
	return nil
}

// GetByID obtiene una factura por ID.
func (r *InvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	return scanInvoice(r.q.QueryRow(context.Background(), query, id))
}

// GetLines devuelve las líneas de la factura.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, product_id, quantity, unit_price, discount_percent,
			line_total, description, iva_category, iva_amount
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY description`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.DiscountPercent,
			&l.LineTotal, &l.Description, &l.IVACategory, &l.IVAAmount); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// List lista facturas filtradas, más recientes primero.
func (r *InvoiceRepo) List(filter repository.InvoiceFilter) ([]*entity.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE ($1 = '' OR customer_id = $1::uuid)
		  AND ($2 = '' OR status = $2)
		  AND ($3::timestamptz IS NULL OR invoice_date >= $3)
		  AND ($4::timestamptz IS NULL OR invoice_date <= $4)
		ORDER BY invoice_date DESC, invoice_number DESC
		LIMIT $5 OFFSET $6`
	rows, err := r.q.Query(context.Background(), query,
		filter.CustomerID, filter.Status, filter.FromDate, filter.ToDate, filter.Limit, filter.Offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de la factura.
func (r *InvoiceRepo) UpdateStatus(id, status string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE invoices SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return nil
}

// ApplyPayment suma el cobro con un update condicionado: la fila solo se
// toca si el monto no supera el saldo. Cero filas afectadas significa
// conflicto (cobro concurrente o monto excesivo).
func (r *InvoiceRepo) ApplyPayment(invoiceID string, amount decimal.Decimal) (*entity.Invoice, error) {
	query := `
		UPDATE invoices
		SET paid_amount = paid_amount + $2, balance_due = balance_due - $2, updated_at = now()
		WHERE id = $1 AND balance_due >= $2
		RETURNING ` + invoiceColumns
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, invoiceID, amount))
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrConflict
	}
	return inv, nil
}

// CreatePayment persiste un cobro.
func (r *InvoiceRepo) CreatePayment(p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, invoice_id, payment_date, amount, payment_method, reference_number, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.InvoiceID, p.PaymentDate, p.Amount, p.PaymentMethod, p.ReferenceNumber, p.Notes, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// ListPayments devuelve los cobros de una factura.
func (r *InvoiceRepo) ListPayments(invoiceID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, invoice_id, payment_date, amount, payment_method, reference_number, notes, created_at
		FROM payments WHERE invoice_id = $1 ORDER BY payment_date`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.PaymentDate, &p.Amount, &p.PaymentMethod,
			&p.ReferenceNumber, &p.Notes, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}

// MarkOverdue pasa a OVERDUE las facturas con saldo y vencimiento pasado.
func (r *InvoiceRepo) MarkOverdue(today time.Time) (int, error) {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE invoices SET status = $1, updated_at = now()
		WHERE status IN ($2, $3) AND due_date < $4 AND balance_due > 0`,
		entity.InvoiceStatusOverdue, entity.InvoiceStatusSent, entity.InvoiceStatusPartiallyPaid, today)
	if err != nil {
		return 0, fmt.Errorf("mark invoices overdue: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Summary agrega los totales de facturación del período.
func (r *InvoiceRepo) Summary(from, to time.Time) (*repository.InvoiceSummary, error) {
	query := `
		SELECT count(*),
			coalesce(sum(total_amount), 0),
			coalesce(sum(paid_amount), 0),
			coalesce(sum(balance_due), 0),
			count(*) FILTER (WHERE status = $3)
		FROM invoices
		WHERE invoice_date BETWEEN $1 AND $2`
	var s repository.InvoiceSummary
	err := r.q.QueryRow(context.Background(), query, from, to, entity.InvoiceStatusOverdue).Scan(
		&s.Count, &s.TotalAmount, &s.PaidAmount, &s.BalanceDue, &s.OverdueCount)
	if err != nil {
		return nil, fmt.Errorf("invoice summary: %w", err)
	}
	return &s, nil
}

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var salesOrderID *string
	err := row.Scan(
		&inv.ID, &inv.InvoiceNumber, &salesOrderID, &inv.CustomerID, &inv.InvoiceDate, &inv.DueDate, &inv.Status,
		&inv.Subtotal, &inv.TaxAmount, &inv.TotalAmount, &inv.PaidAmount, &inv.BalanceDue, &inv.Currency, &inv.Notes,
		&inv.PuntoExpedicion, &inv.CondicionVenta, &inv.LugarEmision,
		&inv.SubtotalGravado10, &inv.SubtotalGravado5, &inv.SubtotalExento, &inv.IVA10, &inv.IVA5,
		&inv.TourismRegimeApplied, &inv.TourismRegimePercentage, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan invoice: %w", err)
	}
	if salesOrderID != nil {
		inv.SalesOrderID = *salesOrderID
	}
	return &inv, nil
}
