package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// InvoiceFilter filtros del listado de facturas.
type InvoiceFilter struct {
	CustomerID string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// InvoiceSummary agrega totales de facturación para reportes.
type InvoiceSummary struct {
	Count        int
	TotalAmount  decimal.Decimal
	PaidAmount   decimal.Decimal
	BalanceDue   decimal.Decimal
	OverdueCount int
}

// InvoiceRepository define el puerto de persistencia para facturas y cobros.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice, lines []*entity.InvoiceLine) error
	GetByID(id string) (*entity.Invoice, error)
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	List(filter InvoiceFilter) ([]*entity.Invoice, error)
	UpdateStatus(id, status string) error

	// ApplyPayment incrementa paid_amount y descuenta balance_due con un
	// update condicionado (amount <= balance_due). Devuelve la factura
	// actualizada o domain.ErrConflict si el guard no se cumple.
	ApplyPayment(invoiceID string, amount decimal.Decimal) (*entity.Invoice, error)

	CreatePayment(payment *entity.Payment) error
	ListPayments(invoiceID string) ([]*entity.Payment, error)

	// MarkOverdue pasa a OVERDUE las facturas SENT o PARTIALLY_PAID con
	// due_date vencida y saldo pendiente. Devuelve la cantidad afectada.
	MarkOverdue(today time.Time) (int, error)

	Summary(from, to time.Time) (*InvoiceSummary, error)
}
