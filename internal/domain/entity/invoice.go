package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una factura.
const (
	InvoiceStatusDraft         = "DRAFT"
	InvoiceStatusSent          = "SENT"
	InvoiceStatusPaid          = "PAID"
	InvoiceStatusPartiallyPaid = "PARTIALLY_PAID"
	InvoiceStatusOverdue       = "OVERDUE"
)

// Categorías de IVA paraguayo por línea.
const (
	IVACategory10     = "10"
	IVACategory5      = "5"
	IVACategoryExempt = "EXENTO"
)

// Condiciones de venta.
const (
	CondicionContado = "CONTADO"
	CondicionCredito = "CREDITO"
)

// Invoice representa la cabecera de una factura con el desglose de IVA
// paraguayo (gravado 10%, gravado 5%, exento) y el control de cobros.
// BalanceDue = TotalAmount - PaidAmount, siempre >= 0.
type Invoice struct {
	ID            string
	InvoiceNumber string // formato paraguayo: 001-0000001
	SalesOrderID  string // vacío si es factura directa
	CustomerID    string
	InvoiceDate   time.Time
	DueDate       time.Time
	Status        string
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaidAmount    decimal.Decimal
	BalanceDue    decimal.Decimal
	Currency      string // PYG, USD
	Notes         string

	// Campos fiscales Paraguay
	PuntoExpedicion string
	CondicionVenta  string // CONTADO, CREDITO
	LugarEmision    string

	// Desglose de IVA paraguayo
	SubtotalGravado10 decimal.Decimal
	SubtotalGravado5  decimal.Decimal
	SubtotalExento    decimal.Decimal
	IVA10             decimal.Decimal
	IVA5              decimal.Decimal

	// Régimen de turismo
	TourismRegimeApplied    bool
	TourismRegimePercentage decimal.Decimal // porcentaje de exención (100 = total)

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InvoiceLine representa una línea de factura con su categoría de IVA.
type InvoiceLine struct {
	ID              string
	InvoiceID       string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
	Description     string
	IVACategory     string // 10, 5, EXENTO
	IVAAmount       decimal.Decimal
}

// Métodos de pago.
const (
	PaymentCash     = "CASH"
	PaymentTransfer = "TRANSFER"
	PaymentCheck    = "CHECK"
	PaymentCard     = "CARD"
)

// Payment registra un cobro aplicado a una factura.
type Payment struct {
	ID              string
	InvoiceID       string
	PaymentDate     time.Time
	Amount          decimal.Decimal
	PaymentMethod   string // CASH, TRANSFER, CHECK, CARD
	ReferenceNumber string
	Notes           string
	CreatedAt       time.Time
}
