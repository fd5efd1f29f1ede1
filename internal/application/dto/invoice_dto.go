package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLineRequest línea de factura en la entrada.
type InvoiceLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	IVACategory     string          `json:"iva_category" validate:"omitempty,oneof=10 5 EXENTO"`
	Description     string          `json:"description"`
}

// CreateInvoiceRequest entrada para emitir una factura. El número se asigna
// del contador de la empresa; los totales y el desglose de IVA se calculan
// en el servidor.
type CreateInvoiceRequest struct {
	CustomerID     string               `json:"customer_id" validate:"required"`
	SalesOrderID   string               `json:"sales_order_id"`
	InvoiceDate    *time.Time           `json:"invoice_date"`
	DueDate        *time.Time           `json:"due_date"`
	CondicionVenta string               `json:"condicion_venta" validate:"omitempty,oneof=CONTADO CREDITO"`
	Currency       string               `json:"currency" validate:"omitempty,oneof=PYG USD"`
	Notes          string               `json:"notes"`
	Lines          []InvoiceLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// AddPaymentRequest entrada para registrar un cobro sobre una factura.
type AddPaymentRequest struct {
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	PaymentDate     *time.Time      `json:"payment_date"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=CASH TRANSFER CHECK CARD"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
}

// InvoiceLineResponse línea de factura en la salida.
type InvoiceLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	IVACategory     string          `json:"iva_category"`
	IVAAmount       decimal.Decimal `json:"iva_amount"`
	Description     string          `json:"description,omitempty"`
}

// InvoiceResponse salida de una factura con el desglose fiscal.
type InvoiceResponse struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	SalesOrderID  string          `json:"sales_order_id,omitempty"`
	CustomerID    string          `json:"customer_id"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	DueDate       time.Time       `json:"due_date"`
	Status        string          `json:"status"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	TaxAmount     decimal.Decimal `json:"tax_amount"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount"`
	BalanceDue    decimal.Decimal `json:"balance_due"`
	Currency      string          `json:"currency"`
	Notes         string          `json:"notes,omitempty"`

	PuntoExpedicion string `json:"punto_expedicion"`
	CondicionVenta  string `json:"condicion_venta"`
	LugarEmision    string `json:"lugar_emision,omitempty"`

	SubtotalGravado10 decimal.Decimal `json:"subtotal_gravado_10"`
	SubtotalGravado5  decimal.Decimal `json:"subtotal_gravado_5"`
	SubtotalExento    decimal.Decimal `json:"subtotal_exento"`
	IVA10             decimal.Decimal `json:"iva_10"`
	IVA5              decimal.Decimal `json:"iva_5"`

	TourismRegimeApplied    bool            `json:"tourism_regime_applied"`
	TourismRegimePercentage decimal.Decimal `json:"tourism_regime_percentage"`

	Lines     []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt time.Time             `json:"created_at"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// InvoiceListResponse lista paginada de facturas.
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// PaymentResponse salida de un cobro.
type PaymentResponse struct {
	ID              string          `json:"id"`
	InvoiceID       string          `json:"invoice_id"`
	PaymentDate     time.Time       `json:"payment_date"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// InvoiceSummaryResponse totales de facturación de un período.
type InvoiceSummaryResponse struct {
	From         time.Time       `json:"from"`
	To           time.Time       `json:"to"`
	Count        int             `json:"count"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	PaidAmount   decimal.Decimal `json:"paid_amount"`
	BalanceDue   decimal.Decimal `json:"balance_due"`
	OverdueCount int             `json:"overdue_count"`
}
