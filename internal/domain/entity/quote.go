package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una cotización.
const (
	QuoteStatusDraft    = "DRAFT"
	QuoteStatusSent     = "SENT"
	QuoteStatusAccepted = "ACCEPTED"
	QuoteStatusRejected = "REJECTED"
	QuoteStatusExpired  = "EXPIRED"
)

// Quote representa una cotización. Los totales se recalculan por completo
// en cada alta o modificación de líneas; cotizar no afecta el stock.
type Quote struct {
	ID          string
	QuoteNumber string // COT + yyyymm + secuencial
	CustomerID  string
	QuoteDate   time.Time
	ValidUntil  time.Time
	Status      string
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
	Notes       string
	Terms       string
	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// QuoteLine representa una línea de cotización.
// LineTotal = cantidad * precio * (1 - descuento/100), redondeado a 2 decimales.
type QuoteLine struct {
	ID              string
	QuoteID         string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal // 0..100
	LineTotal       decimal.Decimal
	Description     string
}
