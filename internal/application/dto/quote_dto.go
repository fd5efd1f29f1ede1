package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// QuoteLineRequest línea de cotización en la entrada.
type QuoteLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"` // 0..100
	Description     string          `json:"description"`
}

// CreateQuoteRequest entrada para crear una cotización. Los totales se
// calculan en el servidor; los que manda el cliente se ignoran.
type CreateQuoteRequest struct {
	CustomerID string             `json:"customer_id" validate:"required"`
	QuoteDate  *time.Time         `json:"quote_date"`
	ValidUntil *time.Time         `json:"valid_until"`
	Notes      string             `json:"notes"`
	Terms      string             `json:"terms"`
	Lines      []QuoteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// UpdateQuoteRequest entrada para modificar una cotización en DRAFT.
type UpdateQuoteRequest struct {
	ValidUntil *time.Time         `json:"valid_until"`
	Notes      *string            `json:"notes"`
	Terms      *string            `json:"terms"`
	Lines      []QuoteLineRequest `json:"lines" validate:"omitempty,min=1,dive"`
}

// UpdateQuoteStatusRequest cambio de estado manual.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT SENT ACCEPTED REJECTED EXPIRED"`
}

// QuoteLineResponse línea de cotización en la salida.
type QuoteLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Description     string          `json:"description,omitempty"`
}

// QuoteResponse salida de una cotización.
type QuoteResponse struct {
	ID          string              `json:"id"`
	QuoteNumber string              `json:"quote_number"`
	CustomerID  string              `json:"customer_id"`
	QuoteDate   time.Time           `json:"quote_date"`
	ValidUntil  time.Time           `json:"valid_until"`
	Status      string              `json:"status"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	TaxAmount   decimal.Decimal     `json:"tax_amount"`
	TotalAmount decimal.Decimal     `json:"total_amount"`
	Notes       string              `json:"notes,omitempty"`
	Terms       string              `json:"terms,omitempty"`
	Lines       []QuoteLineResponse `json:"lines,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// QuoteListResponse lista paginada de cotizaciones.
type QuoteListResponse struct {
	Items []QuoteResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
