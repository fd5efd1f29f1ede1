package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de orden de venta en la entrada.
type OrderLineRequest struct {
	ProductID       string          `json:"product_id" validate:"required"`
	Quantity        int             `json:"quantity" validate:"required,min=1"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Description     string          `json:"description"`
}

// CreateOrderRequest entrada para crear una orden de venta directa.
type CreateOrderRequest struct {
	CustomerID   string             `json:"customer_id" validate:"required"`
	OrderDate    *time.Time         `json:"order_date"`
	DeliveryDate *time.Time         `json:"delivery_date"`
	ShippingCost decimal.Decimal    `json:"shipping_cost"`
	Notes        string             `json:"notes"`
	Lines        []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// CreateOrderFromQuoteRequest entrada para convertir una cotización en orden.
type CreateOrderFromQuoteRequest struct {
	DeliveryDate *time.Time      `json:"delivery_date"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Notes        string          `json:"notes"`
}

// UpdateOrderStatusRequest cambio de estado de una orden.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// OrderLineResponse línea de orden en la salida.
type OrderLineResponse struct {
	ID              string          `json:"id"`
	ProductID       string          `json:"product_id"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	LineTotal       decimal.Decimal `json:"line_total"`
	Description     string          `json:"description,omitempty"`
}

// OrderResponse salida de una orden de venta.
type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	QuoteID      string              `json:"quote_id,omitempty"`
	CustomerID   string              `json:"customer_id"`
	OrderDate    time.Time           `json:"order_date"`
	DeliveryDate *time.Time          `json:"delivery_date,omitempty"`
	Status       string              `json:"status"`
	Subtotal     decimal.Decimal     `json:"subtotal"`
	TaxAmount    decimal.Decimal     `json:"tax_amount"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	ShippingCost decimal.Decimal     `json:"shipping_cost"`
	Notes        string              `json:"notes,omitempty"`
	Lines        []OrderLineResponse `json:"lines,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// OrderListResponse lista paginada de órdenes.
type OrderListResponse struct {
	Items []OrderResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
