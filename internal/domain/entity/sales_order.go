package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de venta.
const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusShipped   = "SHIPPED"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
)

// SalesOrder representa una orden de venta, creada directamente o a partir
// de una cotización aceptada.
type SalesOrder struct {
	ID           string
	OrderNumber  string // ORD + yyyymm + secuencial
	QuoteID      string // vacío si no proviene de una cotización
	CustomerID   string
	OrderDate    time.Time
	DeliveryDate *time.Time
	Status       string
	Subtotal     decimal.Decimal
	TaxAmount    decimal.Decimal
	TotalAmount  decimal.Decimal
	ShippingCost decimal.Decimal
	Notes        string
	CreatedByID  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SalesOrderLine representa una línea de orden de venta.
type SalesOrderLine struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
	Description     string
}
