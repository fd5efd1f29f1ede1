package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopProductDTO producto destacado del dashboard.
type TopProductDTO struct {
	ProductID   string          `json:"product_id"`
	ProductCode string          `json:"product_code"`
	ProductName string          `json:"product_name"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// MonthlySalesDTO punto de la serie mensual de ventas.
type MonthlySalesDTO struct {
	Year  int             `json:"year"`
	Month int             `json:"month"`
	Label string          `json:"label"` // ej: "Junio 2025"
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// DashboardSummaryDTO resumen operativo y financiero del dashboard.
type DashboardSummaryDTO struct {
	TodayInvoiced  decimal.Decimal `json:"today_invoiced"`
	TodayCollected decimal.Decimal `json:"today_collected"`
	MonthInvoiced  decimal.Decimal `json:"month_invoiced"`
	MonthCollected decimal.Decimal `json:"month_collected"`

	PendingQuotes    int `json:"pending_quotes"`
	PendingOrders    int `json:"pending_orders"`
	OverdueInvoices  int `json:"overdue_invoices"`
	LowStockProducts int `json:"low_stock_products"`
	ActiveDeposits   int `json:"active_deposits"`

	DepositsAvailablePYG decimal.Decimal `json:"deposits_available_pyg"`
	DepositsAvailableUSD decimal.Decimal `json:"deposits_available_usd"`

	TopProducts  []TopProductDTO   `json:"top_products"`
	MonthlySales []MonthlySalesDTO `json:"monthly_sales"`
	DateLabel    string            `json:"date_label"` // ej: "Agosto 2026"
}

// ExpiringCustomerDTO cliente con régimen de turismo por vencer.
type ExpiringCustomerDTO struct {
	CustomerID    string    `json:"customer_id"`
	CustomerCode  string    `json:"customer_code"`
	CompanyName   string    `json:"company_name"`
	ExpiryDate    time.Time `json:"expiry_date"`
	DaysRemaining int       `json:"days_remaining"`
}

// ExpiringProductDTO producto perecedero por vencer o vencido.
type ExpiringProductDTO struct {
	ProductID     string    `json:"product_id"`
	ProductCode   string    `json:"product_code"`
	Name          string    `json:"name"`
	ExpiryDate    time.Time `json:"expiry_date"`
	DaysRemaining int       `json:"days_remaining"`
	IsExpired     bool      `json:"is_expired"`
	CurrentStock  int       `json:"current_stock"`
}

// NotificationsResponse alertas de vencimiento para la campana de avisos.
type NotificationsResponse struct {
	ExpiringCustomers []ExpiringCustomerDTO `json:"expiring_customers"`
	ExpiringProducts  []ExpiringProductDTO  `json:"expiring_products"`
	GeneratedAt       time.Time             `json:"generated_at"`
}
