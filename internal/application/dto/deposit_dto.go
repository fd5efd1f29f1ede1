package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateDepositRequest entrada para registrar un depósito de cliente.
type CreateDepositRequest struct {
	CustomerID      string          `json:"customer_id" validate:"required"`
	DepositType     string          `json:"deposit_type" validate:"required,oneof=ANTICIPO SEÑA GARANTIA CAUCION PARCIAL"`
	Amount          decimal.Decimal `json:"amount" validate:"required"`
	Currency        string          `json:"currency" validate:"omitempty,oneof=PYG USD"`
	DepositDate     *time.Time      `json:"deposit_date"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	PaymentMethod   string          `json:"payment_method" validate:"required,oneof=CASH TRANSFER CHECK CARD"`
	ReferenceNumber string          `json:"reference_number"`
	BankName        string          `json:"bank_name"`
	Notes           string          `json:"notes"`
	ProjectRef      string          `json:"project_ref"`
	ContractNumber  string          `json:"contract_number"`
}

// ApplyDepositRequest entrada para aplicar un depósito a una factura.
type ApplyDepositRequest struct {
	InvoiceID string          `json:"invoice_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
	Notes     string          `json:"notes"`
}

// RefundDepositRequest entrada para devolver saldo de un depósito. Amount
// en cero o ausente devuelve todo el disponible. El motivo es obligatorio:
// queda en la auditoría del libro.
type RefundDepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason" validate:"required,min=1"`
}

// DepositResponse salida de un depósito.
type DepositResponse struct {
	ID              string          `json:"id"`
	DepositNumber   string          `json:"deposit_number"`
	CustomerID      string          `json:"customer_id"`
	DepositType     string          `json:"deposit_type"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	DepositDate     time.Time       `json:"deposit_date"`
	ExpiryDate      *time.Time      `json:"expiry_date,omitempty"`
	Status          string          `json:"status"`
	AppliedAmount   decimal.Decimal `json:"applied_amount"`
	AvailableAmount decimal.Decimal `json:"available_amount"`
	PaymentMethod   string          `json:"payment_method"`
	ReferenceNumber string          `json:"reference_number,omitempty"`
	BankName        string          `json:"bank_name,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	ProjectRef      string          `json:"project_ref,omitempty"`
	ContractNumber  string          `json:"contract_number,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DepositListResponse lista paginada de depósitos.
type DepositListResponse struct {
	Items []DepositResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

// DepositApplicationResponse salida de una aplicación del libro.
type DepositApplicationResponse struct {
	ID              string          `json:"id"`
	DepositID       string          `json:"deposit_id"`
	InvoiceID       string          `json:"invoice_id"`
	AmountApplied   decimal.Decimal `json:"amount_applied"`
	ApplicationDate time.Time       `json:"application_date"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// DepositSummaryResponse saldos de depósitos de un cliente por moneda.
type DepositSummaryResponse struct {
	CustomerID          string          `json:"customer_id"`
	TotalPYG            decimal.Decimal `json:"total_pyg"`
	AvailablePYG        decimal.Decimal `json:"available_pyg"`
	AppliedPYG          decimal.Decimal `json:"applied_pyg"`
	TotalUSD            decimal.Decimal `json:"total_usd"`
	AvailableUSD        decimal.Decimal `json:"available_usd"`
	AppliedUSD          decimal.Decimal `json:"applied_usd"`
	ActiveDepositsCount int             `json:"active_deposits_count"`
	TotalDepositsCount  int             `json:"total_deposits_count"`
	LastDepositDate     *time.Time      `json:"last_deposit_date,omitempty"`
}
