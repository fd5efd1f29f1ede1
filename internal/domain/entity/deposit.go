package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de depósito usados en la práctica comercial paraguaya.
const (
	DepositTypeAnticipo = "ANTICIPO" // anticipo sobre trabajo futuro
	DepositTypeSena     = "SEÑA"     // seña para reservar producto/servicio
	DepositTypeGarantia = "GARANTIA" // garantía de cumplimiento
	DepositTypeCaucion  = "CAUCION"  // caución para contratos
	DepositTypeParcial  = "PARCIAL"  // pago parcial a cuenta
)

// Estados de un depósito.
const (
	DepositStatusActive   = "ACTIVE"
	DepositStatusApplied  = "APPLIED"
	DepositStatusRefunded = "REFUNDED"
	DepositStatusExpired  = "EXPIRED"
)

// Deposit representa un prepago del cliente que se consume aplicándolo a
// facturas o devolviéndolo. Amount es inmutable; AvailableAmount baja con
// cada aplicación o devolución y nunca sale del rango [0, Amount].
type Deposit struct {
	ID            string
	DepositNumber string // DEP + yyyymm + secuencial
	CustomerID    string
	DepositType   string // ANTICIPO, SEÑA, GARANTIA, CAUCION, PARCIAL
	Amount        decimal.Decimal
	Currency      string // PYG, USD
	DepositDate   time.Time
	ExpiryDate    *time.Time // para garantías con vencimiento

	Status          string
	AppliedAmount   decimal.Decimal
	AvailableAmount decimal.Decimal

	PaymentMethod   string
	ReferenceNumber string
	BankName        string
	Notes           string
	ProjectRef      string
	ContractNumber  string

	CreatedByID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DepositApplication registra la aplicación de un depósito a una factura
// (auditoría del libro de depósitos).
type DepositApplication struct {
	ID              string
	DepositID       string
	InvoiceID       string
	AmountApplied   decimal.Decimal
	ApplicationDate time.Time
	Notes           string
	AppliedByID     string
	CreatedAt       time.Time
}

// DepositSummary resume los saldos de depósitos de un cliente por moneda.
// Se recalcula a demanda desde el libro, no se persiste denormalizado.
type DepositSummary struct {
	CustomerID          string
	TotalPYG            decimal.Decimal
	AvailablePYG        decimal.Decimal
	AppliedPYG          decimal.Decimal
	TotalUSD            decimal.Decimal
	AvailableUSD        decimal.Decimal
	AppliedUSD          decimal.Decimal
	ActiveDepositsCount int
	TotalDepositsCount  int
	LastDepositDate     *time.Time
}
