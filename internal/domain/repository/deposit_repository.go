package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// DepositFilter filtros del libro de depósitos.
type DepositFilter struct {
	CustomerID  string
	Status      string
	DepositType string
	Currency    string
	FromDate    *time.Time
	ToDate      *time.Time
	Limit       int
	Offset      int
}

// DepositRepository define el puerto de persistencia para el libro de
// depósitos de clientes.
type DepositRepository interface {
	Create(deposit *entity.Deposit) error
	GetByID(id string) (*entity.Deposit, error)
	List(filter DepositFilter) ([]*entity.Deposit, error)
	Update(deposit *entity.Deposit) error

	// ApplyAmount descuenta amount del saldo disponible con un update
	// condicionado (available_amount >= amount) que además recalcula
	// applied_amount y decide el estado en la misma sentencia: APPLIED
	// recién cuando el disponible resultante es cero. Devuelve el depósito
	// actualizado o domain.ErrInsufficientFunds si el guard no se cumple.
	ApplyAmount(depositID string, amount decimal.Decimal) (*entity.Deposit, error)

	// RefundAmount descuenta amount del disponible con el mismo guard que
	// ApplyAmount, anexa la nota de devolución y pasa el depósito a
	// REFUNDED cuando el disponible llega a cero, todo en una sentencia.
	RefundAmount(depositID string, amount decimal.Decimal, note string) (*entity.Deposit, error)

	CreateApplication(application *entity.DepositApplication) error
	ListApplications(depositID string) ([]*entity.DepositApplication, error)

	// Summary agrega los saldos del cliente por moneda desde el libro.
	Summary(customerID string) (*entity.DepositSummary, error)

	// MarkExpired pasa a EXPIRED los depósitos ACTIVE con vencimiento
	// pasado. Devuelve la cantidad afectada.
	MarkExpired(today time.Time) (int, error)

	LastNumberWithPrefix(prefix string) (string, error)
}
