package deposits

import (
	"context"

	"github.com/sigepy/erp-api/internal/domain/repository"
)

// DepositTxRunner ejecuta una función con los repos de depósitos y facturas
// atados a una misma transacción. Aplicar un depósito descuenta el saldo,
// registra la aplicación y cobra la factura; todo entra o todo se revierte.
type DepositTxRunner interface {
	RunDeposits(ctx context.Context, fn func(
		depositRepo repository.DepositRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}
