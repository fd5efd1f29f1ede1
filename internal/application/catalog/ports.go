package catalog

import (
	"context"

	"github.com/sigepy/erp-api/internal/domain/repository"
)

// TxRunner ejecuta una función con un repositorio de productos atado a una
// transacción. El ajuste de stock y su movimiento se persisten juntos.
type TxRunner interface {
	Run(ctx context.Context, fn func(productRepo repository.ProductRepository) error) error
}
