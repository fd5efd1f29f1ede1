package repository

import (
	"time"

	"github.com/sigepy/erp-api/internal/domain/entity"
)

// QuoteFilter filtros del listado de cotizaciones.
type QuoteFilter struct {
	CustomerID string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
	Limit      int
	Offset     int
}

// QuoteRepository define el puerto de persistencia para cotizaciones.
// Create y Update persisten cabecera y líneas en la misma operación.
type QuoteRepository interface {
	Create(quote *entity.Quote, lines []*entity.QuoteLine) error
	GetByID(id string) (*entity.Quote, error)
	GetLines(quoteID string) ([]*entity.QuoteLine, error)
	List(filter QuoteFilter) ([]*entity.Quote, error)
	Update(quote *entity.Quote, lines []*entity.QuoteLine) error
	UpdateStatus(id, status string) error
	Delete(id string) error

	// MarkExpired pasa a EXPIRED las cotizaciones DRAFT o SENT cuyo
	// valid_until ya pasó. Devuelve la cantidad afectada.
	MarkExpired(today time.Time) (int, error)
}
