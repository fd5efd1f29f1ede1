package repository

import "github.com/sigepy/erp-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para la configuración
// de la empresa (fila única).
type CompanyRepository interface {
	Get() (*entity.CompanySettings, error)
	Create(settings *entity.CompanySettings) error
	Update(settings *entity.CompanySettings) error

	// NextInvoiceNumber incrementa el contador de facturas de forma atómica
	// (UPDATE ... RETURNING) y devuelve el secuencial asignado.
	NextInvoiceNumber() (int, error)

	// NextQuoteNumber incrementa el contador de cotizaciones de forma
	// atómica y devuelve el secuencial asignado.
	NextQuoteNumber() (int, error)

	// ResetInvoiceNumbering reinicia el contador de facturas (nuevo
	// timbrado). El próximo número emitido será start.
	ResetInvoiceNumbering(start int) error

	ResetQuoteNumbering(start int) error
}
