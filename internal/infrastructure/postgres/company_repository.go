package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

var _ repository.CompanyRepository = (*CompanyRepo)(nil)

// CompanyRepo implementación de CompanyRepository. La tabla company_settings
// tiene una sola fila viva (is_active).
type CompanyRepo struct {
	q Querier
}

// NewCompanyRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCompanyRepository(q Querier) *CompanyRepo {
	return &CompanyRepo{q: q}
}

const companyColumns = `id, razon_social, nombre_comercial, ruc, dv_ruc, timbrado, timbrado_expiry,
	punto_expedicion, direccion, ciudad, departamento, telefono, email, moneda_defecto,
	iva_10_rate, iva_5_rate, invoice_numbering_start, invoice_numbering_current,
	quote_numbering_start, quote_numbering_current, print_format, logo_path,
	configuracion_completa, is_active, created_at, updated_at`

// Get devuelve la configuración activa, o nil si todavía no se cargó.
func (r *CompanyRepo) Get() (*entity.CompanySettings, error) {
	query := `SELECT ` + companyColumns + ` FROM company_settings WHERE is_active LIMIT 1`
	return scanCompany(r.q.QueryRow(context.Background(), query))
}

// Create inserta la fila única de configuración.
func (r *CompanyRepo) Create(s *entity.CompanySettings) error {
	query := `
		INSERT INTO company_settings (` + companyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.RazonSocial, s.NombreComercial, s.RUC, s.DVRuc, s.Timbrado, s.TimbradoExpiry,
		s.PuntoExpedicion, s.Direccion, s.Ciudad, s.Departamento, s.Telefono, s.Email, s.MonedaDefecto,
		s.IVA10Rate, s.IVA5Rate, s.InvoiceNumberingStart, s.InvoiceNumberingCurrent,
		s.QuoteNumberingStart, s.QuoteNumberingCurrent, s.PrintFormat, s.LogoPath,
		s.ConfiguracionCompleta, s.IsActive, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert company settings: %w", err)
	}
	return nil
}

// Update actualiza la configuración (no toca los contadores: para eso están
// NextInvoiceNumber, NextQuoteNumber y los reset).
func (r *CompanyRepo) Update(s *entity.CompanySettings) error {
	query := `
		UPDATE company_settings SET
			razon_social = $2, nombre_comercial = $3, ruc = $4, dv_ruc = $5, timbrado = $6,
			timbrado_expiry = $7, punto_expedicion = $8, direccion = $9, ciudad = $10,
			departamento = $11, telefono = $12, email = $13, moneda_defecto = $14,
			iva_10_rate = $15, iva_5_rate = $16, print_format = $17, logo_path = $18,
			configuracion_completa = $19, updated_at = $20
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.RazonSocial, s.NombreComercial, s.RUC, s.DVRuc, s.Timbrado,
		s.TimbradoExpiry, s.PuntoExpedicion, s.Direccion, s.Ciudad,
		s.Departamento, s.Telefono, s.Email, s.MonedaDefecto,
		s.IVA10Rate, s.IVA5Rate, s.PrintFormat, s.LogoPath,
		s.ConfiguracionCompleta, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update company settings: %w", err)
	}
	return nil
}

// NextInvoiceNumber incrementa el contador de facturas en una sola sentencia
// y devuelve el secuencial asignado. Atómico aun con emisiones concurrentes.
func (r *CompanyRepo) NextInvoiceNumber() (int, error) {
	query := `
		UPDATE company_settings
		SET invoice_numbering_current = invoice_numbering_current + 1, updated_at = now()
		WHERE is_active
		RETURNING invoice_numbering_current`
	var seq int
	err := r.q.QueryRow(context.Background(), query).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCompanyNotConfigured
		}
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return seq, nil
}

// NextQuoteNumber incrementa el contador de cotizaciones y devuelve el
// secuencial asignado.
func (r *CompanyRepo) NextQuoteNumber() (int, error) {
	query := `
		UPDATE company_settings
		SET quote_numbering_current = quote_numbering_current + 1, updated_at = now()
		WHERE is_active
		RETURNING quote_numbering_current`
	var seq int
	err := r.q.QueryRow(context.Background(), query).Scan(&seq)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrCompanyNotConfigured
		}
		return 0, fmt.Errorf("next quote number: %w", err)
	}
	return seq, nil
}

// ResetInvoiceNumbering reinicia el contador para un timbrado nuevo. El
// próximo NextInvoiceNumber devolverá start.
func (r *CompanyRepo) ResetInvoiceNumbering(start int) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE company_settings
		SET invoice_numbering_start = $1, invoice_numbering_current = $1 - 1, updated_at = now()
		WHERE is_active`, start)
	if err != nil {
		return fmt.Errorf("reset invoice numbering: %w", err)
	}
	return nil
}

// ResetQuoteNumbering reinicia el contador de cotizaciones.
func (r *CompanyRepo) ResetQuoteNumbering(start int) error {
	_, err := r.q.Exec(context.Background(), `
		UPDATE company_settings
		SET quote_numbering_start = $1, quote_numbering_current = $1 - 1, updated_at = now()
		WHERE is_active`, start)
	if err != nil {
		return fmt.Errorf("reset quote numbering: %w", err)
	}
	return nil
}

func scanCompany(row pgx.Row) (*entity.CompanySettings, error) {
	var s entity.CompanySettings
	err := row.Scan(
		&s.ID, &s.RazonSocial, &s.NombreComercial, &s.RUC, &s.DVRuc, &s.Timbrado, &s.TimbradoExpiry,
		&s.PuntoExpedicion, &s.Direccion, &s.Ciudad, &s.Departamento, &s.Telefono, &s.Email, &s.MonedaDefecto,
		&s.IVA10Rate, &s.IVA5Rate, &s.InvoiceNumberingStart, &s.InvoiceNumberingCurrent,
		&s.QuoteNumberingStart, &s.QuoteNumberingCurrent, &s.PrintFormat, &s.LogoPath,
		&s.ConfiguracionCompleta, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan company settings: %w", err)
	}
	return &s, nil
}
