package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Formatos de impresión soportados.
const (
	PrintFormatA4     = "A4"
	PrintFormatTicket = "ticket"
)

// CompanySettings es la configuración fiscal y operativa de la empresa
// (fila única). Incluye los datos del timbrado paraguayo y los contadores
// de numeración de facturas y cotizaciones.
type CompanySettings struct {
	ID              string
	RazonSocial     string
	NombreComercial string

	RUC                string // ej: 80012345-3
	DVRuc              string
	Timbrado           string
	TimbradoExpiry     *time.Time
	PuntoExpedicion    string // ej: 001

	Direccion    string
	Ciudad       string
	Departamento string
	Telefono     string
	Email        string

	MonedaDefecto string // PYG, USD
	IVA10Rate     decimal.Decimal
	IVA5Rate      decimal.Decimal

	InvoiceNumberingStart   int
	InvoiceNumberingCurrent int
	QuoteNumberingStart     int
	QuoteNumberingCurrent   int

	PrintFormat           string // A4, ticket
	LogoPath              string
	ConfiguracionCompleta bool
	IsActive              bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
