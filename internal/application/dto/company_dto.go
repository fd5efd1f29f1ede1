package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CompanySettingsRequest entrada para crear o actualizar la configuración
// fiscal de la empresa.
type CompanySettingsRequest struct {
	RazonSocial     string `json:"razon_social" validate:"required,min=1,max=200"`
	NombreComercial string `json:"nombre_comercial"`

	RUC             string     `json:"ruc" validate:"required"` // con dígito verificador: 80012345-3
	Timbrado        string     `json:"timbrado" validate:"required"`
	TimbradoExpiry  *time.Time `json:"timbrado_expiry"`
	PuntoExpedicion string     `json:"punto_expedicion"`

	Direccion    string `json:"direccion"`
	Ciudad       string `json:"ciudad"`
	Departamento string `json:"departamento"`
	Telefono     string `json:"telefono"`
	Email        string `json:"email" validate:"omitempty,email"`

	MonedaDefecto string `json:"moneda_defecto" validate:"omitempty,oneof=PYG USD"`
	PrintFormat   string `json:"print_format" validate:"omitempty,oneof=A4 ticket"`
}

// ResetNumberingRequest entrada para reiniciar un contador de numeración.
type ResetNumberingRequest struct {
	Start int `json:"start" validate:"required,min=1"`
}

// NextNumberResponse vista previa del próximo número de un contador, sin
// consumirlo.
type NextNumberResponse struct {
	Next     string `json:"next"`
	Sequence int    `json:"sequence"`
}

// CompanySettingsResponse salida de la configuración de la empresa.
type CompanySettingsResponse struct {
	ID              string `json:"id"`
	RazonSocial     string `json:"razon_social"`
	NombreComercial string `json:"nombre_comercial,omitempty"`

	RUC             string     `json:"ruc"`
	DVRuc           string     `json:"dv_ruc"`
	Timbrado        string     `json:"timbrado"`
	TimbradoExpiry  *time.Time `json:"timbrado_expiry,omitempty"`
	PuntoExpedicion string     `json:"punto_expedicion"`

	Direccion    string `json:"direccion,omitempty"`
	Ciudad       string `json:"ciudad,omitempty"`
	Departamento string `json:"departamento,omitempty"`
	Telefono     string `json:"telefono,omitempty"`
	Email        string `json:"email,omitempty"`

	MonedaDefecto string          `json:"moneda_defecto"`
	IVA10Rate     decimal.Decimal `json:"iva_10_rate"`
	IVA5Rate      decimal.Decimal `json:"iva_5_rate"`

	InvoiceNumberingStart   int `json:"invoice_numbering_start"`
	InvoiceNumberingCurrent int `json:"invoice_numbering_current"`
	QuoteNumberingStart     int `json:"quote_numbering_start"`
	QuoteNumberingCurrent   int `json:"quote_numbering_current"`

	PrintFormat           string `json:"print_format"`
	LogoPath              string `json:"logo_path,omitempty"`
	ConfiguracionCompleta bool   `json:"configuracion_completa"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
