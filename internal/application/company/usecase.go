// Package company contiene los casos de uso de configuración de la empresa:
// datos fiscales del timbrado y contadores de numeración.
package company

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/fiscal"
	"github.com/sigepy/erp-api/pkg/logger"
)

// Tasas de IVA paraguayas vigentes.
var (
	defaultIVA10 = decimal.NewFromInt(10)
	defaultIVA5  = decimal.NewFromInt(5)
)

// CompanyUseCase casos de uso de configuración de la empresa.
type CompanyUseCase struct {
	companyRepo repository.CompanyRepository
	log         *logger.Logger
}

// NewCompanyUseCase construye el caso de uso.
func NewCompanyUseCase(companyRepo repository.CompanyRepository, log *logger.Logger) *CompanyUseCase {
	return &CompanyUseCase{companyRepo: companyRepo, log: log}
}

// Get devuelve la configuración de la empresa.
func (uc *CompanyUseCase) Get() (*dto.CompanySettingsResponse, error) {
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrNotFound
	}
	return toSettingsResponse(settings), nil
}

// Save crea o actualiza la configuración (fila única). El RUC se valida con
// su dígito verificador y el timbrado con sus 8 dígitos mínimos.
func (uc *CompanyUseCase) Save(in dto.CompanySettingsRequest) (*dto.CompanySettingsResponse, error) {
	rucInfo, err := fiscal.ValidateRUC(in.RUC)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := fiscal.ValidateTimbrado(in.Timbrado); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}

	now := time.Now()
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	created := settings == nil
	if created {
		settings = &entity.CompanySettings{
			ID:                      uuid.New().String(),
			IVA10Rate:               defaultIVA10,
			IVA5Rate:                defaultIVA5,
			InvoiceNumberingStart:   1,
			InvoiceNumberingCurrent: 0,
			QuoteNumberingStart:     1,
			QuoteNumberingCurrent:   0,
			IsActive:                true,
			CreatedAt:               now,
		}
	}

	settings.RazonSocial = in.RazonSocial
	settings.NombreComercial = in.NombreComercial
	settings.RUC = rucInfo.Formatted
	settings.DVRuc = rucInfo.DV
	settings.Timbrado = in.Timbrado
	settings.TimbradoExpiry = in.TimbradoExpiry
	settings.PuntoExpedicion = fiscal.NormalizePuntoExpedicion(in.PuntoExpedicion)
	settings.Direccion = in.Direccion
	settings.Ciudad = in.Ciudad
	settings.Departamento = in.Departamento
	settings.Telefono = in.Telefono
	settings.Email = in.Email
	if in.MonedaDefecto != "" {
		settings.MonedaDefecto = in.MonedaDefecto
	} else if settings.MonedaDefecto == "" {
		settings.MonedaDefecto = entity.CurrencyPYG
	}
	if in.PrintFormat != "" {
		settings.PrintFormat = in.PrintFormat
	} else if settings.PrintFormat == "" {
		settings.PrintFormat = entity.PrintFormatA4
	}
	settings.ConfiguracionCompleta = settings.RazonSocial != "" && settings.RUC != "" &&
		settings.Timbrado != "" && settings.TimbradoExpiry != nil
	settings.UpdatedAt = now

	if created {
		err = uc.companyRepo.Create(settings)
	} else {
		err = uc.companyRepo.Update(settings)
	}
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("ruc", settings.RUC).
		Str("timbrado", settings.Timbrado).
		Bool("completa", settings.ConfiguracionCompleta).
		Msg("configuración de empresa guardada")
	if settings.TimbradoExpiry != nil && fiscal.TimbradoExpiringSoon(*settings.TimbradoExpiry, now) {
		uc.log.Warn().
			Str("timbrado", settings.Timbrado).
			Time("vence", *settings.TimbradoExpiry).
			Msg("el timbrado vence pronto, gestionar la renovación ante la SET")
	}
	return toSettingsResponse(settings), nil
}

// NextInvoiceNumber muestra el próximo número de factura sin consumir el
// contador. El número definitivo se asigna recién al emitir.
func (uc *CompanyUseCase) NextInvoiceNumber() (*dto.NextNumberResponse, error) {
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrCompanyNotConfigured
	}
	seq := settings.InvoiceNumberingCurrent + 1
	return &dto.NextNumberResponse{
		Next:     fiscal.FormatInvoiceNumber(seq, settings.PuntoExpedicion),
		Sequence: seq,
	}, nil
}

// NextQuoteNumber muestra el próximo número de cotización sin consumir el
// contador.
func (uc *CompanyUseCase) NextQuoteNumber(now time.Time) (*dto.NextNumberResponse, error) {
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	if settings == nil {
		return nil, domain.ErrCompanyNotConfigured
	}
	seq := settings.QuoteNumberingCurrent + 1
	return &dto.NextNumberResponse{
		Next:     fmt.Sprintf("COT%s%04d", now.Format("200601"), seq),
		Sequence: seq,
	}, nil
}

// ResetInvoiceNumbering reinicia el contador de facturas (timbrado nuevo).
func (uc *CompanyUseCase) ResetInvoiceNumbering(in dto.ResetNumberingRequest) error {
	if in.Start < 1 {
		return domain.ErrInvalidInput
	}
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return err
	}
	if settings == nil {
		return domain.ErrNotFound
	}
	if err := uc.companyRepo.ResetInvoiceNumbering(in.Start); err != nil {
		return err
	}
	uc.log.Warn().Int("inicio", in.Start).Msg("numeración de facturas reiniciada")
	return nil
}

// ResetQuoteNumbering reinicia el contador de cotizaciones.
func (uc *CompanyUseCase) ResetQuoteNumbering(in dto.ResetNumberingRequest) error {
	if in.Start < 1 {
		return domain.ErrInvalidInput
	}
	settings, err := uc.companyRepo.Get()
	if err != nil {
		return err
	}
	if settings == nil {
		return domain.ErrNotFound
	}
	if err := uc.companyRepo.ResetQuoteNumbering(in.Start); err != nil {
		return err
	}
	uc.log.Warn().Int("inicio", in.Start).Msg("numeración de cotizaciones reiniciada")
	return nil
}

func toSettingsResponse(s *entity.CompanySettings) *dto.CompanySettingsResponse {
	return &dto.CompanySettingsResponse{
		ID:              s.ID,
		RazonSocial:     s.RazonSocial,
		NombreComercial: s.NombreComercial,

		RUC:             s.RUC,
		DVRuc:           s.DVRuc,
		Timbrado:        s.Timbrado,
		TimbradoExpiry:  s.TimbradoExpiry,
		PuntoExpedicion: s.PuntoExpedicion,

		Direccion:    s.Direccion,
		Ciudad:       s.Ciudad,
		Departamento: s.Departamento,
		Telefono:     s.Telefono,
		Email:        s.Email,

		MonedaDefecto: s.MonedaDefecto,
		IVA10Rate:     s.IVA10Rate,
		IVA5Rate:      s.IVA5Rate,

		InvoiceNumberingStart:   s.InvoiceNumberingStart,
		InvoiceNumberingCurrent: s.InvoiceNumberingCurrent,
		QuoteNumberingStart:     s.QuoteNumberingStart,
		QuoteNumberingCurrent:   s.QuoteNumberingCurrent,

		PrintFormat:           s.PrintFormat,
		LogoPath:              s.LogoPath,
		ConfiguracionCompleta: s.ConfiguracionCompleta,

		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
