package company_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/application/company"
	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/pkg/logger"
)

type fakeCompanyRepo struct {
	settings *entity.CompanySettings
}

func (f *fakeCompanyRepo) Get() (*entity.CompanySettings, error) { return f.settings, nil }
func (f *fakeCompanyRepo) Create(s *entity.CompanySettings) error {
	f.settings = s
	return nil
}
func (f *fakeCompanyRepo) Update(s *entity.CompanySettings) error {
	f.settings = s
	return nil
}
func (f *fakeCompanyRepo) NextInvoiceNumber() (int, error) {
	f.settings.InvoiceNumberingCurrent++
	return f.settings.InvoiceNumberingCurrent, nil
}
func (f *fakeCompanyRepo) NextQuoteNumber() (int, error) {
	f.settings.QuoteNumberingCurrent++
	return f.settings.QuoteNumberingCurrent, nil
}
func (f *fakeCompanyRepo) ResetInvoiceNumbering(start int) error {
	f.settings.InvoiceNumberingStart = start
	f.settings.InvoiceNumberingCurrent = start - 1
	return nil
}
func (f *fakeCompanyRepo) ResetQuoteNumbering(start int) error {
	f.settings.QuoteNumberingStart = start
	f.settings.QuoteNumberingCurrent = start - 1
	return nil
}

func newCompanyFixture(t *testing.T) (*company.CompanyUseCase, *fakeCompanyRepo) {
	t.Helper()
	repo := &fakeCompanyRepo{}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	return company.NewCompanyUseCase(repo, log), repo
}

func validRequest() dto.CompanySettingsRequest {
	expiry := time.Now().AddDate(1, 0, 0)
	return dto.CompanySettingsRequest{
		RazonSocial:     "Comercial Asunción SA",
		RUC:             "800123",
		Timbrado:        "12345678",
		TimbradoExpiry:  &expiry,
		PuntoExpedicion: "1",
		Ciudad:          "Asunción",
	}
}

func TestSave_CreaConDefaults(t *testing.T) {
	uc, repo := newCompanyFixture(t)

	out, err := uc.Save(validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, out.ID)
	assert.Equal(t, "800123", out.RUC[:6], "RUC canónico con DV calculado")
	assert.Contains(t, out.RUC, "-")
	assert.Equal(t, "001", out.PuntoExpedicion, "punto de expedición normalizado a 3 dígitos")
	assert.Equal(t, entity.CurrencyPYG, out.MonedaDefecto)
	assert.True(t, out.ConfiguracionCompleta)
	assert.Equal(t, 1, repo.settings.InvoiceNumberingStart)
	assert.Equal(t, 0, repo.settings.InvoiceNumberingCurrent)
}

func TestSave_ActualizaSinReiniciarContadores(t *testing.T) {
	uc, repo := newCompanyFixture(t)
	_, err := uc.Save(validRequest())
	require.NoError(t, err)
	repo.settings.InvoiceNumberingCurrent = 57

	in := validRequest()
	in.NombreComercial = "CASA"
	out, err := uc.Save(in)
	require.NoError(t, err)

	assert.Equal(t, "CASA", out.NombreComercial)
	assert.Equal(t, 57, out.InvoiceNumberingCurrent, "guardar datos no toca la numeración")
}

func TestSave_Rechazos(t *testing.T) {
	uc, _ := newCompanyFixture(t)

	in := validRequest()
	in.RUC = "123"
	_, err := uc.Save(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "ruc muy corto")

	in = validRequest()
	in.Timbrado = "1234567"
	_, err = uc.Save(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "timbrado de menos de 8 dígitos")
}

func TestNextNumbers_NoConsumenContador(t *testing.T) {
	uc, repo := newCompanyFixture(t)
	_, err := uc.Save(validRequest())
	require.NoError(t, err)
	repo.settings.InvoiceNumberingCurrent = 41
	repo.settings.QuoteNumberingCurrent = 7

	now := time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC)

	inv, err := uc.NextInvoiceNumber()
	require.NoError(t, err)
	assert.Equal(t, "001-0000042", inv.Next)
	assert.Equal(t, 42, inv.Sequence)

	quote, err := uc.NextQuoteNumber(now)
	require.NoError(t, err)
	assert.Equal(t, "COT2026080008", quote.Next)
	assert.Equal(t, 8, quote.Sequence)

	assert.Equal(t, 41, repo.settings.InvoiceNumberingCurrent, "la vista previa no incrementa")
	assert.Equal(t, 7, repo.settings.QuoteNumberingCurrent)
}

func TestNextNumbers_SinConfiguracion(t *testing.T) {
	uc, _ := newCompanyFixture(t)
	_, err := uc.NextInvoiceNumber()
	assert.ErrorIs(t, err, domain.ErrCompanyNotConfigured)
}

func TestResetInvoiceNumbering(t *testing.T) {
	uc, repo := newCompanyFixture(t)
	_, err := uc.Save(validRequest())
	require.NoError(t, err)
	repo.settings.InvoiceNumberingCurrent = 999

	require.NoError(t, uc.ResetInvoiceNumbering(dto.ResetNumberingRequest{Start: 1}))
	assert.Equal(t, 0, repo.settings.InvoiceNumberingCurrent, "el próximo emitido será el 1")

	assert.ErrorIs(t, uc.ResetInvoiceNumbering(dto.ResetNumberingRequest{Start: 0}), domain.ErrInvalidInput)
}

func TestResetQuoteNumbering_SinConfiguracion(t *testing.T) {
	uc, _ := newCompanyFixture(t)
	err := uc.ResetQuoteNumbering(dto.ResetNumberingRequest{Start: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
