package sales_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/application/sales"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- fakes en memoria ---

type fakeCustomerRepo struct {
	customers map[string]*entity.Customer
}

func (f *fakeCustomerRepo) Create(c *entity.Customer) error             { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) { return f.customers[id], nil }
func (f *fakeCustomerRepo) GetByCode(string) (*entity.Customer, error)  { return nil, nil }
func (f *fakeCustomerRepo) List(repository.CustomerFilter) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(*entity.Customer) error { return nil }
func (f *fakeCustomerRepo) SetActive(string, bool) error  { return nil }
func (f *fakeCustomerRepo) ListExpiringTourism(_, _ time.Time) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) CreateContact(*entity.Contact) error            { return nil }
func (f *fakeCustomerRepo) GetContact(string) (*entity.Contact, error)     { return nil, nil }
func (f *fakeCustomerRepo) ListContacts(string) ([]*entity.Contact, error) { return nil, nil }
func (f *fakeCustomerRepo) UpdateContact(*entity.Contact) error            { return nil }
func (f *fakeCustomerRepo) DeleteContact(string) error                     { return nil }

type fakeProductRepo struct {
	products map[string]*entity.Product
}

func (f *fakeProductRepo) CreateCategory(*entity.ProductCategory) error { return nil }
func (f *fakeProductRepo) GetCategory(string) (*entity.ProductCategory, error) {
	return nil, nil
}
func (f *fakeProductRepo) ListCategories() ([]*entity.ProductCategory, error) { return nil, nil }
func (f *fakeProductRepo) UpdateCategory(*entity.ProductCategory) error       { return nil }
func (f *fakeProductRepo) Create(p *entity.Product) error                     { f.products[p.ID] = p; return nil }
func (f *fakeProductRepo) GetByID(id string) (*entity.Product, error)         { return f.products[id], nil }
func (f *fakeProductRepo) GetByCode(string) (*entity.Product, error)          { return nil, nil }
func (f *fakeProductRepo) List(repository.ProductFilter) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProductRepo) Update(*entity.Product) error { return nil }
func (f *fakeProductRepo) AdjustStock(string, int) (int, error) {
	return 0, fmt.Errorf("cotizar no debe tocar el stock")
}
func (f *fakeProductRepo) CreateMovement(*entity.StockMovement) error {
	return fmt.Errorf("cotizar no debe generar movimientos")
}
func (f *fakeProductRepo) ListMovements(string, int, int) ([]*entity.StockMovement, error) {
	return nil, nil
}

type fakeCompanyRepo struct {
	settings *entity.CompanySettings
}

func (f *fakeCompanyRepo) Get() (*entity.CompanySettings, error)  { return f.settings, nil }
func (f *fakeCompanyRepo) Create(s *entity.CompanySettings) error { f.settings = s; return nil }
func (f *fakeCompanyRepo) Update(s *entity.CompanySettings) error { f.settings = s; return nil }
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

type fakeQuoteRepo struct {
	quotes map[string]*entity.Quote
	lines  map[string][]*entity.QuoteLine
}

func (f *fakeQuoteRepo) Create(q *entity.Quote, lines []*entity.QuoteLine) error {
	f.quotes[q.ID] = q
	f.lines[q.ID] = lines
	return nil
}
func (f *fakeQuoteRepo) GetByID(id string) (*entity.Quote, error) { return f.quotes[id], nil }
func (f *fakeQuoteRepo) GetLines(id string) ([]*entity.QuoteLine, error) {
	return f.lines[id], nil
}
func (f *fakeQuoteRepo) List(repository.QuoteFilter) ([]*entity.Quote, error) { return nil, nil }
func (f *fakeQuoteRepo) Update(q *entity.Quote, lines []*entity.QuoteLine) error {
	f.quotes[q.ID] = q
	f.lines[q.ID] = lines
	return nil
}
func (f *fakeQuoteRepo) UpdateStatus(id, status string) error {
	if q, ok := f.quotes[id]; ok {
		q.Status = status
	}
	return nil
}
func (f *fakeQuoteRepo) Delete(id string) error {
	delete(f.quotes, id)
	delete(f.lines, id)
	return nil
}
func (f *fakeQuoteRepo) MarkExpired(time.Time) (int, error) { return 0, nil }

type fakePDFGen struct{}

func (fakePDFGen) GenerateQuotePDF(context.Context, sales.QuotePDFData) ([]byte, error) {
	return []byte("%PDF-1.4"), nil
}

// --- armado ---

type quoteFixture struct {
	uc        *sales.QuoteUseCase
	quoteRepo *fakeQuoteRepo
	customers *fakeCustomerRepo
}

func newQuoteFixture(t *testing.T) *quoteFixture {
	t.Helper()
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cli-1": {ID: "cli-1", CompanyName: "Hotel del Lago SA", IsActive: true},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID: "prod-1", Name: "Aire acondicionado 12000 BTU", IsActive: true,
			IsTrackable: true, CurrentStock: 8, SellingPrice: dec("2500000"),
		},
	}}
	companyRepo := &fakeCompanyRepo{settings: &entity.CompanySettings{
		ID: "emp-1", RazonSocial: "Comercial Asunción SA", PuntoExpedicion: "001",
		IVA10Rate: dec("10"), IVA5Rate: dec("5"), IsActive: true,
	}}
	quoteRepo := &fakeQuoteRepo{
		quotes: map[string]*entity.Quote{},
		lines:  map[string][]*entity.QuoteLine{},
	}
	uc := sales.NewQuoteUseCase(quoteRepo, customers, products, companyRepo, fakePDFGen{})
	return &quoteFixture{uc: uc, quoteRepo: quoteRepo, customers: customers}
}

func (fx *quoteFixture) createDraft(t *testing.T) *dto.QuoteResponse {
	t.Helper()
	out, err := fx.uc.Create(dto.CreateQuoteRequest{
		CustomerID: "cli-1",
		Lines:      []dto.QuoteLineRequest{{ProductID: "prod-1", Quantity: 2}},
	}, "user-1")
	require.NoError(t, err)
	return out
}

// --- tests ---

func TestQuoteCreate_TotalesYNumeracion(t *testing.T) {
	fx := newQuoteFixture(t)

	out, err := fx.uc.Create(dto.CreateQuoteRequest{
		CustomerID: "cli-1",
		Lines: []dto.QuoteLineRequest{
			{ProductID: "prod-1", Quantity: 2, DiscountPercent: dec("10")},
		},
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.QuoteStatusDraft, out.Status)
	assert.Equal(t, "COT"+time.Now().Format("200601")+"0001", out.QuoteNumber)
	// 2 x 2500000 con 10% de descuento = 4500000, IVA 10% = 450000.
	assert.True(t, out.Subtotal.Equal(dec("4500000")))
	assert.True(t, out.TaxAmount.Equal(dec("450000")))
	assert.True(t, out.TotalAmount.Equal(dec("4950000")))
	// Vigencia por defecto: 15 días.
	assert.Equal(t, 15, int(out.ValidUntil.Sub(out.QuoteDate).Hours()/24))
}

// La cotización no mueve inventario: el fake de productos falla si alguien
// intenta ajustar stock.
func TestQuoteCreate_NoTocaStock(t *testing.T) {
	fx := newQuoteFixture(t)
	fx.createDraft(t)
}

func TestQuoteCreate_ClienteConRegimenTurismoCotizaSinIVA(t *testing.T) {
	fx := newQuoteFixture(t)
	expiry := time.Now().AddDate(0, 3, 0)
	fx.customers.customers["cli-1"].TourismRegime = true
	fx.customers.customers["cli-1"].TourismRegimeExpiry = &expiry

	out, err := fx.uc.Create(dto.CreateQuoteRequest{
		CustomerID: "cli-1",
		Lines:      []dto.QuoteLineRequest{{ProductID: "prod-1", Quantity: 1}},
	}, "user-1")
	require.NoError(t, err)
	assert.True(t, out.TaxAmount.IsZero())
	assert.True(t, out.TotalAmount.Equal(out.Subtotal))
}

func TestQuoteCreate_VigenciaAnteriorALaFecha(t *testing.T) {
	fx := newQuoteFixture(t)
	quoteDate := time.Date(2026, 5, 10, 0, 0, 0, 0, time.UTC)
	validUntil := quoteDate.AddDate(0, 0, -1)

	_, err := fx.uc.Create(dto.CreateQuoteRequest{
		CustomerID: "cli-1",
		QuoteDate:  &quoteDate,
		ValidUntil: &validUntil,
		Lines:      []dto.QuoteLineRequest{{ProductID: "prod-1", Quantity: 1}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestQuoteUpdateStatus_Transiciones(t *testing.T) {
	cases := []struct {
		name string
		from string
		to   string
		ok   bool
	}{
		{"borrador a enviada", entity.QuoteStatusDraft, entity.QuoteStatusSent, true},
		{"borrador a rechazada", entity.QuoteStatusDraft, entity.QuoteStatusRejected, true},
		{"borrador a aceptada", entity.QuoteStatusDraft, entity.QuoteStatusAccepted, false},
		{"enviada a aceptada", entity.QuoteStatusSent, entity.QuoteStatusAccepted, true},
		{"enviada a vencida", entity.QuoteStatusSent, entity.QuoteStatusExpired, true},
		{"aceptada a enviada", entity.QuoteStatusAccepted, entity.QuoteStatusSent, false},
		{"rechazada a enviada", entity.QuoteStatusRejected, entity.QuoteStatusSent, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newQuoteFixture(t)
			created := fx.createDraft(t)
			fx.quoteRepo.quotes[created.ID].Status = tc.from

			out, err := fx.uc.UpdateStatus(created.ID, tc.to)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.to, out.Status)
			} else {
				assert.ErrorIs(t, err, domain.ErrConflict)
			}
		})
	}
}

func TestQuoteUpdate_SoloBorrador(t *testing.T) {
	fx := newQuoteFixture(t)
	created := fx.createDraft(t)
	fx.quoteRepo.quotes[created.ID].Status = entity.QuoteStatusSent

	notes := "descuento especial"
	_, err := fx.uc.Update(created.ID, dto.UpdateQuoteRequest{Notes: &notes})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestQuoteUpdate_ReemplazaLineasYRecalcula(t *testing.T) {
	fx := newQuoteFixture(t)
	created := fx.createDraft(t)

	out, err := fx.uc.Update(created.ID, dto.UpdateQuoteRequest{
		Lines: []dto.QuoteLineRequest{{ProductID: "prod-1", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.True(t, out.Subtotal.Equal(dec("10000000")))
	assert.True(t, out.TaxAmount.Equal(dec("1000000")))
	require.Len(t, out.Lines, 1)
	assert.Equal(t, 4, out.Lines[0].Quantity)
}

func TestQuoteDelete_SoloBorrador(t *testing.T) {
	fx := newQuoteFixture(t)
	created := fx.createDraft(t)

	require.NoError(t, fx.uc.Delete(created.ID))
	assert.Nil(t, fx.quoteRepo.quotes[created.ID])

	sent := fx.createDraft(t)
	fx.quoteRepo.quotes[sent.ID].Status = entity.QuoteStatusSent
	assert.ErrorIs(t, fx.uc.Delete(sent.ID), domain.ErrConflict)
}

func TestQuoteDownloadPDF(t *testing.T) {
	fx := newQuoteFixture(t)
	created := fx.createDraft(t)

	pdfBytes, filename, err := fx.uc.DownloadPDF(context.Background(), created.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, pdfBytes)
	assert.Equal(t, "cotizacion_"+created.QuoteNumber+".pdf", filename)
}
