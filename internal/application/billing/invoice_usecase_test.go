package billing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/application/billing"
	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/logger"
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
	products  map[string]*entity.Product
	movements []*entity.StockMovement
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
func (f *fakeProductRepo) AdjustStock(id string, delta int) (int, error) {
	p, ok := f.products[id]
	if !ok || p.CurrentStock+delta < 0 {
		return 0, domain.ErrInsufficientStock
	}
	p.CurrentStock += delta
	return p.CurrentStock, nil
}
func (f *fakeProductRepo) CreateMovement(m *entity.StockMovement) error {
	f.movements = append(f.movements, m)
	return nil
}
func (f *fakeProductRepo) ListMovements(string, int, int) ([]*entity.StockMovement, error) {
	return f.movements, nil
}

type fakeCompanyRepo struct {
	settings *entity.CompanySettings
}

func (f *fakeCompanyRepo) Get() (*entity.CompanySettings, error) { return f.settings, nil }
func (f *fakeCompanyRepo) Create(s *entity.CompanySettings) error {
	f.settings = s
	return nil
}
func (f *fakeCompanyRepo) Update(s *entity.CompanySettings) error { f.settings = s; return nil }
func (f *fakeCompanyRepo) NextInvoiceNumber() (int, error) {
	if f.settings == nil {
		return 0, domain.ErrCompanyNotConfigured
	}
	f.settings.InvoiceNumberingCurrent++
	return f.settings.InvoiceNumberingCurrent, nil
}
func (f *fakeCompanyRepo) NextQuoteNumber() (int, error) {
	if f.settings == nil {
		return 0, domain.ErrCompanyNotConfigured
	}
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

type fakeInvoiceRepo struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
	payments []*entity.Payment
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice, lines []*entity.InvoiceLine) error {
	f.invoices[inv.ID] = inv
	f.lines[inv.ID] = lines
	return nil
}
func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return f.invoices[id], nil }
func (f *fakeInvoiceRepo) GetLines(id string) ([]*entity.InvoiceLine, error) {
	return f.lines[id], nil
}
func (f *fakeInvoiceRepo) List(repository.InvoiceFilter) ([]*entity.Invoice, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	if inv, ok := f.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}
func (f *fakeInvoiceRepo) ApplyPayment(id string, amount decimal.Decimal) (*entity.Invoice, error) {
	inv, ok := f.invoices[id]
	if !ok || amount.GreaterThan(inv.BalanceDue) {
		return nil, domain.ErrConflict
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.BalanceDue = inv.BalanceDue.Sub(amount)
	return inv, nil
}
func (f *fakeInvoiceRepo) CreatePayment(p *entity.Payment) error {
	f.payments = append(f.payments, p)
	return nil
}
func (f *fakeInvoiceRepo) ListPayments(string) ([]*entity.Payment, error) { return f.payments, nil }
func (f *fakeInvoiceRepo) MarkOverdue(time.Time) (int, error)             { return 0, nil }
func (f *fakeInvoiceRepo) Summary(_, _ time.Time) (*repository.InvoiceSummary, error) {
	return &repository.InvoiceSummary{}, nil
}

type fakeBillingTx struct {
	invoiceRepo repository.InvoiceRepository
	productRepo repository.ProductRepository
	companyRepo repository.CompanyRepository
}

func (f *fakeBillingTx) RunBilling(_ context.Context, fn func(
	repository.InvoiceRepository,
	repository.ProductRepository,
	repository.CompanyRepository,
) error) error {
	return fn(f.invoiceRepo, f.productRepo, f.companyRepo)
}

// --- armado ---

type billingFixture struct {
	uc          *billing.InvoiceUseCase
	invoiceRepo *fakeInvoiceRepo
	productRepo *fakeProductRepo
	companyRepo *fakeCompanyRepo
	customers   *fakeCustomerRepo
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	customers := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cli-1": {ID: "cli-1", CompanyName: "Ferretería Itá SRL", IsActive: true, PaymentTerms: 30},
	}}
	products := &fakeProductRepo{products: map[string]*entity.Product{
		"prod-1": {
			ID: "prod-1", Name: "Cemento 50kg", IsActive: true, IsTrackable: true,
			CurrentStock: 100, SellingPrice: dec("55000"), CostPrice: dec("40000"),
		},
		"prod-2": {
			ID: "prod-2", Name: "Flete", IsActive: true, IsTrackable: false,
			SellingPrice: dec("200000"),
		},
	}}
	expiry := time.Now().AddDate(1, 0, 0)
	companyRepo := &fakeCompanyRepo{settings: &entity.CompanySettings{
		ID: "emp-1", RazonSocial: "Comercial Asunción SA", RUC: "80012345-3",
		Timbrado: "15554433", TimbradoExpiry: &expiry, PuntoExpedicion: "001",
		MonedaDefecto: entity.CurrencyPYG, Ciudad: "Asunción",
		IVA10Rate: dec("10"), IVA5Rate: dec("5"),
		IsActive: true,
	}}
	invoiceRepo := &fakeInvoiceRepo{
		invoices: map[string]*entity.Invoice{},
		lines:    map[string][]*entity.InvoiceLine{},
	}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := billing.NewInvoiceUseCase(
		&fakeBillingTx{invoiceRepo: invoiceRepo, productRepo: products, companyRepo: companyRepo},
		invoiceRepo, customers, products, companyRepo, log,
	)
	return &billingFixture{
		uc: uc, invoiceRepo: invoiceRepo, productRepo: products,
		companyRepo: companyRepo, customers: customers,
	}
}

// --- tests ---

func TestInvoiceCreate_NumeroDesgloseYStock(t *testing.T) {
	fx := newBillingFixture(t)

	out, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines: []dto.InvoiceLineRequest{
			{ProductID: "prod-1", Quantity: 10, IVACategory: entity.IVACategory10},
			{ProductID: "prod-2", Quantity: 1, IVACategory: entity.IVACategoryExempt},
		},
	}, "user-1")
	require.NoError(t, err)

	// Numeración del timbrado: primer secuencial con punto de expedición 001.
	assert.Equal(t, "001-0000001", out.InvoiceNumber)
	assert.Equal(t, entity.InvoiceStatusSent, out.Status)
	assert.Equal(t, entity.CondicionContado, out.CondicionVenta)
	assert.Equal(t, entity.CurrencyPYG, out.Currency)

	// 10 x 55000 gravado 10% + flete exento.
	assert.True(t, out.SubtotalGravado10.Equal(dec("550000")))
	assert.True(t, out.SubtotalExento.Equal(dec("200000")))
	assert.True(t, out.IVA10.Equal(dec("55000")))
	assert.True(t, out.IVA5.IsZero())
	assert.True(t, out.Subtotal.Equal(dec("750000")))
	assert.True(t, out.TotalAmount.Equal(dec("805000")))
	assert.True(t, out.BalanceDue.Equal(out.TotalAmount), "nace sin cobros")

	// El trazable descuenta stock y deja movimiento; el servicio no.
	assert.Equal(t, 90, fx.productRepo.products["prod-1"].CurrentStock)
	require.Len(t, fx.productRepo.movements, 1)
	assert.Equal(t, entity.MovementOut, fx.productRepo.movements[0].MovementType)
	assert.Equal(t, -10, fx.productRepo.movements[0].Quantity)
	assert.Equal(t, "SALE", fx.productRepo.movements[0].ReferenceType)
}

func TestInvoiceCreate_NumeracionConsecutiva(t *testing.T) {
	fx := newBillingFixture(t)
	fx.companyRepo.settings.InvoiceNumberingCurrent = 122

	out, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-2", Quantity: 1}},
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "001-0000123", out.InvoiceNumber)
}

func TestInvoiceCreate_RegimenTurismoEximeIVA(t *testing.T) {
	fx := newBillingFixture(t)
	expiry := time.Now().AddDate(0, 6, 0)
	fx.customers.customers["cli-1"].TourismRegime = true
	fx.customers.customers["cli-1"].TourismRegimeExpiry = &expiry

	out, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines: []dto.InvoiceLineRequest{
			{ProductID: "prod-1", Quantity: 10, IVACategory: entity.IVACategory10},
		},
	}, "user-1")
	require.NoError(t, err)

	assert.True(t, out.TourismRegimeApplied)
	assert.True(t, out.TourismRegimePercentage.Equal(dec("100")))
	assert.True(t, out.TaxAmount.IsZero())
	assert.True(t, out.TotalAmount.Equal(out.Subtotal))
}

func TestInvoiceCreate_RegimenTurismoVencidoNoAplica(t *testing.T) {
	fx := newBillingFixture(t)
	expiry := time.Now().AddDate(0, 0, -1)
	fx.customers.customers["cli-1"].TourismRegime = true
	fx.customers.customers["cli-1"].TourismRegimeExpiry = &expiry

	out, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines: []dto.InvoiceLineRequest{
			{ProductID: "prod-1", Quantity: 1, IVACategory: entity.IVACategory10},
		},
	}, "user-1")
	require.NoError(t, err)

	assert.False(t, out.TourismRegimeApplied)
	assert.True(t, out.IVA10.Equal(dec("5500")))
}

func TestInvoiceCreate_CreditoVenceSegunPlazoDelCliente(t *testing.T) {
	fx := newBillingFixture(t)
	invoiceDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	out, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID:     "cli-1",
		InvoiceDate:    &invoiceDate,
		CondicionVenta: entity.CondicionCredito,
		Lines:          []dto.InvoiceLineRequest{{ProductID: "prod-2", Quantity: 1}},
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, invoiceDate.AddDate(0, 0, 30), out.DueDate)
}

func TestInvoiceCreate_SinEmpresaConfigurada(t *testing.T) {
	fx := newBillingFixture(t)
	fx.companyRepo.settings = nil

	_, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 1}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrCompanyNotConfigured)
}

func TestInvoiceCreate_TimbradoVencido(t *testing.T) {
	fx := newBillingFixture(t)
	expired := time.Now().AddDate(0, 0, -1)
	fx.companyRepo.settings.TimbradoExpiry = &expired

	_, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 1}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrTimbradoExpired)
}

func TestInvoiceCreate_StockInsuficiente(t *testing.T) {
	fx := newBillingFixture(t)
	fx.productRepo.products["prod-1"].CurrentStock = 3

	_, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 5}},
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestAddPayment_ParcialYTotal(t *testing.T) {
	fx := newBillingFixture(t)
	created, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-1", Quantity: 10}},
	}, "user-1")
	require.NoError(t, err)

	half := created.TotalAmount.Div(dec("2")).Round(2)
	out, err := fx.uc.AddPayment(created.ID, dto.AddPaymentRequest{
		Amount: half, PaymentMethod: entity.PaymentTransfer,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, out.Status)
	assert.True(t, out.BalanceDue.Equal(created.TotalAmount.Sub(half)))

	out, err = fx.uc.AddPayment(created.ID, dto.AddPaymentRequest{
		Amount: out.BalanceDue, PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, out.Status)
	assert.True(t, out.BalanceDue.IsZero())
	assert.Len(t, fx.invoiceRepo.payments, 2)
}

func TestAddPayment_NoSuperaElSaldo(t *testing.T) {
	fx := newBillingFixture(t)
	created, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-2", Quantity: 1}},
	}, "user-1")
	require.NoError(t, err)

	_, err = fx.uc.AddPayment(created.ID, dto.AddPaymentRequest{
		Amount: created.TotalAmount.Add(dec("1")), PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAddPayment_FacturaYaPagada(t *testing.T) {
	fx := newBillingFixture(t)
	created, err := fx.uc.Create(context.Background(), dto.CreateInvoiceRequest{
		CustomerID: "cli-1",
		Lines:      []dto.InvoiceLineRequest{{ProductID: "prod-2", Quantity: 1}},
	}, "user-1")
	require.NoError(t, err)

	_, err = fx.uc.AddPayment(created.ID, dto.AddPaymentRequest{
		Amount: created.TotalAmount, PaymentMethod: entity.PaymentCash,
	})
	require.NoError(t, err)

	_, err = fx.uc.AddPayment(created.ID, dto.AddPaymentRequest{
		Amount: dec("1"), PaymentMethod: entity.PaymentCash,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}
