package deposits_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigepy/erp-api/internal/application/deposits"
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

func (f *fakeCustomerRepo) Create(c *entity.Customer) error { f.customers[c.ID] = c; return nil }
func (f *fakeCustomerRepo) GetByID(id string) (*entity.Customer, error) {
	return f.customers[id], nil
}
func (f *fakeCustomerRepo) GetByCode(string) (*entity.Customer, error) { return nil, nil }
func (f *fakeCustomerRepo) List(repository.CustomerFilter) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) Update(*entity.Customer) error    { return nil }
func (f *fakeCustomerRepo) SetActive(string, bool) error     { return nil }
func (f *fakeCustomerRepo) ListExpiringTourism(_, _ time.Time) ([]*entity.Customer, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) CreateContact(*entity.Contact) error          { return nil }
func (f *fakeCustomerRepo) GetContact(string) (*entity.Contact, error)   { return nil, nil }
func (f *fakeCustomerRepo) ListContacts(string) ([]*entity.Contact, error) {
	return nil, nil
}
func (f *fakeCustomerRepo) UpdateContact(*entity.Contact) error { return nil }
func (f *fakeCustomerRepo) DeleteContact(string) error          { return nil }

type fakeInvoiceRepo struct {
	mu       sync.Mutex
	invoices map[string]*entity.Invoice
	payments []*entity.Payment
}

func (f *fakeInvoiceRepo) Create(inv *entity.Invoice, _ []*entity.InvoiceLine) error {
	f.invoices[inv.ID] = inv
	return nil
}
func (f *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) { return f.invoices[id], nil }
func (f *fakeInvoiceRepo) GetLines(string) ([]*entity.InvoiceLine, error) { return nil, nil }
func (f *fakeInvoiceRepo) List(repository.InvoiceFilter) ([]*entity.Invoice, error) {
	return nil, nil
}
func (f *fakeInvoiceRepo) UpdateStatus(id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if inv, ok := f.invoices[id]; ok {
		inv.Status = status
	}
	return nil
}
func (f *fakeInvoiceRepo) ApplyPayment(id string, amount decimal.Decimal) (*entity.Invoice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.invoices[id]
	if !ok || amount.GreaterThan(inv.BalanceDue) {
		return nil, domain.ErrConflict
	}
	inv.PaidAmount = inv.PaidAmount.Add(amount)
	inv.BalanceDue = inv.BalanceDue.Sub(amount)
	copia := *inv
	return &copia, nil
}
func (f *fakeInvoiceRepo) CreatePayment(p *entity.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payments = append(f.payments, p)
	return nil
}
func (f *fakeInvoiceRepo) ListPayments(string) ([]*entity.Payment, error) { return f.payments, nil }
func (f *fakeInvoiceRepo) MarkOverdue(time.Time) (int, error)             { return 0, nil }
func (f *fakeInvoiceRepo) Summary(_, _ time.Time) (*repository.InvoiceSummary, error) {
	return &repository.InvoiceSummary{}, nil
}

// fakeDepositRepo imita al adaptador real: las lecturas devuelven copias y
// los descuentos son condicionados y atómicos, como el UPDATE con guard.
type fakeDepositRepo struct {
	mu           sync.Mutex
	deposits     map[string]*entity.Deposit
	applications []*entity.DepositApplication
	lastNumber   string
}

func (f *fakeDepositRepo) Create(d *entity.Deposit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deposits[d.ID] = d
	return nil
}
func (f *fakeDepositRepo) GetByID(id string) (*entity.Deposit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deposits[id]
	if !ok {
		return nil, nil
	}
	copia := *d
	return &copia, nil
}
func (f *fakeDepositRepo) List(repository.DepositFilter) ([]*entity.Deposit, error) {
	return nil, nil
}
func (f *fakeDepositRepo) Update(d *entity.Deposit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deposits[d.ID] = d
	return nil
}
func (f *fakeDepositRepo) ApplyAmount(id string, amount decimal.Decimal) (*entity.Deposit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deposits[id]
	if !ok || d.Status != entity.DepositStatusActive || amount.GreaterThan(d.AvailableAmount) {
		return nil, domain.ErrInsufficientFunds
	}
	d.AvailableAmount = d.AvailableAmount.Sub(amount)
	d.AppliedAmount = d.AppliedAmount.Add(amount)
	if d.AvailableAmount.IsZero() {
		d.Status = entity.DepositStatusApplied
	}
	copia := *d
	return &copia, nil
}
func (f *fakeDepositRepo) RefundAmount(id string, amount decimal.Decimal, note string) (*entity.Deposit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.deposits[id]
	if !ok || d.Status != entity.DepositStatusActive || amount.GreaterThan(d.AvailableAmount) {
		return nil, domain.ErrInsufficientFunds
	}
	d.AvailableAmount = d.AvailableAmount.Sub(amount)
	if d.AvailableAmount.IsZero() {
		d.Status = entity.DepositStatusRefunded
	}
	if d.Notes != "" {
		d.Notes += "\n"
	}
	d.Notes += note
	copia := *d
	return &copia, nil
}
func (f *fakeDepositRepo) CreateApplication(a *entity.DepositApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.applications = append(f.applications, a)
	return nil
}
func (f *fakeDepositRepo) ListApplications(string) ([]*entity.DepositApplication, error) {
	return f.applications, nil
}
func (f *fakeDepositRepo) Summary(string) (*entity.DepositSummary, error) {
	return &entity.DepositSummary{}, nil
}
func (f *fakeDepositRepo) MarkExpired(time.Time) (int, error) { return 0, nil }
func (f *fakeDepositRepo) LastNumberWithPrefix(string) (string, error) {
	return f.lastNumber, nil
}

type fakeDepositTx struct {
	depositRepo repository.DepositRepository
	invoiceRepo repository.InvoiceRepository
}

func (f *fakeDepositTx) RunDeposits(_ context.Context, fn func(repository.DepositRepository, repository.InvoiceRepository) error) error {
	return fn(f.depositRepo, f.invoiceRepo)
}

// --- armado ---

type depositFixture struct {
	uc          *deposits.DepositUseCase
	depositRepo *fakeDepositRepo
	invoiceRepo *fakeInvoiceRepo
}

func newDepositFixture(t *testing.T) *depositFixture {
	t.Helper()
	customerRepo := &fakeCustomerRepo{customers: map[string]*entity.Customer{
		"cli-1": {ID: "cli-1", CompanyName: "Constructora Ñandutí SA", IsActive: true},
		"cli-2": {ID: "cli-2", CompanyName: "Otro Cliente SRL", IsActive: true},
	}}
	invoiceRepo := &fakeInvoiceRepo{invoices: map[string]*entity.Invoice{
		"fac-1": {
			ID: "fac-1", CustomerID: "cli-1", Status: entity.InvoiceStatusSent,
			Currency:    entity.CurrencyPYG,
			TotalAmount: dec("1000000"), PaidAmount: decimal.Zero, BalanceDue: dec("1000000"),
		},
	}}
	depositRepo := &fakeDepositRepo{deposits: map[string]*entity.Deposit{}}
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := deposits.NewDepositUseCase(
		&fakeDepositTx{depositRepo: depositRepo, invoiceRepo: invoiceRepo},
		depositRepo, invoiceRepo, customerRepo, log,
	)
	return &depositFixture{uc: uc, depositRepo: depositRepo, invoiceRepo: invoiceRepo}
}

func (fx *depositFixture) seedDeposit(amount, available string) *entity.Deposit {
	d := &entity.Deposit{
		ID:              "dep-1",
		DepositNumber:   "DEP2026080001",
		CustomerID:      "cli-1",
		DepositType:     entity.DepositTypeAnticipo,
		Amount:          dec(amount),
		Currency:        entity.CurrencyPYG,
		DepositDate:     time.Now(),
		Status:          entity.DepositStatusActive,
		AppliedAmount:   decimal.Zero,
		AvailableAmount: dec(available),
		PaymentMethod:   entity.PaymentTransfer,
	}
	fx.depositRepo.deposits[d.ID] = d
	return d
}

// --- tests ---

func TestDepositCreate_NaceActivoConTodoDisponible(t *testing.T) {
	fx := newDepositFixture(t)

	out, err := fx.uc.Create(dto.CreateDepositRequest{
		CustomerID:    "cli-1",
		DepositType:   entity.DepositTypeAnticipo,
		Amount:        dec("5000000"),
		PaymentMethod: entity.PaymentTransfer,
	}, "user-1")
	require.NoError(t, err)

	assert.Equal(t, entity.DepositStatusActive, out.Status)
	assert.True(t, out.AvailableAmount.Equal(dec("5000000")))
	assert.True(t, out.AppliedAmount.IsZero())
	assert.Equal(t, entity.CurrencyPYG, out.Currency, "la moneda por defecto es PYG")
	assert.Regexp(t, `^DEP\d{6}0001$`, out.DepositNumber)
}

func TestDepositCreate_NumeracionMensualContinua(t *testing.T) {
	fx := newDepositFixture(t)
	fx.depositRepo.lastNumber = "DEP" + time.Now().Format("200601") + "0041"

	out, err := fx.uc.Create(dto.CreateDepositRequest{
		CustomerID:    "cli-1",
		DepositType:   entity.DepositTypeSena,
		Amount:        dec("100000"),
		PaymentMethod: entity.PaymentCash,
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "DEP"+time.Now().Format("200601")+"0042", out.DepositNumber)
}

func TestDepositCreate_Rechazos(t *testing.T) {
	fx := newDepositFixture(t)

	_, err := fx.uc.Create(dto.CreateDepositRequest{
		CustomerID: "cli-1", DepositType: entity.DepositTypeAnticipo,
		Amount: decimal.Zero, PaymentMethod: entity.PaymentCash,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "monto cero")

	_, err = fx.uc.Create(dto.CreateDepositRequest{
		CustomerID: "cli-1", DepositType: "PRESTAMO",
		Amount: dec("100"), PaymentMethod: entity.PaymentCash,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = fx.uc.Create(dto.CreateDepositRequest{
		CustomerID: "no-existe", DepositType: entity.DepositTypeAnticipo,
		Amount: dec("100"), PaymentMethod: entity.PaymentCash,
	}, "user-1")
	assert.ErrorIs(t, err, domain.ErrNotFound, "cliente inexistente")
}

func TestApplyToInvoice_AplicacionParcial(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("2000000", "2000000")

	out, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("600000"),
	}, "cajero-1")
	require.NoError(t, err)

	assert.Equal(t, entity.DepositStatusActive, out.Status, "queda ACTIVE mientras haya saldo")
	assert.True(t, out.AvailableAmount.Equal(dec("1400000")))
	assert.True(t, out.AppliedAmount.Equal(dec("600000")))

	inv := fx.invoiceRepo.invoices["fac-1"]
	assert.Equal(t, entity.InvoiceStatusPartiallyPaid, inv.Status)
	assert.True(t, inv.BalanceDue.Equal(dec("400000")))

	require.Len(t, fx.depositRepo.applications, 1)
	assert.True(t, fx.depositRepo.applications[0].AmountApplied.Equal(dec("600000")))
	require.Len(t, fx.invoiceRepo.payments, 1)
	assert.Equal(t, "DEP2026080001", fx.invoiceRepo.payments[0].ReferenceNumber)
}

func TestApplyToInvoice_ConsumoTotalDejaAppliedYFacturaPagada(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("1000000", "1000000")

	out, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("1000000"),
	}, "cajero-1")
	require.NoError(t, err)

	assert.Equal(t, entity.DepositStatusApplied, out.Status)
	assert.True(t, out.AvailableAmount.IsZero())
	assert.Equal(t, entity.InvoiceStatusPaid, fx.invoiceRepo.invoices["fac-1"].Status)
}

// Dos aplicaciones parciales que juntas agotan el depósito: el estado final
// lo decide el descuento condicionado, no la lectura previa de cada cajero.
func TestApplyToInvoice_ConcurrentesQueAgotanDejanApplied(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("500000", "500000")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
				InvoiceID: "fac-1",
				Amount:    dec("250000"),
			}, "cajero-1")
		}(i)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	d := fx.depositRepo.deposits["dep-1"]
	assert.True(t, d.AvailableAmount.IsZero())
	assert.Equal(t, entity.DepositStatusApplied, d.Status, "disponible en cero implica APPLIED")
	assert.True(t, d.AppliedAmount.Equal(dec("500000")))
}

func TestApplyToInvoice_SaldoInsuficiente(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("500000", "300000")

	_, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("300001"),
	}, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	// Nada quedó registrado.
	assert.Empty(t, fx.depositRepo.applications)
	assert.Empty(t, fx.invoiceRepo.payments)
}

func TestApplyToInvoice_MonedasDistintas(t *testing.T) {
	fx := newDepositFixture(t)
	d := fx.seedDeposit("1000", "1000")
	d.Currency = entity.CurrencyUSD

	_, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("100"),
	}, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrCurrencyMismatch)
}

func TestApplyToInvoice_FacturaDeOtroCliente(t *testing.T) {
	fx := newDepositFixture(t)
	d := fx.seedDeposit("1000000", "1000000")
	d.CustomerID = "cli-2"

	_, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("100000"),
	}, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApplyToInvoice_SuperaSaldoDeFactura(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("9000000", "9000000")

	_, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("1000001"),
	}, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestApplyToInvoice_DepositoNoActivo(t *testing.T) {
	fx := newDepositFixture(t)
	d := fx.seedDeposit("1000000", "0")
	d.Status = entity.DepositStatusRefunded

	_, err := fx.uc.ApplyToInvoice(context.Background(), "dep-1", dto.ApplyDepositRequest{
		InvoiceID: "fac-1",
		Amount:    dec("1"),
	}, "cajero-1")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRefund_DevuelveSaldoYGuardaMotivo(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("2000000", "1500000")

	out, err := fx.uc.Refund("dep-1", dto.RefundDepositRequest{Reason: "obra cancelada"})
	require.NoError(t, err)

	assert.Equal(t, entity.DepositStatusRefunded, out.Status)
	assert.True(t, out.AvailableAmount.IsZero())
	assert.Contains(t, out.Notes, "obra cancelada")
	assert.Contains(t, out.Notes, "1500000", "el monto devuelto queda en la auditoría")
}

func TestRefund_ParcialQuedaActivo(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("2000000", "1500000")

	out, err := fx.uc.Refund("dep-1", dto.RefundDepositRequest{
		Amount: dec("500000"),
		Reason: "devolución parcial acordada",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.DepositStatusActive, out.Status, "con saldo restante sigue ACTIVE")
	assert.True(t, out.AvailableAmount.Equal(dec("1000000")))

	_, err = fx.uc.Refund("dep-1", dto.RefundDepositRequest{
		Amount: dec("1000001"),
		Reason: "supera el disponible",
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}

// Dos devoluciones del total disponible lanzadas a la vez: el guard del
// descuento deja pasar exactamente una y el depósito nunca queda negativo.
func TestRefund_ConcurrentesNoSobreDevuelven(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("300000", "300000")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = fx.uc.Refund("dep-1", dto.RefundDepositRequest{Reason: "cierre de obra"})
		}(i)
	}
	wg.Wait()

	oks := 0
	for _, err := range errs {
		if err == nil {
			oks++
		}
	}
	assert.Equal(t, 1, oks, "solo una devolución del total puede pasar")

	d := fx.depositRepo.deposits["dep-1"]
	assert.True(t, d.AvailableAmount.IsZero(), "se devolvió exactamente el disponible")
	assert.Equal(t, entity.DepositStatusRefunded, d.Status)
}

func TestRefund_MotivoObligatorio(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("2000000", "1500000")

	_, err := fx.uc.Refund("dep-1", dto.RefundDepositRequest{Reason: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d := fx.depositRepo.deposits["dep-1"]
	assert.Equal(t, entity.DepositStatusActive, d.Status, "el depósito no cambió")
}

func TestRefund_SinSaldoDisponible(t *testing.T) {
	fx := newDepositFixture(t)
	fx.seedDeposit("2000000", "0")

	_, err := fx.uc.Refund("dep-1", dto.RefundDepositRequest{Reason: "cierre"})
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
}
