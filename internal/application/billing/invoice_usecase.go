// Package billing contiene los casos de uso de facturación: emisión con
// numeración del timbrado, desglose de IVA paraguayo, cobros y morosidad.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	calc "github.com/sigepy/erp-api/internal/domain/billing"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/fiscal"
	"github.com/sigepy/erp-api/pkg/logger"
)

// Porcentaje de exención del régimen de turismo: exime el 100% del IVA.
var tourismExemptionPercentage = decimal.NewFromInt(100)

// InvoiceUseCase casos de uso de facturación.
type InvoiceUseCase struct {
	txRunner     BillingTxRunner
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	companyRepo  repository.CompanyRepository
	log          *logger.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	log *logger.Logger,
) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		log:          log,
	}
}

// Create emite una factura: asigna el número del timbrado, calcula el
// desglose de IVA (gravado 10, gravado 5, exento), aplica la exención
// turística si corresponde y descuenta stock de los productos trazables.
// Todo dentro de una transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.CreateInvoiceRequest, userID string) (*dto.InvoiceResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.customerRepo.GetByID(in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	if !customer.IsActive {
		return nil, fmt.Errorf("%w: el cliente está inactivo", domain.ErrInvalidInput)
	}
	company, err := uc.companyRepo.Get()
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrCompanyNotConfigured
	}
	if company.TimbradoExpiry != nil && company.TimbradoExpiry.Before(time.Now()) {
		return nil, domain.ErrTimbradoExpired
	}

	now := time.Now()
	invoiceDate := now
	if in.InvoiceDate != nil {
		invoiceDate = *in.InvoiceDate
	}
	condicion := in.CondicionVenta
	if condicion == "" {
		condicion = entity.CondicionContado
	}
	dueDate := invoiceDate
	if condicion == entity.CondicionCredito {
		dueDate = invoiceDate.AddDate(0, 0, customer.PaymentTerms)
	}
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}
	currency := in.Currency
	if currency == "" {
		currency = company.MonedaDefecto
	}
	if currency == "" {
		currency = entity.CurrencyPYG
	}

	invoiceID := uuid.New().String()
	lines, taxed, err := uc.buildLines(invoiceID, in.Lines, company)
	if err != nil {
		return nil, err
	}
	breakdown := calc.InvoiceBreakdown(taxed, company.IVA10Rate, company.IVA5Rate)
	tourism := customer.HasValidTourismRegime(invoiceDate)
	if tourism {
		breakdown = calc.ApplyTourismRegime(breakdown, tourismExemptionPercentage)
	}

	invoice := &entity.Invoice{
		ID:              invoiceID,
		SalesOrderID:    in.SalesOrderID,
		CustomerID:      customer.ID,
		InvoiceDate:     invoiceDate,
		DueDate:         dueDate,
		Status:          entity.InvoiceStatusSent,
		Subtotal:        breakdown.Subtotal,
		TaxAmount:       breakdown.TotalIVA,
		TotalAmount:     breakdown.Total,
		PaidAmount:      decimal.Zero,
		BalanceDue:      breakdown.Total,
		Currency:        currency,
		Notes:           in.Notes,
		PuntoExpedicion: fiscal.NormalizePuntoExpedicion(company.PuntoExpedicion),
		CondicionVenta:  condicion,
		LugarEmision:    company.Ciudad,

		SubtotalGravado10: breakdown.SubtotalGravado10,
		SubtotalGravado5:  breakdown.SubtotalGravado5,
		SubtotalExento:    breakdown.SubtotalExento,
		IVA10:             breakdown.IVA10,
		IVA5:              breakdown.IVA5,

		TourismRegimeApplied: tourism,

		CreatedAt: now,
		UpdatedAt: now,
	}
	if tourism {
		invoice.TourismRegimePercentage = tourismExemptionPercentage
	}

	err = uc.txRunner.RunBilling(ctx, func(
		invoiceRepo repository.InvoiceRepository,
		productRepo repository.ProductRepository,
		companyRepo repository.CompanyRepository,
	) error {
		seq, err := companyRepo.NextInvoiceNumber()
		if err != nil {
			return fmt.Errorf("numeración de factura: %w", err)
		}
		invoice.InvoiceNumber = fiscal.FormatInvoiceNumber(seq, company.PuntoExpedicion)

		if err := invoiceRepo.Create(invoice, lines); err != nil {
			return err
		}
		for _, l := range lines {
			product, err := productRepo.GetByID(l.ProductID)
			if err != nil || product == nil {
				return domain.ErrNotFound
			}
			if !product.IsTrackable {
				continue
			}
			if _, err := productRepo.AdjustStock(l.ProductID, -l.Quantity); err != nil {
				return err
			}
			if err := productRepo.CreateMovement(&entity.StockMovement{
				ID:            uuid.New().String(),
				ProductID:     l.ProductID,
				MovementType:  entity.MovementOut,
				Quantity:      -l.Quantity,
				UnitCost:      product.CostPrice,
				ReferenceType: "SALE",
				ReferenceID:   invoice.ID,
				CreatedAt:     now,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoice.ID).
		Str("numero", invoice.InvoiceNumber).
		Str("cliente", customer.CompanyName).
		Bool("regimen_turismo", tourism).
		Msg("factura emitida")
	return toInvoiceResponse(invoice, lines), nil
}

// buildLines valida las líneas contra el catálogo y calcula total e IVA por
// línea. La categoría por defecto es gravado 10%.
func (uc *InvoiceUseCase) buildLines(invoiceID string, in []dto.InvoiceLineRequest, company *entity.CompanySettings) ([]*entity.InvoiceLine, []calc.TaxedLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(in))
	taxed := make([]calc.TaxedLine, 0, len(in))
	for _, l := range in {
		if l.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: cantidad inválida", domain.ErrInvalidInput)
		}
		if l.DiscountPercent.IsNegative() || l.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
			return nil, nil, fmt.Errorf("%w: descuento fuera de rango", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, nil, err
		}
		if product == nil || !product.IsActive {
			return nil, nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		unitPrice := l.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}
		if unitPrice.IsNegative() {
			return nil, nil, fmt.Errorf("%w: precio inválido", domain.ErrInvalidInput)
		}
		category := l.IVACategory
		if category == "" {
			category = entity.IVACategory10
		}
		description := l.Description
		if description == "" {
			description = product.Name
		}
		lineTotal := calc.LineTotal(l.Quantity, unitPrice, l.DiscountPercent)
		lines = append(lines, &entity.InvoiceLine{
			ID:              uuid.New().String(),
			InvoiceID:       invoiceID,
			ProductID:       product.ID,
			Quantity:        l.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       lineTotal,
			Description:     description,
			IVACategory:     category,
			IVAAmount:       calc.LineIVA(lineTotal, category, company.IVA10Rate, company.IVA5Rate),
		})
		taxed = append(taxed, calc.TaxedLine{LineTotal: lineTotal, IVACategory: category})
	}
	return lines, taxed, nil
}

// Get devuelve una factura con sus líneas.
func (uc *InvoiceUseCase) Get(id string) (*dto.InvoiceResponse, error) {
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(invoice, lines), nil
}

// List devuelve facturas filtradas y paginadas (sin líneas).
func (uc *InvoiceUseCase) List(filter repository.InvoiceFilter, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset
	invoices, err := uc.invoiceRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(invoices))
	for _, inv := range invoices {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// AddPayment registra un cobro. El update condicionado en el repositorio
// garantiza que nunca se cobra más que el saldo; el estado queda en PAID o
// PARTIALLY_PAID según el saldo resultante.
func (uc *InvoiceUseCase) AddPayment(id string, in dto.AddPaymentRequest) (*dto.InvoiceResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	invoice, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: la factura ya está pagada", domain.ErrConflict)
	}
	if in.Amount.GreaterThan(invoice.BalanceDue) {
		return nil, fmt.Errorf("%w: el cobro supera el saldo pendiente", domain.ErrConflict)
	}

	updated, err := uc.invoiceRepo.ApplyPayment(id, in.Amount)
	if err != nil {
		return nil, err
	}

	paymentDate := time.Now()
	if in.PaymentDate != nil {
		paymentDate = *in.PaymentDate
	}
	if err := uc.invoiceRepo.CreatePayment(&entity.Payment{
		ID:              uuid.New().String(),
		InvoiceID:       id,
		PaymentDate:     paymentDate,
		Amount:          in.Amount,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		Notes:           in.Notes,
		CreatedAt:       time.Now(),
	}); err != nil {
		return nil, err
	}

	status := entity.InvoiceStatusPartiallyPaid
	if updated.BalanceDue.IsZero() {
		status = entity.InvoiceStatusPaid
	}
	if err := uc.invoiceRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	updated.Status = status

	uc.log.Info().
		Str("invoice_id", id).
		Str("monto", in.Amount.String()).
		Str("estado", status).
		Msg("cobro registrado")
	return toInvoiceResponse(updated, nil), nil
}

// ListPayments devuelve los cobros de una factura.
func (uc *InvoiceUseCase) ListPayments(invoiceID string) ([]dto.PaymentResponse, error) {
	payments, err := uc.invoiceRepo.ListPayments(invoiceID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, dto.PaymentResponse{
			ID:              p.ID,
			InvoiceID:       p.InvoiceID,
			PaymentDate:     p.PaymentDate,
			Amount:          p.Amount,
			PaymentMethod:   p.PaymentMethod,
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
			CreatedAt:       p.CreatedAt,
		})
	}
	return out, nil
}

// MarkOverdue pasa a OVERDUE las facturas con saldo y vencimiento pasado.
// Pensado para correr a diario.
func (uc *InvoiceUseCase) MarkOverdue(now time.Time) (int, error) {
	n, err := uc.invoiceRepo.MarkOverdue(now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Warn().Int("facturas", n).Msg("facturas marcadas como vencidas")
	}
	return n, nil
}

// Summary devuelve los totales de facturación de un período.
func (uc *InvoiceUseCase) Summary(from, to time.Time) (*dto.InvoiceSummaryResponse, error) {
	s, err := uc.invoiceRepo.Summary(from, to)
	if err != nil {
		return nil, err
	}
	return &dto.InvoiceSummaryResponse{
		From:         from,
		To:           to,
		Count:        s.Count,
		TotalAmount:  s.TotalAmount,
		PaidAmount:   s.PaidAmount,
		BalanceDue:   s.BalanceDue,
		OverdueCount: s.OverdueCount,
	}, nil
}

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		InvoiceNumber: inv.InvoiceNumber,
		SalesOrderID:  inv.SalesOrderID,
		CustomerID:    inv.CustomerID,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Status:        inv.Status,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaidAmount:    inv.PaidAmount,
		BalanceDue:    inv.BalanceDue,
		Currency:      inv.Currency,
		Notes:         inv.Notes,

		PuntoExpedicion: inv.PuntoExpedicion,
		CondicionVenta:  inv.CondicionVenta,
		LugarEmision:    inv.LugarEmision,

		SubtotalGravado10: inv.SubtotalGravado10,
		SubtotalGravado5:  inv.SubtotalGravado5,
		SubtotalExento:    inv.SubtotalExento,
		IVA10:             inv.IVA10,
		IVA5:              inv.IVA5,

		TourismRegimeApplied:    inv.TourismRegimeApplied,
		TourismRegimePercentage: inv.TourismRegimePercentage,

		CreatedAt: inv.CreatedAt,
		UpdatedAt: inv.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       l.LineTotal,
			IVACategory:     l.IVACategory,
			IVAAmount:       l.IVAAmount,
			Description:     l.Description,
		})
	}
	return resp
}
