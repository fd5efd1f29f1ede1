// Package sales contiene los casos de uso de venta: cotizaciones y órdenes.
// Cotizar nunca toca el stock; el inventario recién se mueve al facturar.
package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/billing"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// Vigencia por defecto de una cotización.
const defaultQuoteValidityDays = 15

// QuoteUseCase casos de uso de cotizaciones.
type QuoteUseCase struct {
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
	companyRepo  repository.CompanyRepository
	pdfGen       QuotePDFGenerator
}

// NewQuoteUseCase construye el caso de uso.
func NewQuoteUseCase(
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
	companyRepo repository.CompanyRepository,
	pdfGen QuotePDFGenerator,
) *QuoteUseCase {
	return &QuoteUseCase{
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		companyRepo:  companyRepo,
		pdfGen:       pdfGen,
	}
}

// Create emite una cotización en DRAFT. Los totales se calculan acá: total
// de línea con descuento, IVA fijo del 10% y exención por régimen de
// turismo vigente. El stock no se modifica.
func (uc *QuoteUseCase) Create(in dto.CreateQuoteRequest, userID string) (*dto.QuoteResponse, error) {
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

	now := time.Now()
	quoteDate := now
	if in.QuoteDate != nil {
		quoteDate = *in.QuoteDate
	}
	validUntil := quoteDate.AddDate(0, 0, defaultQuoteValidityDays)
	if in.ValidUntil != nil {
		validUntil = *in.ValidUntil
	}
	if validUntil.Before(quoteDate) {
		return nil, fmt.Errorf("%w: la vigencia no puede ser anterior a la fecha", domain.ErrInvalidInput)
	}

	quoteID := uuid.New().String()
	lines, lineTotals, err := uc.buildLines(quoteID, in.Lines)
	if err != nil {
		return nil, err
	}
	subtotal, tax, total := billing.QuoteTotals(lineTotals, customer.HasValidTourismRegime(now))

	seq, err := uc.companyRepo.NextQuoteNumber()
	if err != nil {
		return nil, fmt.Errorf("numeración de cotización: %w", err)
	}
	quote := &entity.Quote{
		ID:          quoteID,
		QuoteNumber: fmt.Sprintf("COT%s%04d", quoteDate.Format("200601"), seq),
		CustomerID:  customer.ID,
		QuoteDate:   quoteDate,
		ValidUntil:  validUntil,
		Status:      entity.QuoteStatusDraft,
		Subtotal:    subtotal,
		TaxAmount:   tax,
		TotalAmount: total,
		Notes:       in.Notes,
		Terms:       in.Terms,
		CreatedByID: userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.quoteRepo.Create(quote, lines); err != nil {
		return nil, err
	}
	return toQuoteResponse(quote, lines), nil
}

// buildLines valida cada línea contra el catálogo y calcula sus totales.
// Si la línea no trae precio se usa el precio de venta del producto.
func (uc *QuoteUseCase) buildLines(quoteID string, in []dto.QuoteLineRequest) ([]*entity.QuoteLine, []decimal.Decimal, error) {
	lines := make([]*entity.QuoteLine, 0, len(in))
	totals := make([]decimal.Decimal, 0, len(in))
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
		description := l.Description
		if description == "" {
			description = product.Name
		}
		lineTotal := billing.LineTotal(l.Quantity, unitPrice, l.DiscountPercent)
		lines = append(lines, &entity.QuoteLine{
			ID:              uuid.New().String(),
			QuoteID:         quoteID,
			ProductID:       product.ID,
			Quantity:        l.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       lineTotal,
			Description:     description,
		})
		totals = append(totals, lineTotal)
	}
	return lines, totals, nil
}

// Get devuelve una cotización con sus líneas.
func (uc *QuoteUseCase) Get(id string) (*dto.QuoteResponse, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.quoteRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toQuoteResponse(quote, lines), nil
}

// List devuelve cotizaciones filtradas y paginadas (sin líneas).
func (uc *QuoteUseCase) List(filter repository.QuoteFilter, page dto.PageRequest) (*dto.QuoteListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset
	quotes, err := uc.quoteRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.QuoteResponse, 0, len(quotes))
	for _, q := range quotes {
		items = append(items, *toQuoteResponse(q, nil))
	}
	return &dto.QuoteListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica una cotización en DRAFT. Si vienen líneas nuevas se
// reemplazan todas y se recalculan los totales.
func (uc *QuoteUseCase) Update(id string, in dto.UpdateQuoteRequest) (*dto.QuoteResponse, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.Status != entity.QuoteStatusDraft {
		return nil, fmt.Errorf("%w: solo se modifican cotizaciones en borrador", domain.ErrConflict)
	}

	if in.ValidUntil != nil {
		quote.ValidUntil = *in.ValidUntil
	}
	if in.Notes != nil {
		quote.Notes = *in.Notes
	}
	if in.Terms != nil {
		quote.Terms = *in.Terms
	}

	var lines []*entity.QuoteLine
	if len(in.Lines) > 0 {
		customer, err := uc.customerRepo.GetByID(quote.CustomerID)
		if err != nil || customer == nil {
			return nil, domain.ErrNotFound
		}
		var lineTotals []decimal.Decimal
		lines, lineTotals, err = uc.buildLines(quote.ID, in.Lines)
		if err != nil {
			return nil, err
		}
		quote.Subtotal, quote.TaxAmount, quote.TotalAmount = billing.QuoteTotals(lineTotals, customer.HasValidTourismRegime(time.Now()))
	} else {
		lines, err = uc.quoteRepo.GetLines(id)
		if err != nil {
			return nil, err
		}
	}

	quote.UpdatedAt = time.Now()
	if err := uc.quoteRepo.Update(quote, lines); err != nil {
		return nil, err
	}
	return toQuoteResponse(quote, lines), nil
}

// Transiciones manuales permitidas de estado de cotización.
var quoteTransitions = map[string][]string{
	entity.QuoteStatusDraft: {entity.QuoteStatusSent, entity.QuoteStatusRejected},
	entity.QuoteStatusSent:  {entity.QuoteStatusAccepted, entity.QuoteStatusRejected, entity.QuoteStatusExpired},
}

// UpdateStatus aplica una transición manual de estado.
func (uc *QuoteUseCase) UpdateStatus(id, status string) (*dto.QuoteResponse, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	allowed := false
	for _, s := range quoteTransitions[quote.Status] {
		if s == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, quote.Status, status)
	}
	if err := uc.quoteRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	quote.Status = status
	return toQuoteResponse(quote, nil), nil
}

// Delete elimina una cotización en DRAFT. Las demás quedan por auditoría.
func (uc *QuoteUseCase) Delete(id string) error {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return err
	}
	if quote == nil {
		return domain.ErrNotFound
	}
	if quote.Status != entity.QuoteStatusDraft {
		return fmt.Errorf("%w: solo se eliminan cotizaciones en borrador", domain.ErrConflict)
	}
	return uc.quoteRepo.Delete(id)
}

// MarkExpired pasa a EXPIRED las cotizaciones vencidas. Pensado para correr
// a diario.
func (uc *QuoteUseCase) MarkExpired(now time.Time) (int, error) {
	return uc.quoteRepo.MarkExpired(now)
}

// DownloadPDF genera la representación PDF de la cotización.
func (uc *QuoteUseCase) DownloadPDF(ctx context.Context, id string) ([]byte, string, error) {
	quote, err := uc.quoteRepo.GetByID(id)
	if err != nil {
		return nil, "", err
	}
	if quote == nil {
		return nil, "", domain.ErrNotFound
	}
	lines, err := uc.quoteRepo.GetLines(id)
	if err != nil {
		return nil, "", err
	}
	customer, err := uc.customerRepo.GetByID(quote.CustomerID)
	if err != nil || customer == nil {
		return nil, "", fmt.Errorf("pdf: obtener cliente: %w", err)
	}
	company, err := uc.companyRepo.Get()
	if err != nil || company == nil {
		return nil, "", fmt.Errorf("pdf: obtener empresa: %w", err)
	}
	products := make(map[string]*entity.Product, len(lines))
	for _, l := range lines {
		if _, ok := products[l.ProductID]; ok {
			continue
		}
		if p, pErr := uc.productRepo.GetByID(l.ProductID); pErr == nil && p != nil {
			products[l.ProductID] = p
		}
	}

	pdfBytes, err := uc.pdfGen.GenerateQuotePDF(ctx, QuotePDFData{
		Quote:    quote,
		Lines:    lines,
		Customer: customer,
		Company:  company,
		Products: products,
	})
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("cotizacion_%s.pdf", quote.QuoteNumber), nil
}

func toQuoteResponse(q *entity.Quote, lines []*entity.QuoteLine) *dto.QuoteResponse {
	resp := &dto.QuoteResponse{
		ID:          q.ID,
		QuoteNumber: q.QuoteNumber,
		CustomerID:  q.CustomerID,
		QuoteDate:   q.QuoteDate,
		ValidUntil:  q.ValidUntil,
		Status:      q.Status,
		Subtotal:    q.Subtotal,
		TaxAmount:   q.TaxAmount,
		TotalAmount: q.TotalAmount,
		Notes:       q.Notes,
		Terms:       q.Terms,
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.QuoteLineResponse{
			ID:              l.ID,
			ProductID:       l.ProductID,
			Quantity:        l.Quantity,
			UnitPrice:       l.UnitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       l.LineTotal,
			Description:     l.Description,
		})
	}
	return resp
}
