package sales

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/billing"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// OrderUseCase casos de uso de órdenes de venta.
type OrderUseCase struct {
	orderRepo    repository.SalesOrderRepository
	quoteRepo    repository.QuoteRepository
	customerRepo repository.CustomerRepository
	productRepo  repository.ProductRepository
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(
	orderRepo repository.SalesOrderRepository,
	quoteRepo repository.QuoteRepository,
	customerRepo repository.CustomerRepository,
	productRepo repository.ProductRepository,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:    orderRepo,
		quoteRepo:    quoteRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
	}
}

// nextOrderNumber genera ORD + yyyymm + secuencial mensual de 4 dígitos.
func (uc *OrderUseCase) nextOrderNumber(date time.Time) (string, error) {
	prefix := "ORD" + date.Format("200601")
	last, err := uc.orderRepo.LastNumberWithPrefix(prefix)
	if err != nil {
		return "", err
	}
	seq := 1
	if last != "" {
		if n, err := strconv.Atoi(strings.TrimPrefix(last, prefix)); err == nil {
			seq = n + 1
		}
	}
	return fmt.Sprintf("%s%04d", prefix, seq), nil
}

// Create da de alta una orden directa en PENDING. Aplica la misma
// matemática de totales que las cotizaciones.
func (uc *OrderUseCase) Create(in dto.CreateOrderRequest, userID string) (*dto.OrderResponse, error) {
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
	if in.ShippingCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}

	orderID := uuid.New().String()
	lines := make([]*entity.SalesOrderLine, 0, len(in.Lines))
	lineTotals := make([]decimal.Decimal, 0, len(in.Lines))
	for _, l := range in.Lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad inválida", domain.ErrInvalidInput)
		}
		product, err := uc.productRepo.GetByID(l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || !product.IsActive {
			return nil, fmt.Errorf("%w: producto %s", domain.ErrNotFound, l.ProductID)
		}
		unitPrice := l.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.SellingPrice
		}
		description := l.Description
		if description == "" {
			description = product.Name
		}
		lineTotal := billing.LineTotal(l.Quantity, unitPrice, l.DiscountPercent)
		lines = append(lines, &entity.SalesOrderLine{
			ID:              uuid.New().String(),
			OrderID:         orderID,
			ProductID:       product.ID,
			Quantity:        l.Quantity,
			UnitPrice:       unitPrice,
			DiscountPercent: l.DiscountPercent,
			LineTotal:       lineTotal,
			Description:     description,
		})
		lineTotals = append(lineTotals, lineTotal)
	}
	subtotal, tax, total := billing.QuoteTotals(lineTotals, customer.HasValidTourismRegime(now))

	number, err := uc.nextOrderNumber(orderDate)
	if err != nil {
		return nil, fmt.Errorf("numeración de orden: %w", err)
	}
	order := &entity.SalesOrder{
		ID:           orderID,
		OrderNumber:  number,
		CustomerID:   customer.ID,
		OrderDate:    orderDate,
		DeliveryDate: in.DeliveryDate,
		Status:       entity.OrderStatusPending,
		Subtotal:     subtotal,
		TaxAmount:    tax,
		TotalAmount:  total.Add(in.ShippingCost),
		ShippingCost: in.ShippingCost,
		Notes:        in.Notes,
		CreatedByID:  userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.orderRepo.Create(order, lines); err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// CreateFromQuote convierte una cotización SENT o ACCEPTED en orden de
// venta, copiando líneas y totales, y marca la cotización como ACCEPTED.
func (uc *OrderUseCase) CreateFromQuote(quoteID string, in dto.CreateOrderFromQuoteRequest, userID string) (*dto.OrderResponse, error) {
	quote, err := uc.quoteRepo.GetByID(quoteID)
	if err != nil {
		return nil, err
	}
	if quote == nil {
		return nil, domain.ErrNotFound
	}
	if quote.Status != entity.QuoteStatusSent && quote.Status != entity.QuoteStatusAccepted {
		return nil, fmt.Errorf("%w: la cotización está en estado %s", domain.ErrConflict, quote.Status)
	}
	quoteLines, err := uc.quoteRepo.GetLines(quoteID)
	if err != nil {
		return nil, err
	}
	if in.ShippingCost.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	now := time.Now()
	orderID := uuid.New().String()
	lines := make([]*entity.SalesOrderLine, 0, len(quoteLines))
	for _, ql := range quoteLines {
		lines = append(lines, &entity.SalesOrderLine{
			ID:              uuid.New().String(),
			OrderID:         orderID,
			ProductID:       ql.ProductID,
			Quantity:        ql.Quantity,
			UnitPrice:       ql.UnitPrice,
			DiscountPercent: ql.DiscountPercent,
			LineTotal:       ql.LineTotal,
			Description:     ql.Description,
		})
	}

	number, err := uc.nextOrderNumber(now)
	if err != nil {
		return nil, fmt.Errorf("numeración de orden: %w", err)
	}
	order := &entity.SalesOrder{
		ID:           orderID,
		OrderNumber:  number,
		QuoteID:      quote.ID,
		CustomerID:   quote.CustomerID,
		OrderDate:    now,
		DeliveryDate: in.DeliveryDate,
		Status:       entity.OrderStatusPending,
		Subtotal:     quote.Subtotal,
		TaxAmount:    quote.TaxAmount,
		TotalAmount:  quote.TotalAmount.Add(in.ShippingCost),
		ShippingCost: in.ShippingCost,
		Notes:        in.Notes,
		CreatedByID:  userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.orderRepo.Create(order, lines); err != nil {
		return nil, err
	}
	if quote.Status != entity.QuoteStatusAccepted {
		if err := uc.quoteRepo.UpdateStatus(quote.ID, entity.QuoteStatusAccepted); err != nil {
			return nil, err
		}
	}
	return toOrderResponse(order, lines), nil
}

// Get devuelve una orden con sus líneas.
func (uc *OrderUseCase) Get(id string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.orderRepo.GetLines(id)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, lines), nil
}

// List devuelve órdenes filtradas y paginadas (sin líneas).
func (uc *OrderUseCase) List(filter repository.OrderFilter, page dto.PageRequest) (*dto.OrderListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset
	orders, err := uc.orderRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		items = append(items, *toOrderResponse(o, nil))
	}
	return &dto.OrderListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Transiciones permitidas de estado de orden. CANCELLED solo antes del envío.
var orderTransitions = map[string][]string{
	entity.OrderStatusPending:   {entity.OrderStatusConfirmed, entity.OrderStatusCancelled},
	entity.OrderStatusConfirmed: {entity.OrderStatusShipped, entity.OrderStatusCancelled},
	entity.OrderStatusShipped:   {entity.OrderStatusDelivered},
}

// UpdateStatus aplica una transición de estado de la orden.
func (uc *OrderUseCase) UpdateStatus(id, status string) (*dto.OrderResponse, error) {
	order, err := uc.orderRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	allowed := false
	for _, s := range orderTransitions[order.Status] {
		if s == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%w: transición %s -> %s no permitida", domain.ErrConflict, order.Status, status)
	}
	if err := uc.orderRepo.UpdateStatus(id, status); err != nil {
		return nil, err
	}
	order.Status = status
	return toOrderResponse(order, nil), nil
}

func toOrderResponse(o *entity.SalesOrder, lines []*entity.SalesOrderLine) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		QuoteID:      o.QuoteID,
		CustomerID:   o.CustomerID,
		OrderDate:    o.OrderDate,
		DeliveryDate: o.DeliveryDate,
		Status:       o.Status,
		Subtotal:     o.Subtotal,
		TaxAmount:    o.TaxAmount,
		TotalAmount:  o.TotalAmount,
		ShippingCost: o.ShippingCost,
		Notes:        o.Notes,
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.OrderLineResponse{
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
