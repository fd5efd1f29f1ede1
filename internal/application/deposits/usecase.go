// Package deposits contiene los casos de uso del libro de depósitos de
// clientes: anticipos, señas, garantías, cauciones y pagos parciales.
//
// Invariante del libro: 0 <= disponible <= monto original, siempre.
package deposits

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain"
	"github.com/sigepy/erp-api/internal/domain/entity"
	"github.com/sigepy/erp-api/internal/domain/repository"
	"github.com/sigepy/erp-api/pkg/logger"
)

var validDepositTypes = map[string]bool{
	entity.DepositTypeAnticipo: true,
	entity.DepositTypeSena:     true,
	entity.DepositTypeGarantia: true,
	entity.DepositTypeCaucion:  true,
	entity.DepositTypeParcial:  true,
}

// DepositUseCase casos de uso del libro de depósitos.
type DepositUseCase struct {
	txRunner     DepositTxRunner
	depositRepo  repository.DepositRepository
	invoiceRepo  repository.InvoiceRepository
	customerRepo repository.CustomerRepository
	log          *logger.Logger
}

// NewDepositUseCase construye el caso de uso.
func NewDepositUseCase(
	txRunner DepositTxRunner,
	depositRepo repository.DepositRepository,
	invoiceRepo repository.InvoiceRepository,
	customerRepo repository.CustomerRepository,
	log *logger.Logger,
) *DepositUseCase {
	return &DepositUseCase{
		txRunner:     txRunner,
		depositRepo:  depositRepo,
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		log:          log,
	}
}

// nextDepositNumber genera DEP + yyyymm + secuencial mensual de 4 dígitos.
func (uc *DepositUseCase) nextDepositNumber(date time.Time) (string, error) {
	prefix := "DEP" + date.Format("200601")
	last, err := uc.depositRepo.LastNumberWithPrefix(prefix)
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

// Create registra un depósito. Nace ACTIVE con todo el monto disponible.
func (uc *DepositUseCase) Create(in dto.CreateDepositRequest, userID string) (*dto.DepositResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	if !validDepositTypes[in.DepositType] {
		return nil, fmt.Errorf("%w: tipo de depósito desconocido", domain.ErrInvalidInput)
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
	depositDate := now
	if in.DepositDate != nil {
		depositDate = *in.DepositDate
	}
	currency := in.Currency
	if currency == "" {
		currency = entity.CurrencyPYG
	}

	number, err := uc.nextDepositNumber(depositDate)
	if err != nil {
		return nil, fmt.Errorf("numeración de depósito: %w", err)
	}
	deposit := &entity.Deposit{
		ID:              uuid.New().String(),
		DepositNumber:   number,
		CustomerID:      customer.ID,
		DepositType:     in.DepositType,
		Amount:          in.Amount,
		Currency:        currency,
		DepositDate:     depositDate,
		ExpiryDate:      in.ExpiryDate,
		Status:          entity.DepositStatusActive,
		AppliedAmount:   decimal.Zero,
		AvailableAmount: in.Amount,
		PaymentMethod:   in.PaymentMethod,
		ReferenceNumber: in.ReferenceNumber,
		BankName:        in.BankName,
		Notes:           in.Notes,
		ProjectRef:      in.ProjectRef,
		ContractNumber:  in.ContractNumber,
		CreatedByID:     userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.depositRepo.Create(deposit); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("deposit_id", deposit.ID).
		Str("numero", deposit.DepositNumber).
		Str("tipo", deposit.DepositType).
		Str("monto", deposit.Amount.String()).
		Msg("depósito registrado")
	return toDepositResponse(deposit), nil
}

// Get devuelve un depósito por ID.
func (uc *DepositUseCase) Get(id string) (*dto.DepositResponse, error) {
	deposit, err := uc.depositRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, domain.ErrNotFound
	}
	return toDepositResponse(deposit), nil
}

// List devuelve depósitos filtrados y paginados.
func (uc *DepositUseCase) List(filter repository.DepositFilter, page dto.PageRequest) (*dto.DepositListResponse, error) {
	page.DefaultPage()
	filter.Limit = page.Limit
	filter.Offset = page.Offset
	deposits, err := uc.depositRepo.List(filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DepositResponse, 0, len(deposits))
	for _, d := range deposits {
		items = append(items, *toDepositResponse(d))
	}
	return &dto.DepositListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ApplyToInvoice aplica parte del saldo de un depósito a una factura del
// mismo cliente y la misma moneda. El descuento del saldo usa un update
// condicionado: si dos cajeros aplican a la vez, uno de los dos pierde.
func (uc *DepositUseCase) ApplyToInvoice(ctx context.Context, depositID string, in dto.ApplyDepositRequest, userID string) (*dto.DepositResponse, error) {
	if !in.Amount.GreaterThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: el monto debe ser positivo", domain.ErrInvalidInput)
	}
	deposit, err := uc.depositRepo.GetByID(depositID)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, domain.ErrNotFound
	}
	if deposit.Status != entity.DepositStatusActive {
		return nil, fmt.Errorf("%w: el depósito está en estado %s", domain.ErrConflict, deposit.Status)
	}
	invoice, err := uc.invoiceRepo.GetByID(in.InvoiceID)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, domain.ErrNotFound
	}
	if invoice.CustomerID != deposit.CustomerID {
		return nil, fmt.Errorf("%w: la factura es de otro cliente", domain.ErrConflict)
	}
	if invoice.Currency != deposit.Currency {
		return nil, domain.ErrCurrencyMismatch
	}
	if invoice.Status == entity.InvoiceStatusPaid {
		return nil, fmt.Errorf("%w: la factura ya está pagada", domain.ErrConflict)
	}
	if in.Amount.GreaterThan(deposit.AvailableAmount) {
		return nil, domain.ErrInsufficientFunds
	}
	if in.Amount.GreaterThan(invoice.BalanceDue) {
		return nil, fmt.Errorf("%w: el monto supera el saldo de la factura", domain.ErrConflict)
	}

	now := time.Now()
	var updated *entity.Deposit
	err = uc.txRunner.RunDeposits(ctx, func(
		depositRepo repository.DepositRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		var err error
		updated, err = depositRepo.ApplyAmount(depositID, in.Amount)
		if err != nil {
			return err
		}
		if err := depositRepo.CreateApplication(&entity.DepositApplication{
			ID:              uuid.New().String(),
			DepositID:       depositID,
			InvoiceID:       invoice.ID,
			AmountApplied:   in.Amount,
			ApplicationDate: now,
			Notes:           in.Notes,
			AppliedByID:     userID,
			CreatedAt:       now,
		}); err != nil {
			return err
		}
		paid, err := invoiceRepo.ApplyPayment(invoice.ID, in.Amount)
		if err != nil {
			return err
		}
		status := entity.InvoiceStatusPartiallyPaid
		if paid.BalanceDue.IsZero() {
			status = entity.InvoiceStatusPaid
		}
		if err := invoiceRepo.UpdateStatus(invoice.ID, status); err != nil {
			return err
		}
		return invoiceRepo.CreatePayment(&entity.Payment{
			ID:              uuid.New().String(),
			InvoiceID:       invoice.ID,
			PaymentDate:     now,
			Amount:          in.Amount,
			PaymentMethod:   deposit.PaymentMethod,
			ReferenceNumber: deposit.DepositNumber,
			Notes:           "aplicación de depósito " + deposit.DepositNumber,
			CreatedAt:       now,
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("deposit_id", depositID).
		Str("invoice_id", invoice.ID).
		Str("monto", in.Amount.String()).
		Str("estado_deposito", updated.Status).
		Msg("depósito aplicado a factura")
	return toDepositResponse(updated), nil
}

// Refund devuelve saldo disponible de un depósito; sin monto se devuelve
// todo. El motivo es obligatorio y queda en las notas. El descuento del
// disponible usa el mismo update condicionado que ApplyToInvoice, y el
// depósito pasa a REFUNDED recién cuando el disponible llega a cero.
func (uc *DepositUseCase) Refund(id string, in dto.RefundDepositRequest) (*dto.DepositResponse, error) {
	if strings.TrimSpace(in.Reason) == "" {
		return nil, fmt.Errorf("%w: el motivo de la devolución es obligatorio", domain.ErrInvalidInput)
	}
	if in.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: el monto no puede ser negativo", domain.ErrInvalidInput)
	}
	deposit, err := uc.depositRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if deposit == nil {
		return nil, domain.ErrNotFound
	}
	if deposit.Status != entity.DepositStatusActive {
		return nil, fmt.Errorf("%w: el depósito está en estado %s", domain.ErrConflict, deposit.Status)
	}
	if !deposit.AvailableAmount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInsufficientFunds
	}

	refunded := in.Amount
	if refunded.IsZero() {
		refunded = deposit.AvailableAmount
	}
	if refunded.GreaterThan(deposit.AvailableAmount) {
		return nil, domain.ErrInsufficientFunds
	}

	// El descuento usa el mismo update condicionado que la aplicación: si
	// otra devolución o aplicación consumió el saldo entre la lectura y
	// acá, el guard no se cumple y no se devuelve de más.
	note := fmt.Sprintf("DEVOLUCIÓN %s: %s (monto %s)", time.Now().Format("2006-01-02"), in.Reason, refunded.String())
	updated, err := uc.depositRepo.RefundAmount(id, refunded, note)
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("deposit_id", updated.ID).
		Str("monto_devuelto", refunded.String()).
		Str("motivo", in.Reason).
		Msg("depósito devuelto")
	return toDepositResponse(updated), nil
}

// ListApplications devuelve la auditoría de aplicaciones de un depósito.
func (uc *DepositUseCase) ListApplications(depositID string) ([]dto.DepositApplicationResponse, error) {
	apps, err := uc.depositRepo.ListApplications(depositID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DepositApplicationResponse, 0, len(apps))
	for _, a := range apps {
		out = append(out, dto.DepositApplicationResponse{
			ID:              a.ID,
			DepositID:       a.DepositID,
			InvoiceID:       a.InvoiceID,
			AmountApplied:   a.AmountApplied,
			ApplicationDate: a.ApplicationDate,
			Notes:           a.Notes,
			CreatedAt:       a.CreatedAt,
		})
	}
	return out, nil
}

// CustomerSummary devuelve los saldos de depósitos de un cliente por moneda.
func (uc *DepositUseCase) CustomerSummary(customerID string) (*dto.DepositSummaryResponse, error) {
	customer, err := uc.customerRepo.GetByID(customerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	s, err := uc.depositRepo.Summary(customerID)
	if err != nil {
		return nil, err
	}
	return &dto.DepositSummaryResponse{
		CustomerID:          customerID,
		TotalPYG:            s.TotalPYG,
		AvailablePYG:        s.AvailablePYG,
		AppliedPYG:          s.AppliedPYG,
		TotalUSD:            s.TotalUSD,
		AvailableUSD:        s.AvailableUSD,
		AppliedUSD:          s.AppliedUSD,
		ActiveDepositsCount: s.ActiveDepositsCount,
		TotalDepositsCount:  s.TotalDepositsCount,
		LastDepositDate:     s.LastDepositDate,
	}, nil
}

// MarkExpired pasa a EXPIRED los depósitos vencidos. Pensado para correr a
// diario.
func (uc *DepositUseCase) MarkExpired(now time.Time) (int, error) {
	n, err := uc.depositRepo.MarkExpired(now)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		uc.log.Warn().Int("depositos", n).Msg("depósitos marcados como vencidos")
	}
	return n, nil
}

func toDepositResponse(d *entity.Deposit) *dto.DepositResponse {
	return &dto.DepositResponse{
		ID:              d.ID,
		DepositNumber:   d.DepositNumber,
		CustomerID:      d.CustomerID,
		DepositType:     d.DepositType,
		Amount:          d.Amount,
		Currency:        d.Currency,
		DepositDate:     d.DepositDate,
		ExpiryDate:      d.ExpiryDate,
		Status:          d.Status,
		AppliedAmount:   d.AppliedAmount,
		AvailableAmount: d.AvailableAmount,
		PaymentMethod:   d.PaymentMethod,
		ReferenceNumber: d.ReferenceNumber,
		BankName:        d.BankName,
		Notes:           d.Notes,
		ProjectRef:      d.ProjectRef,
		ContractNumber:  d.ContractNumber,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
