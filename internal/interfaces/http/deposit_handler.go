package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/sigepy/erp-api/internal/application/deposits"
	"github.com/sigepy/erp-api/internal/application/dto"
	"github.com/sigepy/erp-api/internal/domain/repository"
)

// DepositHandler maneja las peticiones HTTP del libro de depósitos de
// clientes (protegido; requiere rol admin o cajero).
type DepositHandler struct {
	uc *deposits.DepositUseCase
}

// NewDepositHandler construye el handler.
func NewDepositHandler(uc *deposits.DepositUseCase) *DepositHandler {
	return &DepositHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar depósito de cliente
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDepositRequest  true  "Datos del depósito"
// @Success      201   {object}  dto.DepositResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/deposits [post]
func (h *DepositHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDepositRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CustomerID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "customer_id es requerido"})
	}
	out, err := h.uc.Create(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener depósito por ID
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del depósito"
// @Success      200  {object}  dto.DepositResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deposits/{id} [get]
func (h *DepositHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar depósitos
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        customer_id   query  string  false  "Filtrar por cliente"
// @Param        status        query  string  false  "Filtrar por estado"
// @Param        deposit_type  query  string  false  "Filtrar por tipo"
// @Param        currency      query  string  false  "Filtrar por moneda"
// @Param        from          query  string  false  "Desde (YYYY-MM-DD)"
// @Param        to            query  string  false  "Hasta (YYYY-MM-DD)"
// @Param        limit         query  int     false  "Límite"   default(20)
// @Param        offset        query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.DepositListResponse
// @Router       /api/deposits [get]
func (h *DepositHandler) List(c *fiber.Ctx) error {
	filter := repository.DepositFilter{
		CustomerID:  c.Query("customer_id"),
		Status:      c.Query("status"),
		DepositType: c.Query("deposit_type"),
		Currency:    c.Query("currency"),
		FromDate:    parseDateQuery(c, "from"),
		ToDate:      parseDateQuery(c, "to"),
	}
	out, err := h.uc.List(filter, parsePage(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ApplyToInvoice godoc
// @Summary      Aplicar depósito a una factura
// @Description  Descuenta del saldo disponible y registra el cobro en la factura. Mismo cliente y misma moneda.
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del depósito"
// @Param        body  body  dto.ApplyDepositRequest  true  "Factura y monto"
// @Success      200   {object}  dto.DepositResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deposits/{id}/apply [post]
func (h *DepositHandler) ApplyToInvoice(c *fiber.Ctx) error {
	var in dto.ApplyDepositRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.InvoiceID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_id es requerido"})
	}
	out, err := h.uc.ApplyToInvoice(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Refund godoc
// @Summary      Devolver saldo de un depósito, total o parcial
// @Tags         deposits
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del depósito"
// @Param        body  body  dto.RefundDepositRequest  true  "Motivo de la devolución"
// @Success      200   {object}  dto.DepositResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/deposits/{id}/refund [post]
func (h *DepositHandler) Refund(c *fiber.Ctx) error {
	var in dto.RefundDepositRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Refund(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListApplications godoc
// @Summary      Auditoría de aplicaciones de un depósito
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del depósito"
// @Success      200  {array}  dto.DepositApplicationResponse
// @Router       /api/deposits/{id}/applications [get]
func (h *DepositHandler) ListApplications(c *fiber.Ctx) error {
	out, err := h.uc.ListApplications(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CustomerSummary godoc
// @Summary      Saldos de depósitos de un cliente por moneda
// @Tags         deposits
// @Security     Bearer
// @Produce      json
// @Param        customerId  path  string  true  "ID del cliente"
// @Success      200  {object}  dto.DepositSummaryResponse
// @Router       /api/deposits/customer/{customerId}/summary [get]
func (h *DepositHandler) CustomerSummary(c *fiber.Ctx) error {
	out, err := h.uc.CustomerSummary(c.Params("customerId"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
