package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sigepy/erp-api/internal/application/company"
	"github.com/sigepy/erp-api/internal/application/dto"
)

// CompanyHandler maneja las peticiones HTTP de la configuración fiscal de la
// empresa (protegido; escritura solo admin).
type CompanyHandler struct {
	uc *company.CompanyUseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *company.CompanyUseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get godoc
// @Summary      Obtener configuración de la empresa
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CompanySettingsResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/company [get]
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Save godoc
// @Summary      Crear o actualizar la configuración de la empresa
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompanySettingsRequest  true  "Datos fiscales"
// @Success      200   {object}  dto.CompanySettingsResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/company [put]
func (h *CompanyHandler) Save(c *fiber.Ctx) error {
	var in dto.CompanySettingsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.RazonSocial == "" || in.RUC == "" || in.Timbrado == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "razon_social, ruc y timbrado son requeridos"})
	}
	out, err := h.uc.Save(in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// NextInvoiceNumber godoc
// @Summary      Próximo número de factura (vista previa, no consume)
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextNumberResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/company/numbering/invoices/next [get]
func (h *CompanyHandler) NextInvoiceNumber(c *fiber.Ctx) error {
	out, err := h.uc.NextInvoiceNumber()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// NextQuoteNumber godoc
// @Summary      Próximo número de cotización (vista previa, no consume)
// @Tags         company
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NextNumberResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/company/numbering/quotes/next [get]
func (h *CompanyHandler) NextQuoteNumber(c *fiber.Ctx) error {
	out, err := h.uc.NextQuoteNumber(time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ResetInvoiceNumbering godoc
// @Summary      Reiniciar numeración de facturas (nuevo timbrado)
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ResetNumberingRequest  true  "Número inicial"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/company/numbering/invoices/reset [post]
func (h *CompanyHandler) ResetInvoiceNumbering(c *fiber.Ctx) error {
	var in dto.ResetNumberingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ResetInvoiceNumbering(in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ResetQuoteNumbering godoc
// @Summary      Reiniciar numeración de cotizaciones
// @Tags         company
// @Security     Bearer
// @Accept       json
// @Param        body  body  dto.ResetNumberingRequest  true  "Número inicial"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/company/numbering/quotes/reset [post]
func (h *CompanyHandler) ResetQuoteNumbering(c *fiber.Ctx) error {
	var in dto.ResetNumberingRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.uc.ResetQuoteNumbering(in); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
