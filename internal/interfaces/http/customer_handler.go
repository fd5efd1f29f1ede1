package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sigepy/erp-api/internal/application/crm"
	"github.com/sigepy/erp-api/internal/application/dto"
)

// CustomerHandler maneja las peticiones HTTP de clientes, contactos y
// régimen de turismo (protegido).
type CustomerHandler struct {
	uc      *crm.CustomerUseCase
	tourism *crm.TourismUseCase
}

// NewCustomerHandler construye el handler.
func NewCustomerHandler(uc *crm.CustomerUseCase, tourism *crm.TourismUseCase) *CustomerHandler {
	return &CustomerHandler{uc: uc, tourism: tourism}
}

// Create godoc
// @Summary      Crear cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCustomerRequest  true  "Datos del cliente"
// @Success      201   {object}  dto.CustomerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/customers [post]
func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.CompanyName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "company_name es requerido"})
	}
	out, err := h.uc.Create(in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener cliente por ID
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del cliente"
// @Success      200  {object}  dto.CustomerResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [get]
func (h *CustomerHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar clientes
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        search  query  string  false  "Búsqueda por código, razón social o RUC"
// @Param        active  query  bool    false  "Solo activos"  default(true)
// @Param        limit   query  int     false  "Límite"        default(20)
// @Param        offset  query  int     false  "Offset"        default(0)
// @Success      200     {object}  dto.CustomerListResponse
// @Router       /api/customers [get]
func (h *CustomerHandler) List(c *fiber.Ctx) error {
	page := parsePage(c)
	out, err := h.uc.List(c.Query("search"), c.QueryBool("active", true), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.UpdateCustomerRequest  true  "Campos a actualizar"
// @Success      200   {object}  dto.CustomerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [put]
func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCustomerRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.Update(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Deactivate godoc
// @Summary      Desactivar cliente (borrado lógico)
// @Tags         customers
// @Security     Bearer
// @Param        id  path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id} [delete]
func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	if err := h.uc.Deactivate(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Activate godoc
// @Summary      Reactivar cliente
// @Tags         customers
// @Security     Bearer
// @Param        id  path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *fiber.Ctx) error {
	if err := h.uc.Activate(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Contactos ─────────────────────────────────────────────────────────────────

// AddContact godoc
// @Summary      Agregar contacto a un cliente
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del cliente"
// @Param        body  body  dto.ContactRequest  true  "Datos del contacto"
// @Success      201   {object}  dto.ContactResponse
// @Router       /api/customers/{id}/contacts [post]
func (h *CustomerHandler) AddContact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.AddContact(c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListContacts godoc
// @Summary      Listar contactos de un cliente
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {array}  dto.ContactResponse
// @Router       /api/customers/{id}/contacts [get]
func (h *CustomerHandler) ListContacts(c *fiber.Ctx) error {
	out, err := h.uc.ListContacts(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateContact godoc
// @Summary      Actualizar contacto
// @Tags         customers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        contactId  path  string  true  "ID del contacto"
// @Param        body       body  dto.ContactRequest  true  "Datos del contacto"
// @Success      200  {object}  dto.ContactResponse
// @Router       /api/customers/contacts/{contactId} [put]
func (h *CustomerHandler) UpdateContact(c *fiber.Ctx) error {
	var in dto.ContactRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.UpdateContact(c.Params("contactId"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteContact godoc
// @Summary      Eliminar contacto
// @Tags         customers
// @Security     Bearer
// @Param        contactId  path  string  true  "ID del contacto"
// @Success      204
// @Router       /api/customers/contacts/{contactId} [delete]
func (h *CustomerHandler) DeleteContact(c *fiber.Ctx) error {
	if err := h.uc.DeleteContact(c.Params("contactId")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Régimen de turismo ────────────────────────────────────────────────────────

// UploadTourismPDF godoc
// @Summary      Subir PDF acreditante del régimen de turismo
// @Tags         customers
// @Security     Bearer
// @Accept       multipart/form-data
// @Param        id    path      string  true  "ID del cliente"
// @Param        file  formData  file    true  "PDF acreditante (máx 10 MB)"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/tourism-pdf [post]
func (h *CustomerHandler) UploadTourismPDF(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_FILE", Message: "campo file requerido (multipart)"})
	}
	f, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_FILE", Message: "no se pudo leer el archivo"})
	}
	defer f.Close()

	err = h.tourism.UploadPDF(c.Params("id"), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), fileHeader.Size, f)
	if err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DownloadTourismPDF godoc
// @Summary      Descargar PDF acreditante del régimen de turismo
// @Tags         customers
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del cliente"
// @Success      200  {file}  file
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/tourism-pdf [get]
func (h *CustomerHandler) DownloadTourismPDF(c *fiber.Ctx) error {
	content, filename, err := h.tourism.DownloadPDF(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	defer content.Close()
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.SendStream(content)
}

// DeleteTourismPDF godoc
// @Summary      Eliminar PDF acreditante del régimen de turismo
// @Tags         customers
// @Security     Bearer
// @Param        id  path  string  true  "ID del cliente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/customers/{id}/tourism-pdf [delete]
func (h *CustomerHandler) DeleteTourismPDF(c *fiber.Ctx) error {
	if err := h.tourism.DeletePDF(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListExpiringTourism godoc
// @Summary      Clientes con régimen de turismo por vencer
// @Tags         customers
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Ventana de aviso en días"  default(5)
// @Success      200  {array}  dto.ExpiringCustomerDTO
// @Router       /api/notifications/customers-expiring-tourism [get]
func (h *CustomerHandler) ListExpiringTourism(c *fiber.Ctx) error {
	out, err := h.tourism.ListExpiringWithin(time.Now(), c.QueryInt("days", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// parsePage arma la paginación desde query params con los defaults comunes.
func parsePage(c *fiber.Ctx) dto.PageRequest {
	page := dto.PageRequest{
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	}
	if page.Limit > 100 {
		page.Limit = 100
	}
	page.DefaultPage()
	return page
}
