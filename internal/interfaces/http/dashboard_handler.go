package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sigepy/erp-api/internal/application/analytics"
	"github.com/sigepy/erp-api/internal/application/catalog"
	"github.com/sigepy/erp-api/internal/application/crm"
	"github.com/sigepy/erp-api/internal/application/dto"
)

// DashboardHandler maneja el resumen del dashboard y las notificaciones de
// vencimientos (protegido).
type DashboardHandler struct {
	uc       *analytics.DashboardUseCase
	tourism  *crm.TourismUseCase
	products *catalog.ProductUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase, tourism *crm.TourismUseCase, products *catalog.ProductUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc, tourism: tourism, products: products}
}

// Summary godoc
// @Summary      Resumen operativo y financiero del dashboard
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Summary(c *fiber.Ctx) error {
	out, err := h.uc.GetSummary(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Notifications godoc
// @Summary      Alertas de vencimiento (régimen de turismo y productos)
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.NotificationsResponse
// @Router       /api/notifications [get]
func (h *DashboardHandler) Notifications(c *fiber.Ctx) error {
	now := time.Now()
	customers, err := h.tourism.ListExpiring(now)
	if err != nil {
		return respondError(c, err)
	}
	products, err := h.products.ListExpiring(now)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NotificationsResponse{
		ExpiringCustomers: customers,
		ExpiringProducts:  products,
		GeneratedAt:       now,
	})
}
