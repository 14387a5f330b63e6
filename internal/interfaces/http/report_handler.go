package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/reports"
)

// ReportHandler maneja los reportes de período (protegido, solo admin).
type ReportHandler struct {
	uc *reports.ReportUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *reports.ReportUseCase) *ReportHandler {
	return &ReportHandler{uc: uc}
}

// SalesSummary godoc
// @Summary      Resumen de ventas de un período
// @Description  Totales y recaudo por medio de pago. Los abonos de planes
//               separe se reportan aparte (depósitos, no ingreso).
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (RFC 3339), por defecto hoy 00:00"
// @Param        to    query  string  false  "Fecha final (RFC 3339), por defecto ahora"
// @Success      200  {object}  dto.SalesSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales-summary [get]
func (h *ReportHandler) SalesSummary(c *fiber.Ctx) error {
	fromPtr, toPtr, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC 3339"})
	}
	now := time.Now()
	from := now.Truncate(24 * time.Hour)
	to := now
	if fromPtr != nil {
		from = *fromPtr
	}
	if toPtr != nil {
		to = *toPtr
	}

	summary, err := h.uc.SalesSummary(c.Context(), from, to)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(summary)
}

// OpenLayaways godoc
// @Summary      Planes separe abiertos con saldo pendiente
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/reports/open-layaways [get]
func (h *ReportHandler) OpenLayaways(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	list, err := h.uc.OpenLayaways(c.Context(), page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"total": len(list), "layaways": list})
}
