package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/receipts"
	"github.com/dfmorales/puntoventa-api/internal/application/sales"
)

// SaleHandler maneja ventas POS (protegido).
type SaleHandler struct {
	uc       *sales.SaleUseCase
	receipts *receipts.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipts *receipts.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipts: receipts}
}

// Commit godoc
// @Summary      Registrar venta
// @Description  Venta multi-línea y multi-pago. Atómica: descuenta stock de
//               todas las líneas y registra los pagos, o no hace nada.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CommitSaleRequest  true  "lines, payments"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Commit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CommitSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.CommitSale(c.Context(), userID, in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// GetByID godoc
// @Summary      Consultar venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *SaleHandler) GetByID(c *fiber.Ctx) error {
	sale, err := h.uc.GetSale(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sale)
}

// List godoc
// @Summary      Listar ventas de un período
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Fecha inicial (RFC 3339), por defecto hoy 00:00"
// @Param        to    query  string  false  "Fecha final (RFC 3339), por defecto ahora"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

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

	list, err := h.uc.ListSales(c.Context(), from, to, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]fiber.Map, 0, len(list))
	for _, s := range list {
		out = append(out, fiber.Map{
			"id":            s.ID,
			"customer_name": s.CustomerName,
			"status":        s.Status,
			"total":         s.Total,
			"created_at":    s.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "sales": out})
}

// EditPayments godoc
// @Summary      Corregir los pagos de una venta
// @Description  Reemplaza el conjunto de pagos (corrección de medio de pago).
//               Nunca toca el libro de inventario.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID de la venta"
// @Param        body  body  dto.EditPaymentsRequest true  "payments"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/payments [put]
func (h *SaleHandler) EditPayments(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.EditPaymentsRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.EditPayments(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(sale)
}

// Void godoc
// @Summary      Anular venta
// @Description  Registra entradas compensatorias por cada línea y marca la
//               venta como anulada. Las filas originales del libro no se tocan.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/void [post]
func (h *SaleHandler) Void(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if err := h.uc.VoidSale(c.Context(), userID, c.Params("id")); err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(fiber.Map{"message": "venta anulada"})
}

// Receipt godoc
// @Summary      Tirilla PDF de una venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	pdf, err := h.receipts.SaleReceipt(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="venta.pdf"`)
	return c.Send(pdf)
}
