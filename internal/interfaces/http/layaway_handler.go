package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/layaway"
	"github.com/dfmorales/puntoventa-api/internal/application/receipts"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// LayawayHandler maneja planes separe (protegido).
type LayawayHandler struct {
	uc       *layaway.LayawayUseCase
	receipts *receipts.ReceiptUseCase
}

// NewLayawayHandler construye el handler.
func NewLayawayHandler(uc *layaway.LayawayUseCase, receipts *receipts.ReceiptUseCase) *LayawayHandler {
	return &LayawayHandler{uc: uc, receipts: receipts}
}

// Create godoc
// @Summary      Abrir plan separe
// @Description  Congela el precio del producto y registra el abono inicial.
//               No descuenta ni reserva stock.
// @Tags         layaways
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateLayawayRequest  true  "product_id, customer_name, initial_deposit, method"
// @Success      201   {object}  dto.LayawayResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/layaways [post]
func (h *LayawayHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateLayawayRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	account, err := h.uc.Create(c.Context(), userID, in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(account)
}

// AddPayment godoc
// @Summary      Abonar a un plan separe
// @Tags         layaways
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                     true  "ID del plan"
// @Param        body  body  dto.LayawayPaymentRequest  true  "amount, method"
// @Success      200   {object}  dto.LayawayResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/layaways/{id}/payments [post]
func (h *LayawayHandler) AddPayment(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.LayawayPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	account, err := h.uc.AddPayment(c.Context(), userID, c.Params("id"), in)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(account)
}

// Close godoc
// @Summary      Cerrar plan separe
// @Description  Registra la venta de cierre (descuenta el stock) y marca la
//               cuenta como cerrada, todo en una transacción.
// @Tags         layaways
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del plan"
// @Success      200  {object}  dto.CloseLayawayResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/layaways/{id}/close [post]
func (h *LayawayHandler) Close(c *fiber.Ctx) error {
	userID := GetUserID(c)
	out, err := h.uc.Close(c.Context(), userID, c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Consultar plan separe
// @Tags         layaways
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del plan"
// @Success      200  {object}  dto.LayawayResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/layaways/{id} [get]
func (h *LayawayHandler) GetByID(c *fiber.Ctx) error {
	account, err := h.uc.Get(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(account)
}

// List godoc
// @Summary      Listar planes separe por estado
// @Tags         layaways
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "OPEN (default) | CLOSED"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/layaways [get]
func (h *LayawayHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	status := c.Query("status", entity.LayawayStatusOpen)
	list, err := h.uc.List(c.Context(), status, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]fiber.Map, 0, len(list))
	for _, a := range list {
		out = append(out, fiber.Map{
			"id":            a.ID,
			"code":          a.Code,
			"status":        a.Status,
			"customer_name": a.CustomerName,
			"total_price":   a.TotalPrice,
			"total_paid":    a.TotalPaid,
			"balance":       a.Balance(),
			"created_at":    a.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "layaways": out})
}

// Statement godoc
// @Summary      Estado de cuenta PDF de un plan separe
// @Tags         layaways
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del plan"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/layaways/{id}/statement [get]
func (h *LayawayHandler) Statement(c *fiber.Ctx) error {
	pdf, err := h.receipts.LayawayStatement(c.Context(), c.Params("id"))
	if err != nil {
		return errorJSON(c, err)
	}
	c.Set("Content-Type", "application/pdf")
	c.Set("Content-Disposition", `inline; filename="plan-separe.pdf"`)
	return c.Send(pdf)
}
