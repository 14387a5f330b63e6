package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
)

// StockHandler maneja el libro de inventario (protegido).
type StockHandler struct {
	uc *inventory.LedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *inventory.LedgerUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Entrada (IN, requiere unit_cost) o salida (OUT) del libro.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_id, type, quantity, unit_cost (IN)"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	id, err := h.uc.RegisterMovement(c.Context(), userID, inventory.MovementInput{
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		Note:      in.Note,
	})
	if err != nil {
		return errorJSON(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id, "message": "movimiento registrado"})
}

// GetStock godoc
// @Summary      Stock actual de un producto
// @Description  Agregado del libro: Σ(IN) − Σ(OUT).
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *StockHandler) GetStock(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	stock, err := h.uc.ComputeStock(c.Context(), productID)
	if err != nil {
		return errorJSON(c, err)
	}
	return c.JSON(dto.StockResponse{ProductID: productID, Stock: stock})
}

// ListMovements godoc
// @Summary      Kardex de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  path   string  true   "ID del producto"
// @Param        from        query  string  false  "Fecha inicial (RFC 3339)"
// @Param        to          query  string  false  "Fecha final (RFC 3339)"
// @Success      200  {array}   dto.MovementResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id}/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	productID := c.Params("product_id")
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	page.DefaultPage()

	from, to, err := parsePeriod(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from/to deben ser RFC 3339"})
	}

	movements, err := h.uc.ListMovements(c.Context(), productID, from, to, page.Limit, page.Offset)
	if err != nil {
		return errorJSON(c, err)
	}

	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			UnitCost:  m.UnitCost,
			Reference: m.Reference,
			Note:      m.Note,
			CreatedAt: m.CreatedAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "movements": out})
}

// parsePeriod lee from/to opcionales en RFC 3339.
func parsePeriod(c *fiber.Ctx) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return nil, nil, err
		}
		to = &t
	}
	return from, to, nil
}
