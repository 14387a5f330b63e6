package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegisterMovementRequest body para POST /api/stock/movements.
// UnitCost es obligatorio para entradas (IN).
type RegisterMovementRequest struct {
	ProductID string           `json:"product_id"`
	Type      string           `json:"type"` // IN | OUT
	Quantity  int64            `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
	Reference string           `json:"reference,omitempty"`
	Note      string           `json:"note,omitempty"`
}

// MovementResponse fila del kardex en respuestas.
type MovementResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Type      string          `json:"type"`
	Quantity  int64           `json:"quantity"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Reference string          `json:"reference,omitempty"`
	Note      string          `json:"note,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// StockResponse stock actual de un producto (agregado del libro).
type StockResponse struct {
	ProductID string `json:"product_id"`
	Stock     int64  `json:"stock"`
}
