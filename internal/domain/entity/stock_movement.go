package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del libro de inventario.
const (
	MovementTypeIN  = "IN"  // entrada
	MovementTypeOUT = "OUT" // salida
)

// ValidMovementType reporta si el tipo pertenece al conjunto permitido.
func ValidMovementType(t string) bool {
	return t == MovementTypeIN || t == MovementTypeOUT
}

// StockMovement es una fila del libro de inventario (append-only).
// Una vez escrita nunca se actualiza ni se borra: las correcciones se hacen
// con un movimiento compensatorio de tipo opuesto que referencia al original.
type StockMovement struct {
	ID        string
	ProductID string
	Type      string          // IN | OUT
	Quantity  int64           // siempre positivo; el signo lo da Type
	UnitCost  decimal.Decimal // obligatorio en IN; en OUT se registra el costo promedio vigente
	Reference string          // ID de venta, código de plan separe, nota de entrada, etc.
	Note      string
	CreatedAt time.Time
	CreatedBy string // UserID
}
