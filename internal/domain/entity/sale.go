package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta.
const (
	SaleStatusCompleted = "COMPLETED"
	SaleStatusVoided    = "VOIDED"
)

// Sale es la cabecera de una venta POS multi-línea y multi-pago.
type Sale struct {
	ID           string
	CustomerName string // opcional
	Status       string // COMPLETED | VOIDED
	Total        decimal.Decimal
	CreatedAt    time.Time
	CreatedBy    string // UserID
	VoidedAt     *time.Time
	VoidedBy     string
}

// SaleLine es una línea de venta. UnitPrice y UnitCost son snapshots tomados
// al momento de la venta, independientes de ediciones posteriores del producto.
type SaleLine struct {
	ID        string
	SaleID    string
	ProductID string
	Quantity  int64
	UnitPrice decimal.Decimal
	UnitCost  decimal.Decimal
}

// Subtotal de la línea (Quantity × UnitPrice).
func (l SaleLine) Subtotal() decimal.Decimal {
	return decimal.NewFromInt(l.Quantity).Mul(l.UnitPrice)
}
