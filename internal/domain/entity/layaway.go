package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un plan separe. OPEN → CLOSED es una transición de una sola vía.
const (
	LayawayStatusOpen   = "OPEN"
	LayawayStatusClosed = "CLOSED"
)

// LayawayAccount es la cuenta escrow de un plan separe: el cliente aparta un
// producto con un abono inicial y lo paga en cuotas. TotalPrice se congela con
// el precio del producto al crear la cuenta; TotalPaid siempre se deriva de
// las filas de pago, nunca se muta de forma independiente.
//
// La creación NO descuenta stock ni reserva la unidad: el descuento ocurre
// exactamente una vez, al cerrar, mediante la venta de cierre.
type LayawayAccount struct {
	ID             string
	Code           string // consecutivo legible, ej. SEP-3F2A9C
	Status         string // OPEN | CLOSED
	ProductID      string
	CustomerName   string
	CustomerPhone  string
	TotalPrice     decimal.Decimal // precio congelado a la creación
	InitialDeposit decimal.Decimal
	TotalPaid      decimal.Decimal // derivado: Σ pagos (incluye el abono inicial)
	CreatedAt      time.Time
	CreatedBy      string
	ClosedAt       *time.Time
	ClosedBy       string
}

// Balance devuelve el saldo pendiente (TotalPrice − TotalPaid).
func (a LayawayAccount) Balance() decimal.Decimal {
	return a.TotalPrice.Sub(a.TotalPaid)
}
