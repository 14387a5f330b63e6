package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Medios de pago aceptados en caja.
const (
	PaymentMethodEfectivo = "EFECTIVO"
	PaymentMethodQRLlave  = "QR_LLAVE"
	PaymentMethodDatafono = "DATAFONO"
)

// ValidPaymentMethod reporta si el medio de pago pertenece al conjunto permitido.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodEfectivo, PaymentMethodQRLlave, PaymentMethodDatafono:
		return true
	}
	return false
}

// Payment es un pago asociado a una venta o a un plan separe (exactamente uno
// de SaleID/LayawayID es no vacío).
type Payment struct {
	ID        string
	SaleID    string // vacío si el pago pertenece a un plan separe
	LayawayID string // vacío si el pago pertenece a una venta
	Method    string
	Amount    decimal.Decimal // >= 0
	Note      string
	CreatedAt time.Time
	CreatedBy string
}
