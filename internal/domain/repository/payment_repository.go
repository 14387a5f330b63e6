package repository

import (
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// PaymentRepository pagos de ventas y abonos de planes separe.
type PaymentRepository interface {
	Create(payment *entity.Payment) error
	ListBySale(saleID string) ([]*entity.Payment, error)
	ListByLayaway(layawayID string) ([]*entity.Payment, error)
	// SumByLayaway agrega los abonos de la cuenta dentro del snapshot de la
	// transacción; TotalPaid siempre se deriva de aquí.
	SumByLayaway(layawayID string) (decimal.Decimal, error)
	// DeleteBySale reemplaza el conjunto de pagos de una venta (edición de
	// pagos); solo aplica a pagos de venta, nunca a abonos de plan separe.
	DeleteBySale(saleID string) error
}
