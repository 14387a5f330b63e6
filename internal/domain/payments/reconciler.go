package payments

import (
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// Tolerance es el margen fijo que absorbe diferencias de redondeo al comparar
// la suma de pagos contra el total esperado (0.5 unidades de moneda).
var Tolerance = decimal.New(5, -1)

// Item es un pago a validar: medio de pago y monto.
type Item struct {
	Method string
	Amount decimal.Decimal
}

// Sum devuelve la suma de los montos.
func Sum(items []Item) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Amount)
	}
	return total
}

// Validate verifica el conjunto de pagos de una venta: cada monto debe ser
// no negativo, cada medio debe pertenecer al conjunto permitido y la suma debe
// coincidir con expectedTotal dentro de Tolerance.
//
// Lo usan idénticamente el commit de venta y la edición de pagos; el registro
// de abonos de plan separe usa ValidatePartial porque un abono es parcial por
// diseño.
func Validate(items []Item, expectedTotal decimal.Decimal) error {
	if len(items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, it := range items {
		if !entity.ValidPaymentMethod(it.Method) {
			return domain.ErrInvalidInput
		}
		if it.Amount.IsNegative() {
			return domain.ErrInvalidInput
		}
	}
	diff := Sum(items).Sub(expectedTotal).Abs()
	if diff.GreaterThan(Tolerance) {
		return domain.ErrPaymentMismatch
	}
	return nil
}

// ValidatePartial verifica un abono suelto: medio permitido y monto positivo.
// No compara contra ningún total.
func ValidatePartial(it Item) error {
	if !entity.ValidPaymentMethod(it.Method) {
		return domain.ErrInvalidInput
	}
	if !it.Amount.IsPositive() {
		return domain.ErrInvalidInput
	}
	return nil
}
