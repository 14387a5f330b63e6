package entity

import "time"

// StockBalance es el saldo materializado de un producto.
// Se actualiza transaccionalmente junto con cada movimiento y sirve de ancla
// para el bloqueo de fila (SELECT FOR UPDATE); el libro de movimientos sigue
// siendo la fuente de verdad auditable.
type StockBalance struct {
	ProductID string
	Quantity  int64
	UpdatedAt time.Time
}
