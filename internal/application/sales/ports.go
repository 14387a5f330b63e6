package sales

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de venta, pago e inventario. La venta completa (cabecera,
// líneas, pagos y salidas del libro) se confirma o se revierte como unidad.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
	) error) error
}

// StockLedger integra ventas con el libro de inventario dentro de la
// transacción del caller. Si retorna error (ej: ErrInsufficientStock), el
// caller debe hacer rollback de toda la venta.
type StockLedger interface {
	RegisterOUTInTx(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productID string,
		quantity int64,
		unitCost decimal.Decimal,
		reference, note, userID string,
		now time.Time,
	) error
	RegisterINInTx(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productID string,
		quantity int64,
		unitCost decimal.Decimal,
		reference, note, userID string,
		now time.Time,
	) error
}
