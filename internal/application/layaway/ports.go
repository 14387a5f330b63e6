package layaway

import (
	"context"
	"time"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción que incluye los
// repositorios de plan separe, venta, pago e inventario. El cierre de cuenta
// necesita todos: la transición a CLOSED y la venta de cierre (con su salida
// del libro) deben confirmarse como una sola unidad.
type TxRunner interface {
	RunLayaway(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		layawayRepo repository.LayawayRepository,
	) error) error
}

// SaleCommitter integra el cierre del plan separe con ventas: ejecuta la venta
// de cierre sobre los repositorios del caller (misma transacción). Si retorna
// error (ej: ErrInsufficientStock), el caller hace rollback y la cuenta no
// queda cerrada.
type SaleCommitter interface {
	CommitSaleInTx(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
		saleRepo repository.SaleRepository,
		paymentRepo repository.PaymentRepository,
		userID string,
		in dto.CommitSaleRequest,
		reference string,
		now time.Time,
	) (*entity.Sale, []*entity.SaleLine, []*entity.Payment, error)
}
