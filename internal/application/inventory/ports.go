package inventory

import (
	"context"

	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx. Garantiza atomicidad para el libro de
// inventario: o se insertan movimiento y saldo juntos, o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		balanceRepo repository.StockBalanceRepository,
		productRepo repository.ProductRepository,
	) error) error
}
