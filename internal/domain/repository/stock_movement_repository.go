package repository

import (
	"time"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// StockMovementRepository persiste el libro de inventario.
// Solo inserta y lee: las filas son inmutables (append-only), no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// SumByProduct agrega Σ(IN.qty) − Σ(OUT.qty) sobre todas las filas del
	// producto, dentro del snapshot de la transacción del Querier.
	SumByProduct(productID string) (int64, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByReference(reference string) ([]*entity.StockMovement, error)
}
