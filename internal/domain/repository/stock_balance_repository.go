package repository

import "github.com/dfmorales/puntoventa-api/internal/domain/entity"

// StockBalanceRepository saldo materializado por producto.
// GetForUpdate bloquea la fila (SELECT FOR UPDATE) para serializar escrituras
// concurrentes sobre el mismo producto dentro de la transacción.
type StockBalanceRepository interface {
	Get(productID string) (*entity.StockBalance, error)
	GetForUpdate(productID string) (*entity.StockBalance, error)
	Upsert(balance *entity.StockBalance) error
}
