package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

var _ repository.StockBalanceRepository = (*StockBalanceRepo)(nil)

// StockBalanceRepo saldo materializado por producto sobre PostgreSQL
// (usable con pool o tx).
type StockBalanceRepo struct {
	q Querier
}

// NewStockBalanceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockBalanceRepository(q Querier) *StockBalanceRepo {
	return &StockBalanceRepo{q: q}
}

// Get obtiene el saldo actual de un producto. Si no hay fila, saldo cero.
func (r *StockBalanceRepo) Get(productID string) (*entity.StockBalance, error) {
	query := `SELECT product_id, quantity, updated_at FROM stock_balances WHERE product_id = $1`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&b.ProductID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockBalance{ProductID: productID}, nil
		}
		return nil, fmt.Errorf("get stock balance: %w", err)
	}
	return &b, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE).
// Si el producto aún no tiene fila de saldo, la crea en cero y la bloquea,
// para que dos escritores concurrentes sobre el mismo producto se serialicen
// también en la primera operación.
func (r *StockBalanceRepo) GetForUpdate(productID string) (*entity.StockBalance, error) {
	insert := `
		INSERT INTO stock_balances (product_id, quantity, updated_at)
		VALUES ($1, 0, now())
		ON CONFLICT (product_id) DO NOTHING`
	if _, err := r.q.Exec(context.Background(), insert, productID); err != nil {
		return nil, fmt.Errorf("seed stock balance: %w", err)
	}
	query := `
		SELECT product_id, quantity, updated_at
		FROM stock_balances WHERE product_id = $1
		FOR UPDATE`
	var b entity.StockBalance
	err := r.q.QueryRow(context.Background(), query, productID).Scan(&b.ProductID, &b.Quantity, &b.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("get stock balance for update: %w", err)
	}
	return &b, nil
}

// Upsert materializa el saldo del producto.
func (r *StockBalanceRepo) Upsert(balance *entity.StockBalance) error {
	query := `
		INSERT INTO stock_balances (product_id, quantity, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (product_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, balance.ProductID, balance.Quantity)
	if err != nil {
		return fmt.Errorf("upsert stock balance: %w", err)
	}
	return nil
}
