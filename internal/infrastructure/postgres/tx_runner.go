package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfmorales/puntoventa-api/internal/application/inventory"
	"github.com/dfmorales/puntoventa-api/internal/application/layaway"
	"github.com/dfmorales/puntoventa-api/internal/application/sales"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

// Ensure TxRunner implements the application tx runner ports.
var _ inventory.TxRunner = (*TxRunner)(nil)
var _ sales.TxRunner = (*TxRunner)(nil)
var _ layaway.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Cada flavor pasa al callback los repositorios atados a esa tx; si el
// callback retorna error no se hace Commit y la transacción completa se
// revierte (ninguna fila de libro, venta o pago queda a medias).
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción con los repos del libro de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockMovementRepository(tx), NewStockBalanceRepository(tx), NewProductRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunSale inicia una transacción con repos de inventario, venta y pago
// (commit, anulación y edición de pagos de venta).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockMovementRepository(tx),
		NewStockBalanceRepository(tx),
		NewProductRepository(tx),
		NewSaleRepository(tx),
		NewPaymentRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// RunLayaway inicia una transacción con todos los repos que necesita el ciclo
// de plan separe; el cierre registra la venta de cierre en la misma tx.
func (r *TxRunner) RunLayaway(ctx context.Context, fn func(
	movRepo repository.StockMovementRepository,
	balanceRepo repository.StockBalanceRepository,
	productRepo repository.ProductRepository,
	saleRepo repository.SaleRepository,
	paymentRepo repository.PaymentRepository,
	layawayRepo repository.LayawayRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(
		NewStockMovementRepository(tx),
		NewStockBalanceRepository(tx),
		NewProductRepository(tx),
		NewSaleRepository(tx),
		NewPaymentRepository(tx),
		NewLayawayRepository(tx),
	); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
