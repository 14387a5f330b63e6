package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo libro de inventario sobre PostgreSQL (usable con pool o tx).
// La tabla es append-only: este adaptador no expone UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta una fila del libro.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_id, type, quantity, unit_cost, reference, note, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductID, m.Type, m.Quantity, m.UnitCost, m.Reference, m.Note, m.CreatedAt, createdBy,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, unit_cost, reference, note, created_at, COALESCE(created_by, '')
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitCost, &m.Reference, &m.Note, &m.CreatedAt, &m.CreatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// SumByProduct agrega Σ(IN) − Σ(OUT) del producto. Dentro de una transacción
// que ya bloqueó el saldo del producto, el agregado es un snapshot consistente.
func (r *StockMovementRepo) SumByProduct(productID string) (int64, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'IN' THEN quantity ELSE -quantity END), 0)
		FROM stock_movements WHERE product_id = $1`
	var sum int64
	if err := r.q.QueryRow(context.Background(), query, productID).Scan(&sum); err != nil {
		return 0, fmt.Errorf("sum stock movements: %w", err)
	}
	return sum, nil
}

// ListByProduct lista el kardex de un producto en un rango de fechas.
func (r *StockMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, unit_cost, reference, note, created_at, COALESCE(created_by, '')
		FROM stock_movements WHERE product_id = $1`
	args := []any{productID}
	pos := 2
	if from != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", pos)
		args = append(args, *from)
		pos++
	}
	if to != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", pos)
		args = append(args, *to)
		pos++
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", pos, pos+1)
	args = append(args, limit, offset)

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements by product: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

// ListByReference lista los movimientos que referencian una venta o plan separe.
func (r *StockMovementRepo) ListByReference(reference string) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_id, type, quantity, unit_cost, reference, note, created_at, COALESCE(created_by, '')
		FROM stock_movements WHERE reference = $1 ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, reference)
	if err != nil {
		return nil, fmt.Errorf("list movements by reference: %w", err)
	}
	defer rows.Close()
	return scanMovements(rows)
}

func scanMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var list []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.UnitCost,
			&m.Reference, &m.Note, &m.CreatedAt, &m.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}
