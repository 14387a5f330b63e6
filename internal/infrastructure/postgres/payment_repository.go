package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos de venta y abonos de plan separe sobre PostgreSQL
// (usable con pool o tx).
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

// Create inserta un pago. El CHECK de la tabla exige exactamente uno de
// sale_id/layaway_id no nulo.
func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, sale_id, layaway_id, method, amount, note, created_at, created_by)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.SaleID, p.LayawayID, p.Method, p.Amount, p.Note, p.CreatedAt, p.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

// ListBySale lista los pagos de una venta.
func (r *PaymentRepo) ListBySale(saleID string) ([]*entity.Payment, error) {
	return r.list(`sale_id = $1`, saleID)
}

// ListByLayaway lista los abonos de un plan separe en orden cronológico.
func (r *PaymentRepo) ListByLayaway(layawayID string) ([]*entity.Payment, error) {
	return r.list(`layaway_id = $1`, layawayID)
}

// SumByLayaway agrega los abonos de la cuenta dentro del snapshot de la tx.
func (r *PaymentRepo) SumByLayaway(layawayID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE layaway_id = $1`
	var sum decimal.Decimal
	if err := r.q.QueryRow(context.Background(), query, layawayID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum layaway payments: %w", err)
	}
	return sum, nil
}

// DeleteBySale borra el conjunto de pagos de una venta para reemplazarlo
// (edición de pagos). Nunca toca abonos de plan separe.
func (r *PaymentRepo) DeleteBySale(saleID string) error {
	query := `DELETE FROM payments WHERE sale_id = $1`
	if _, err := r.q.Exec(context.Background(), query, saleID); err != nil {
		return fmt.Errorf("delete sale payments: %w", err)
	}
	return nil
}

func (r *PaymentRepo) list(where string, arg any) ([]*entity.Payment, error) {
	query := `
		SELECT id, COALESCE(sale_id::text, ''), COALESCE(layaway_id::text, ''), method, amount, COALESCE(note, ''), created_at, created_by
		FROM payments WHERE ` + where + ` ORDER BY created_at`
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	return scanPayments(rows)
}

func scanPayments(rows pgx.Rows) ([]*entity.Payment, error) {
	var list []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.SaleID, &p.LayawayID, &p.Method, &p.Amount,
			&p.Note, &p.CreatedAt, &p.CreatedBy); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
