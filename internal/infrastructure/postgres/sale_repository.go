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

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo ventas y líneas sobre PostgreSQL (usable con pool o tx).
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, COALESCE(customer_name, ''), status, total, created_at, created_by, voided_at, COALESCE(voided_by, '')`

// Create inserta la cabecera de la venta.
func (r *SaleRepo) Create(s *entity.Sale) error {
	query := `
		INSERT INTO sales (id, customer_name, status, total, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.CustomerName, s.Status, s.Total, s.CreatedAt, s.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create sale: %w", err)
	}
	return nil
}

// CreateLine inserta una línea de venta.
func (r *SaleRepo) CreateLine(l *entity.SaleLine) error {
	query := `
		INSERT INTO sale_lines (id, sale_id, product_id, quantity, unit_price, unit_cost)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.q.Exec(context.Background(), query,
		l.ID, l.SaleID, l.ProductID, l.Quantity, l.UnitPrice, l.UnitCost,
	)
	if err != nil {
		return fmt.Errorf("create sale line: %w", err)
	}
	return nil
}

// GetByID obtiene la cabecera de la venta.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetForUpdate bloquea la cabecera (SELECT FOR UPDATE) para anulación o
// edición de pagos.
func (r *SaleRepo) GetForUpdate(id string) (*entity.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetLines lista las líneas de una venta.
func (r *SaleRepo) GetLines(saleID string) ([]*entity.SaleLine, error) {
	query := `
		SELECT id, sale_id, product_id, quantity, unit_price, unit_cost
		FROM sale_lines WHERE sale_id = $1 ORDER BY id`
	rows, err := r.q.Query(context.Background(), query, saleID)
	if err != nil {
		return nil, fmt.Errorf("get sale lines: %w", err)
	}
	defer rows.Close()

	var lines []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.ProductID, &l.Quantity, &l.UnitPrice, &l.UnitCost); err != nil {
			return nil, fmt.Errorf("scan sale line: %w", err)
		}
		lines = append(lines, &l)
	}
	return lines, rows.Err()
}

// Update actualiza estado y datos de anulación de la cabecera.
func (r *SaleRepo) Update(s *entity.Sale) error {
	query := `
		UPDATE sales
		SET status = $2, total = $3, voided_at = $4, voided_by = NULLIF($5, '')
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.Status, s.Total, s.VoidedAt, s.VoidedBy,
	)
	if err != nil {
		return fmt.Errorf("update sale: %w", err)
	}
	return nil
}

// ListByPeriod lista ventas del período, más recientes primero.
func (r *SaleRepo) ListByPeriod(from, to time.Time, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT ` + saleColumns + `
		FROM sales
		WHERE created_at >= $1 AND created_at <= $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CustomerName, &s.Status, &s.Total,
			&s.CreatedAt, &s.CreatedBy, &s.VoidedAt, &s.VoidedBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, &s)
	}
	return sales, rows.Err()
}

func (r *SaleRepo) scanOne(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	err := row.Scan(&s.ID, &s.CustomerName, &s.Status, &s.Total,
		&s.CreatedAt, &s.CreatedBy, &s.VoidedAt, &s.VoidedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return &s, nil
}
