package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dfmorales/puntoventa-api/internal/domain"
	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

var _ repository.LayawayRepository = (*LayawayRepo)(nil)

// LayawayRepo planes separe sobre PostgreSQL (usable con pool o tx).
type LayawayRepo struct {
	q Querier
}

// NewLayawayRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLayawayRepository(q Querier) *LayawayRepo {
	return &LayawayRepo{q: q}
}

const layawayColumns = `id, code, status, product_id, customer_name, COALESCE(customer_phone, ''),
		total_price, initial_deposit, total_paid, created_at, created_by, closed_at, COALESCE(closed_by, '')`

// Create inserta una cuenta de plan separe. Código duplicado retorna ErrConflict.
func (r *LayawayRepo) Create(a *entity.LayawayAccount) error {
	query := `
		INSERT INTO layaway_accounts
			(id, code, status, product_id, customer_name, customer_phone,
			 total_price, initial_deposit, total_paid, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Code, a.Status, a.ProductID, a.CustomerName, a.CustomerPhone,
		a.TotalPrice, a.InitialDeposit, a.TotalPaid, a.CreatedAt, a.CreatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("create layaway: %w", err)
	}
	return nil
}

// GetByID obtiene una cuenta por ID.
func (r *LayawayRepo) GetByID(id string) (*entity.LayawayAccount, error) {
	query := `SELECT ` + layawayColumns + ` FROM layaway_accounts WHERE id = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// GetByCode obtiene una cuenta por su código legible.
func (r *LayawayRepo) GetByCode(code string) (*entity.LayawayAccount, error) {
	query := `SELECT ` + layawayColumns + ` FROM layaway_accounts WHERE code = $1`
	return r.scanOne(r.q.QueryRow(context.Background(), query, code))
}

// GetForUpdate bloquea la fila de la cuenta para serializar abonos y cierre.
func (r *LayawayRepo) GetForUpdate(id string) (*entity.LayawayAccount, error) {
	query := `SELECT ` + layawayColumns + ` FROM layaway_accounts WHERE id = $1 FOR UPDATE`
	return r.scanOne(r.q.QueryRow(context.Background(), query, id))
}

// Update persiste estado, total pagado y datos de cierre.
func (r *LayawayRepo) Update(a *entity.LayawayAccount) error {
	query := `
		UPDATE layaway_accounts
		SET status = $2, total_paid = $3, closed_at = $4, closed_by = NULLIF($5, '')
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.Status, a.TotalPaid, a.ClosedAt, a.ClosedBy,
	)
	if err != nil {
		return fmt.Errorf("update layaway: %w", err)
	}
	return nil
}

// ListByStatus lista cuentas por estado, más recientes primero.
// Estado vacío lista todas.
func (r *LayawayRepo) ListByStatus(status string, limit, offset int) ([]*entity.LayawayAccount, error) {
	query := `
		SELECT ` + layawayColumns + `
		FROM layaway_accounts
		WHERE ($1 = '' OR status = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list layaways: %w", err)
	}
	defer rows.Close()

	var list []*entity.LayawayAccount
	for rows.Next() {
		var a entity.LayawayAccount
		if err := rows.Scan(&a.ID, &a.Code, &a.Status, &a.ProductID, &a.CustomerName, &a.CustomerPhone,
			&a.TotalPrice, &a.InitialDeposit, &a.TotalPaid, &a.CreatedAt, &a.CreatedBy,
			&a.ClosedAt, &a.ClosedBy); err != nil {
			return nil, fmt.Errorf("scan layaway: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

func (r *LayawayRepo) scanOne(row pgx.Row) (*entity.LayawayAccount, error) {
	var a entity.LayawayAccount
	err := row.Scan(&a.ID, &a.Code, &a.Status, &a.ProductID, &a.CustomerName, &a.CustomerPhone,
		&a.TotalPrice, &a.InitialDeposit, &a.TotalPaid, &a.CreatedAt, &a.CreatedBy,
		&a.ClosedAt, &a.ClosedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get layaway: %w", err)
	}
	return &a, nil
}
