package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dfmorales/puntoventa-api/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de reportería de solo lectura. Trabaja directo contra
// el pool: los reportes no participan de las transacciones del core.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador sobre el pool.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// SalesSummary totales de ventas no anuladas del período.
// Los totales salen de las líneas (snapshots de precio y costo), no del
// catálogo actual: ediciones posteriores del producto no alteran el reporte.
func (r *ReportRepo) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummaryResult, error) {
	query := `
		SELECT
			COUNT(DISTINCT s.id),
			COALESCE(SUM(l.quantity * l.unit_price), 0),
			COALESCE(SUM(l.quantity * l.unit_cost), 0)
		FROM sales s
		JOIN sale_lines l ON l.sale_id = s.id
		WHERE s.status = 'COMPLETED'
		  AND s.created_at >= $1 AND s.created_at <= $2`
	var res repository.SalesSummaryResult
	err := r.pool.QueryRow(ctx, query, from, to).Scan(&res.SaleCount, &res.GrossTotal, &res.CostTotal)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	return &res, nil
}

// SalePaymentsByMethod recaudo por medio de pago de ventas no anuladas.
func (r *ReportRepo) SalePaymentsByMethod(ctx context.Context, from, to time.Time) ([]repository.MethodTotalResult, error) {
	query := `
		SELECT p.method, COALESCE(SUM(p.amount), 0)
		FROM payments p
		JOIN sales s ON s.id = p.sale_id
		WHERE s.status = 'COMPLETED'
		  AND p.created_at >= $1 AND p.created_at <= $2
		GROUP BY p.method
		ORDER BY p.method`
	return r.methodTotals(ctx, query, from, to)
}

// LayawayPaymentsByMethod abonos de planes separe por medio de pago.
// Los abonos son depósitos en custodia, no ingreso reconocido: se reportan
// aparte de los pagos de venta para no contarlos dos veces.
func (r *ReportRepo) LayawayPaymentsByMethod(ctx context.Context, from, to time.Time) ([]repository.MethodTotalResult, error) {
	query := `
		SELECT method, COALESCE(SUM(amount), 0)
		FROM payments
		WHERE layaway_id IS NOT NULL
		  AND created_at >= $1 AND created_at <= $2
		GROUP BY method
		ORDER BY method`
	return r.methodTotals(ctx, query, from, to)
}

// OpenLayaways planes separe abiertos con su saldo pendiente, más antiguos primero.
func (r *ReportRepo) OpenLayaways(ctx context.Context, limit, offset int) ([]repository.OpenLayawayResult, error) {
	query := `
		SELECT code, customer_name, total_price, total_paid, total_price - total_paid, created_at
		FROM layaway_accounts
		WHERE status = 'OPEN'
		ORDER BY created_at
		LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("open layaways: %w", err)
	}
	defer rows.Close()

	var list []repository.OpenLayawayResult
	for rows.Next() {
		var o repository.OpenLayawayResult
		if err := rows.Scan(&o.Code, &o.CustomerName, &o.TotalPrice, &o.TotalPaid, &o.Balance, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan open layaway: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func (r *ReportRepo) methodTotals(ctx context.Context, query string, from, to time.Time) ([]repository.MethodTotalResult, error) {
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("payments by method: %w", err)
	}
	defer rows.Close()

	var list []repository.MethodTotalResult
	for rows.Next() {
		var m repository.MethodTotalResult
		if err := rows.Scan(&m.Method, &m.Total); err != nil {
			return nil, fmt.Errorf("scan method total: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}
