package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult totales de ventas de un período.
type SalesSummaryResult struct {
	SaleCount  int64
	GrossTotal decimal.Decimal // Σ(qty × unit_price) de ventas no anuladas
	CostTotal  decimal.Decimal // Σ(qty × unit_cost) snapshot
}

// MethodTotalResult total recaudado por medio de pago.
type MethodTotalResult struct {
	Method string
	Total  decimal.Decimal
}

// OpenLayawayResult saldo de un plan separe abierto.
type OpenLayawayResult struct {
	Code         string
	CustomerName string
	TotalPrice   decimal.Decimal
	TotalPaid    decimal.Decimal
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

// ReportRepository consultas de solo lectura acotadas por período.
// Lee el libro de movimientos y las tablas de venta/pago pero nunca las muta;
// no ofrece garantías de agregación más allá de las invariantes del core.
type ReportRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummaryResult, error)
	SalePaymentsByMethod(ctx context.Context, from, to time.Time) ([]MethodTotalResult, error)
	LayawayPaymentsByMethod(ctx context.Context, from, to time.Time) ([]MethodTotalResult, error)
	OpenLayaways(ctx context.Context, limit, offset int) ([]OpenLayawayResult, error)
}
