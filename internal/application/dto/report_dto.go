package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MethodTotalDTO total recaudado por medio de pago en un período.
type MethodTotalDTO struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
}

// SalesSummaryDTO resumen de ventas de un período.
type SalesSummaryDTO struct {
	From            time.Time        `json:"from"`
	To              time.Time        `json:"to"`
	SaleCount       int64            `json:"sale_count"`
	GrossTotal      decimal.Decimal  `json:"gross_total"`
	CostTotal       decimal.Decimal  `json:"cost_total"`
	GrossMargin     decimal.Decimal  `json:"gross_margin"`
	SalePayments    []MethodTotalDTO `json:"sale_payments_by_method"`
	LayawayDeposits []MethodTotalDTO `json:"layaway_deposits_by_method"`
}

// OpenLayawayDTO saldo pendiente de un plan separe abierto.
type OpenLayawayDTO struct {
	Code         string          `json:"code"`
	CustomerName string          `json:"customer_name"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Balance      decimal.Decimal `json:"balance"`
	CreatedAt    time.Time       `json:"created_at"`
}
