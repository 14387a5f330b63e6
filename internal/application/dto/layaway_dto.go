package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateLayawayRequest body para POST /api/layaways.
type CreateLayawayRequest struct {
	ProductID      string          `json:"product_id"`
	CustomerName   string          `json:"customer_name"`
	CustomerPhone  string          `json:"customer_phone,omitempty"`
	InitialDeposit decimal.Decimal `json:"initial_deposit"`
	Method         string          `json:"method"`
}

// LayawayPaymentRequest body para POST /api/layaways/:id/payments.
type LayawayPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	Note   string          `json:"note,omitempty"`
}

// LayawayResponse plan separe en respuestas.
type LayawayResponse struct {
	ID             string            `json:"id"`
	Code           string            `json:"code"`
	Status         string            `json:"status"`
	ProductID      string            `json:"product_id"`
	CustomerName   string            `json:"customer_name"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	TotalPrice     decimal.Decimal   `json:"total_price"`
	InitialDeposit decimal.Decimal   `json:"initial_deposit"`
	TotalPaid      decimal.Decimal   `json:"total_paid"`
	Balance        decimal.Decimal   `json:"balance"`
	CreatedAt      time.Time         `json:"created_at"`
	ClosedAt       *time.Time        `json:"closed_at,omitempty"`
	Payments       []PaymentResponse `json:"payments,omitempty"`
}

// CloseLayawayResponse resultado del cierre: la cuenta cerrada y la venta de
// cierre que registró el descuento de stock.
type CloseLayawayResponse struct {
	Account LayawayResponse `json:"account"`
	Sale    SaleResponse    `json:"sale"`
}
