package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineInput línea de venta en el request.
type SaleLineInput struct {
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PaymentInput pago en el request (venta o abono de plan separe).
type PaymentInput struct {
	Method string          `json:"method"` // EFECTIVO | QR_LLAVE | DATAFONO
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// CommitSaleRequest body para POST /api/sales.
type CommitSaleRequest struct {
	CustomerName string          `json:"customer_name,omitempty"`
	Lines        []SaleLineInput `json:"lines"`
	Payments     []PaymentInput  `json:"payments"`
}

// EditPaymentsRequest body para PUT /api/sales/:id/payments.
type EditPaymentsRequest struct {
	Payments []PaymentInput `json:"payments"`
}

// SaleLineResponse línea de venta en respuestas.
type SaleLineResponse struct {
	ID        string          `json:"id"`
	ProductID string          `json:"product_id"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID     string          `json:"id"`
	Method string          `json:"method"`
	Amount decimal.Decimal `json:"amount"`
	Note   string          `json:"note,omitempty"`
}

// SaleResponse venta completa en respuestas.
type SaleResponse struct {
	ID           string             `json:"id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Status       string             `json:"status"`
	Total        decimal.Decimal    `json:"total"`
	CreatedAt    time.Time          `json:"created_at"`
	Lines        []SaleLineResponse `json:"lines"`
	Payments     []PaymentResponse  `json:"payments"`
}
