package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// El core de ventas/inventario solo lee Price y Cost como snapshot al momento
// de la operación; ediciones posteriores del catálogo no alteran ventas ni
// planes separe ya registrados.
type Product struct {
	ID          string
	SKU         string // código único
	Name        string
	Description string
	Price       decimal.Decimal // precio de venta
	Cost        decimal.Decimal // costo promedio ponderado (inicia en 0)
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
