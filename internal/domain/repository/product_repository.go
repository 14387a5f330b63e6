package repository

import (
	"github.com/shopspring/decimal"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// ProductRepository acceso al catálogo de productos.
// El core lo consume de solo lectura (snapshot de precio/costo).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetBySKU(sku string) (*entity.Product, error)
	List(limit, offset int) ([]*entity.Product, error)
	Update(product *entity.Product) error
	UpdateCost(id string, cost decimal.Decimal) error
}
