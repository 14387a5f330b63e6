package repository

import (
	"time"

	"github.com/dfmorales/puntoventa-api/internal/domain/entity"
)

// SaleRepository persistencia de ventas y sus líneas.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateLine(line *entity.SaleLine) error
	GetByID(id string) (*entity.Sale, error)
	// GetForUpdate bloquea la cabecera de la venta para anulación o edición de pagos.
	GetForUpdate(id string) (*entity.Sale, error)
	GetLines(saleID string) ([]*entity.SaleLine, error)
	Update(sale *entity.Sale) error
	ListByPeriod(from, to time.Time, limit, offset int) ([]*entity.Sale, error)
}
