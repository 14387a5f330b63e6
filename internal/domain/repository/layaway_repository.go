package repository

import "github.com/dfmorales/puntoventa-api/internal/domain/entity"

// LayawayRepository persistencia de planes separe.
type LayawayRepository interface {
	Create(account *entity.LayawayAccount) error
	GetByID(id string) (*entity.LayawayAccount, error)
	GetByCode(code string) (*entity.LayawayAccount, error)
	// GetForUpdate bloquea la fila de la cuenta (SELECT FOR UPDATE) para que
	// abonos y cierre concurrentes se serialicen.
	GetForUpdate(id string) (*entity.LayawayAccount, error)
	Update(account *entity.LayawayAccount) error
	// ListByStatus filtra por estado; estado vacío lista todas las cuentas.
	ListByStatus(status string, limit, offset int) ([]*entity.LayawayAccount, error)
}
