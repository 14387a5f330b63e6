package repository

import "github.com/dfmorales/puntoventa-api/internal/domain/entity"

// UserRepository acceso a usuarios para autenticación.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
