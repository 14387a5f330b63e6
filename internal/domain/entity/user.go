package entity

import "time"

// Roles de usuario para RBAC.
const (
	RoleAdmin     = "admin"
	RoleVendedor  = "vendedor"
	RoleBodeguero = "bodeguero"
)

// User empleado de la tienda con acceso al sistema.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	Role         string // admin | vendedor | bodeguero
	Status       string // active | disabled
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
