package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// Los handlers HTTP los mapean a códigos de estado; ninguno se traga en el core.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Conflictos de regla de negocio: la operación completa se aborta,
	// nada queda aplicado a medias.
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrPaymentMismatch   = errors.New("los pagos no cuadran con el total")
	ErrLayawayClosed     = errors.New("el plan separe ya está cerrado")
	ErrBalancePending    = errors.New("saldo pendiente supera el umbral de cierre")
)
