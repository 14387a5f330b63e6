package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dfmorales/puntoventa-api/internal/application/dto"
	"github.com/dfmorales/puntoventa-api/internal/domain"
)

// errorJSON mapea errores de dominio a códigos HTTP.
// Los conflictos de regla de negocio van todos a 409: la operación se rechazó
// completa, el estado no cambió y el cliente puede corregir y reintentar.
func errorJSON(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrPaymentMismatch):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PAYMENT_MISMATCH", Message: "los pagos no cuadran con el total"})
	case errors.Is(err, domain.ErrLayawayClosed):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "LAYAWAY_CLOSED", Message: "el plan separe ya está cerrado"})
	case errors.Is(err, domain.ErrBalancePending):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "BALANCE_PENDING", Message: "saldo pendiente supera el umbral de cierre"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado"})
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "conflicto con el estado actual"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
