package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE unique_violation.
const uniqueViolationCode = "23505"

// isUniqueViolation detecta choques contra los índices únicos del esquema
// (SKU de producto, código de plan separe, email de usuario) para mapearlos
// a ErrDuplicate en vez de propagar el error crudo del driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}
