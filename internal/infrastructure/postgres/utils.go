package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhoicas/Vendas-api/internal/domain"
)

// Códigos SQLSTATE relevantes.
const (
	codeUniqueViolation      = "23505"
	codeForeignKeyViolation  = "23503"
	codeCheckViolation       = "23514"
	codeInvalidTextRepr      = "22P02"
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeQueryCanceled        = "57014"
	codeAdminShutdown        = "57P01"
)

// isUniqueViolation verifica si un error es una violación de constraint único (23505).
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == codeUniqueViolation
	}
	return strings.Contains(err.Error(), codeUniqueViolation)
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == codeForeignKeyViolation
}

// isTransient errores de conexión, timeout, cancelación o conflicto de concurrencia:
// la operación completa se puede reintentar.
func isTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}
	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeSerializationFailure, codeDeadlockDetected, codeQueryCanceled, codeAdminShutdown:
			return true
		}
		return strings.HasPrefix(pgErr.Code, "08") // connection_exception
	}
	return false
}

// wrap clasifica el error de pgx y le agrega contexto de la operación.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case isTransient(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTransientStorage, err)
	case errors.As(err, &pgErr) && pgErr.Code == codeCheckViolation:
		return fmt.Errorf("%s: %w", op, domain.Invalid(pgErr.ConstraintName, pgErr.Message))
	case errors.As(err, &pgErr) && pgErr.Code == codeInvalidTextRepr:
		return fmt.Errorf("%s: %w", op, domain.Invalid("id", "identificador inválido"))
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w: %w", op, domain.ErrConflict, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
