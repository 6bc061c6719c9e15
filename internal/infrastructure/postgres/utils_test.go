package postgres

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/domain"
)

func TestWrap_Clasificacion(t *testing.T) {
	assert.NoError(t, wrap("noop", nil))

	err := wrap("get item", &pgconn.PgError{Code: codeInvalidTextRepr, Message: `invalid input syntax for type uuid: "abc"`})
	var invalid *domain.ValidationError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "id", invalid.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, wrap("checkout", &pgconn.PgError{Code: codeDeadlockDetected}), domain.ErrTransientStorage)
	assert.ErrorIs(t, wrap("insert user", &pgconn.PgError{Code: codeUniqueViolation}), domain.ErrConflict)
	assert.ErrorIs(t, wrap("insert goal", &pgconn.PgError{Code: codeCheckViolation, ConstraintName: "goals_target_amount_check"}), domain.ErrInvalidInput)

	plain := errors.New("boom")
	err = wrap("list", plain)
	assert.ErrorIs(t, err, plain)
	assert.NotErrorIs(t, err, domain.ErrInvalidInput)
}
