package users_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Vendas-api/internal/application/users"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/testutil/memstore"
)

func TestBootstrapOwner_PrimerDono(t *testing.T) {
	st := memstore.New()
	out, err := users.BootstrapOwner(context.Background(), st.Users(), " Dono@Org.com ", "", "")
	require.NoError(t, err)

	assert.Equal(t, "dono@org.com", out.User.Email)
	assert.Equal(t, "dono", out.User.Username)
	assert.Equal(t, role.Dono.String(), out.User.Role)
	assert.True(t, out.User.MustChangePassword)
	require.NotEmpty(t, out.TemporaryPassword)

	stored := st.User(out.User.ID)
	require.NotNil(t, stored)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(out.TemporaryPassword)))
}

func TestBootstrapOwner_PasswordExplicita(t *testing.T) {
	st := memstore.New()
	out, err := users.BootstrapOwner(context.Background(), st.Users(), "dono@org.com", "chefe", "clave-segura")
	require.NoError(t, err)
	assert.Empty(t, out.TemporaryPassword)
	assert.False(t, out.User.MustChangePassword)

	_, err = users.BootstrapOwner(context.Background(), memstore.New().Users(), "x@org.com", "", "corta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBootstrapOwner_YaExisteDono(t *testing.T) {
	st := memstore.New()
	st.PutUser(&entity.User{ID: "d1", Email: "d1@org.com", Role: role.Dono})

	_, err := users.BootstrapOwner(context.Background(), st.Users(), "otro@org.com", "", "")
	assert.ErrorIs(t, err, users.ErrOwnerExists)
}

func TestBootstrapOwner_DonoInactivoNoBloquea(t *testing.T) {
	st := memstore.New()
	st.PutUser(&entity.User{ID: "d1", Email: "d1@org.com", Role: role.Dono, Status: entity.UserStatusInactive})

	_, err := users.BootstrapOwner(context.Background(), st.Users(), "otro@org.com", "", "")
	assert.NoError(t, err)
}
