package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/application/auth"
	"github.com/jhoicas/Vendas-api/internal/application/dto"
	"github.com/jhoicas/Vendas-api/internal/application/users"
	"github.com/jhoicas/Vendas-api/internal/domain"
	"github.com/jhoicas/Vendas-api/internal/domain/entity"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/testutil/memstore"
	"github.com/jhoicas/Vendas-api/pkg/jwt"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

const secret = "test-secret"

func newAuth(st *memstore.Store) *auth.AuthUseCase {
	return auth.NewAuthUseCase(st.Users(), auth.JWTConfig{Secret: secret, ExpMinutes: 60, Issuer: "vendas-test"})
}

func TestRegister_SiempreMembro(t *testing.T) {
	st := memstore.New()
	uc := newAuth(st)

	out, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "Ze@Favela.com", Password: "12345678"})
	require.NoError(t, err)
	assert.Equal(t, "membro", out.Role)
	assert.Equal(t, "ze", out.Username)
	assert.False(t, out.MustChangePassword)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "ze@favela.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "x@favela.com", Password: "123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Register(context.Background(), dto.RegisterRequest{Email: "nope", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLogin(t *testing.T) {
	st := memstore.New()
	uc := newAuth(st)
	_, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ze@favela.com", Username: "zé", Password: "12345678"})
	require.NoError(t, err)

	res, err := uc.Login(context.Background(), dto.LoginRequest{Email: "ZE@favela.com", Password: "12345678"})
	require.NoError(t, err)
	id, err := jwt.Parse(secret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, id.UserID)
	assert.Equal(t, "membro", id.Role)
	assert.False(t, id.MustChangePassword)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ze@favela.com", Password: "errada!!"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ghost@favela.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_Inactivo(t *testing.T) {
	st := memstore.New()
	uc := newAuth(st)
	out, err := uc.Register(context.Background(), dto.RegisterRequest{Email: "ze@favela.com", Password: "12345678"})
	require.NoError(t, err)
	require.NoError(t, st.Users().UpdateStatus(context.Background(), out.ID, entity.UserStatusInactive))

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "ze@favela.com", Password: "12345678"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestRotacionObligatoriaDeCuentaProvisionada(t *testing.T) {
	st := memstore.New()
	st.PutUser(&entity.User{ID: "dono", Email: "dono@x.com", Username: "dono", Role: role.Dono})
	gate := users.NewGate(st.Users(), st.SalesRepo(), logger.Nop())
	uc := newAuth(st)
	ctx := context.Background()

	created, err := gate.CreateUser(ctx, "dono", dto.CreateUserRequest{Email: "novo@x.com", Username: "novo", Role: "admin"})
	require.NoError(t, err)

	login, err := uc.Login(ctx, dto.LoginRequest{Email: "novo@x.com", Password: created.TemporaryPassword})
	require.NoError(t, err)
	assert.True(t, login.User.MustChangePassword)
	id, err := jwt.Parse(secret, login.Token)
	require.NoError(t, err)
	assert.True(t, id.MustChangePassword)

	_, err = uc.ChangePassword(ctx, created.User.ID, dto.ChangePasswordRequest{CurrentPassword: "errada", NewPassword: "novasenha1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ChangePassword(ctx, created.User.ID, dto.ChangePasswordRequest{CurrentPassword: created.TemporaryPassword, NewPassword: created.TemporaryPassword})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	rotated, err := uc.ChangePassword(ctx, created.User.ID, dto.ChangePasswordRequest{CurrentPassword: created.TemporaryPassword, NewPassword: "novasenha1"})
	require.NoError(t, err)
	assert.False(t, rotated.User.MustChangePassword)
	id, err = jwt.Parse(secret, rotated.Token)
	require.NoError(t, err)
	assert.False(t, id.MustChangePassword)
	assert.False(t, st.User(created.User.ID).MustChangePassword)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "novo@x.com", Password: "novasenha1"})
	assert.NoError(t, err)
}

func TestMeYPresencia(t *testing.T) {
	st := memstore.New()
	st.PutUser(&entity.User{ID: "ger", Username: "gerente", Role: role.Gerente})
	uc := newAuth(st)

	me, err := uc.Me(context.Background(), "ger")
	require.NoError(t, err)
	assert.Equal(t, []string{"membro", "admin", "sub-lider"}, me.AssignableRoles)

	require.NoError(t, uc.SetPresence(context.Background(), "ger", true))
	assert.True(t, st.User("ger").IsOnline)

	_, err = uc.Me(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
