package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/domain/role"
	"github.com/jhoicas/Vendas-api/internal/testutil/memstore"
	"github.com/jhoicas/Vendas-api/pkg/config"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

func memOwnerStore(st *memstore.Store) OwnerStore {
	return func(context.Context, *RootOptions) (repository.UserRepository, func(), error) {
		return st.Users(), func() {}, nil
	}
}

func TestOwnerCreate(t *testing.T) {
	st := memstore.New()
	opts := &RootOptions{cfg: &config.Config{}, log: logger.Nop()}
	cmd := newOwnerCommand(opts, memOwnerStore(st))

	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"create", "--email", "chefe@org.com"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "email=chefe@org.com")
	assert.Contains(t, out.String(), "contraseña temporal: ")

	list, err := st.Users().List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, role.Dono, list[0].Role)
}

func TestOwnerCreate_EmailRequerido(t *testing.T) {
	opts := &RootOptions{cfg: &config.Config{}, log: logger.Nop()}
	cmd := newOwnerCommand(opts, memOwnerStore(memstore.New()))
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"create"})
	assert.Error(t, cmd.Execute())
}

func TestMigrateDown_StepsInvalido(t *testing.T) {
	root := NewRootCommand(func() (*config.Config, error) { return &config.Config{}, nil })
	root.SetOut(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "down", "--steps", "0"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--steps")
}
