package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Vendas-api/internal/application/users"
	"github.com/jhoicas/Vendas-api/internal/domain/repository"
	"github.com/jhoicas/Vendas-api/internal/infrastructure/postgres"
)

// OwnerStore abre el repositorio de usuarios; se sustituye en tests.
type OwnerStore func(ctx context.Context, opts *RootOptions) (repository.UserRepository, func(), error)

// PostgresOwnerStore usa el pool de la aplicación.
func PostgresOwnerStore(ctx context.Context, opts *RootOptions) (repository.UserRepository, func(), error) {
	pool, err := postgres.NewPool(ctx, opts.cfg.DB)
	if err != nil {
		return nil, nil, err
	}
	return postgres.NewUserRepository(pool), pool.Close, nil
}

// NewOwnerCommand agrupa las operaciones sobre el dono.
func NewOwnerCommand(opts *RootOptions) *cobra.Command {
	return newOwnerCommand(opts, PostgresOwnerStore)
}

func newOwnerCommand(opts *RootOptions, open OwnerStore) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Gestión del usuario dono",
	}

	var email, username, password string
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea el primer dono (sin contraseña se genera una temporal)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			repo, closeFn, err := open(ctx, opts)
			if err != nil {
				return err
			}
			defer closeFn()

			out, err := users.BootstrapOwner(ctx, repo, email, username, password)
			if err != nil {
				return err
			}
			opts.log.Info().Str("user_id", out.User.ID).Str("email", out.User.Email).Msg("dono creado")
			fmt.Fprintf(cmd.OutOrStdout(), "id=%s email=%s\n", out.User.ID, out.User.Email)
			if out.TemporaryPassword != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "contraseña temporal: %s\n", out.TemporaryPassword)
			}
			return nil
		},
	}
	create.Flags().StringVar(&email, "email", "", "email del dono (requerido)")
	create.Flags().StringVar(&username, "username", "", "nombre visible (por defecto, parte local del email)")
	create.Flags().StringVar(&password, "password", "", "contraseña inicial")
	_ = create.MarkFlagRequired("email")

	cmd.AddCommand(create)
	return cmd
}
