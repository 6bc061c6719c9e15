// Package cli implementa vendasctl, la CLI operativa (migraciones y alta del primer dono).
package cli

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Vendas-api/pkg/config"
	"github.com/jhoicas/Vendas-api/pkg/logger"
)

// RootOptions estado compartido por los subcomandos.
type RootOptions struct {
	Verbose bool

	cfg *config.Config
	log *logger.Logger
}

// NewRootCommand construye el comando raíz. loadConfig permite inyectar la configuración en tests.
func NewRootCommand(loadConfig func() (*config.Config, error)) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "vendasctl",
		Short:         "Operaciones de mantenimiento de vendas-api",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			level := cfg.App.LogLevel
			if opts.Verbose {
				level = "debug"
			}
			opts.cfg = cfg
			opts.log = logger.New(logger.Config{Env: cfg.App.Env, Level: level, Service: "vendasctl"})
			return nil
		},
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log en nivel debug")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewOwnerCommand(opts))
	return cmd
}
