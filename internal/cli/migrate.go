package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Vendas-api/internal/infrastructure/postgres"
)

// NewMigrateCommand agrupa up, down y version sobre las migraciones embebidas.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, func(m *postgres.Migrator) error { return m.Up() })
		},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Revierte migraciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return fmt.Errorf("--steps debe ser mayor que cero")
			}
			return withMigrator(opts, func(m *postgres.Migrator) error { return m.Down(steps) })
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "número de migraciones a revertir")

	version := &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withMigrator(opts, func(m *postgres.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%t\n", v, dirty)
				return nil
			})
		},
	}

	cmd.AddCommand(up, down, version)
	return cmd
}

func withMigrator(opts *RootOptions, fn func(*postgres.Migrator) error) error {
	m, err := postgres.NewMigrator(opts.cfg.DB, opts.log)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
